package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
)

// SaveText indexes pasted text (notes, minutes, transcripts) directly,
// without the video workflow.
type SaveText struct {
	deps *Dependencies
}

// SaveTextInput defines the input schema for save_text.
type SaveTextInput struct {
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
}

func (t *SaveText) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "save_text",
			Description: "Save arbitrary text content (notes, pasted transcripts, meeting minutes) " +
				"to the knowledge base so it becomes searchable.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content": map[string]any{
						"type":        "string",
						"description": "The text content to save",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "Optional title for the content. Inferred from the text when omitted.",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Optional date in YYYY-MM-DD format (defaults to today)",
					},
				},
				"required": []string{"content"},
			},
		},
	}
}

func (t *SaveText) Invoke(ctx context.Context, _ string, args json.RawMessage) (string, error) {
	var input SaveTextInput
	if err := json.Unmarshal(args, &input); err != nil {
		return "", Errorf("Malformed save_text arguments", "Pass a JSON object with a content field")
	}
	if strings.TrimSpace(input.Content) == "" {
		return "", Errorf("Content cannot be empty", "Provide the text to save")
	}

	meta := textMetadata(ctx, t.deps, input.Content, "text_input", "")
	if input.Title != "" {
		meta.MeetingTitle = input.Title
	}
	if input.Date != "" {
		meta.MeetingDate = input.Date
	}

	result, err := t.deps.Ingestor.IngestText(ctx, input.Content, meta)
	if err != nil {
		t.deps.Logger.Error("saving text failed", "error", err)
		return "", Errorf("Failed to save text", "The embedding or database service may be unavailable")
	}

	return FormatResults([]string{
		"Text saved successfully!",
		fmt.Sprintf("- Document ID: %s", meta.MeetingID),
		fmt.Sprintf("- Title: %s", meta.MeetingTitle),
		fmt.Sprintf("- Date: %s", meta.MeetingDate),
		fmt.Sprintf("- Chunks created: %d", result.Chunks),
	}), nil
}

// ImportDocument pulls a page from the connected document store (Notion)
// into the knowledge base.
type ImportDocument struct {
	deps *Dependencies
}

// ImportDocumentInput defines the input schema for import_document.
type ImportDocumentInput struct {
	Query string `json:"query"`
}

func (t *ImportDocument) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "import_document",
			Description: "Search the connected Notion workspace for a page and import its content " +
				"into the knowledge base. The best-matching page is imported.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Title or search terms identifying the page to import",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (t *ImportDocument) Invoke(ctx context.Context, _ string, args json.RawMessage) (string, error) {
	if t.deps.DocStore == nil {
		return "", Errorf("No document store is configured", "Set MINUTED_NOTION_TOKEN to enable imports")
	}

	var input ImportDocumentInput
	if err := json.Unmarshal(args, &input); err != nil || strings.TrimSpace(input.Query) == "" {
		return "", Errorf("Query cannot be empty", "Name the page to import")
	}

	pages, err := t.deps.DocStore.Search(ctx, input.Query)
	if err != nil {
		t.deps.Logger.Error("document search failed", "error", err)
		return "", Errorf("Document store search failed", "The Notion API may be unavailable")
	}
	if len(pages) == 0 {
		return fmt.Sprintf("No documents found matching: %s", input.Query), nil
	}

	page := pages[0]
	content, err := t.deps.DocStore.FetchContent(ctx, page.ID)
	if err != nil {
		t.deps.Logger.Error("document fetch failed", "page_id", page.ID, "error", err)
		return "", Errorf(fmt.Sprintf("Failed to fetch content of %q", page.Title), "The Notion API may be unavailable")
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Sprintf("The page %q is empty, nothing to import.", page.Title), nil
	}

	meta := textMetadata(ctx, t.deps, content, "notion", page.URL)
	if page.Title != "" {
		meta.MeetingTitle = page.Title
	}
	meta.Summary = fmt.Sprintf("Imported from Notion: %s", page.Title)

	result, err := t.deps.Ingestor.IngestText(ctx, content, meta)
	if err != nil {
		t.deps.Logger.Error("document import failed", "error", err)
		return "", Errorf("Failed to import document", "The embedding or database service may be unavailable")
	}

	t.deps.Logger.Info("imported document", "page", page.Title, "doc_id", meta.MeetingID, "chunks", result.Chunks)

	return FormatResults([]string{
		fmt.Sprintf("Imported %q successfully!", page.Title),
		fmt.Sprintf("- Document ID: %s", meta.MeetingID),
		fmt.Sprintf("- Chunks created: %d", result.Chunks),
	}), nil
}

// textMetadata assembles metadata for text imported outside the video
// pipeline, refining title and summary through the extractor when available.
func textMetadata(ctx context.Context, deps *Dependencies, content, source, sourceFile string) models.MeetingMetadata {
	today := time.Now().Format("2006-01-02")
	meta := models.MeetingMetadata{
		MeetingID:          service.NewDocumentID(),
		MeetingDate:        today,
		MeetingTitle:       "Untitled Meeting",
		Summary:            "No summary available.",
		Source:             source,
		SourceFile:         sourceFile,
		TranscriptionModel: "text_import",
		DateTranscribed:    today,
	}
	if deps.Extractor != nil {
		extracted := deps.Extractor.Extract(ctx, content)
		meta.MeetingTitle = extracted.Title
		meta.Summary = extracted.Summary
		if extracted.MeetingDate != "" {
			meta.MeetingDate = extracted.MeetingDate
		}
	}
	return meta
}
