package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/planner"
)

// SearchMeetings searches meeting transcripts with semantic search.
type SearchMeetings struct {
	deps *Dependencies
}

// SearchMeetingsInput defines the input schema for search_meetings.
type SearchMeetingsInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	MeetingID  string `json:"meeting_id,omitempty"`
}

func (t *SearchMeetings) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "search_meetings",
			Description: "Search meeting transcripts for relevant information using semantic search. " +
				"Use this to find specific information across meeting transcripts.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query or question to find relevant meeting content",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results to return (default chosen from the query)",
					},
					"meeting_id": map[string]any{
						"type":        "string",
						"description": "Optional meeting ID to search within a specific meeting (e.g. \"meeting_abc12345\"). Do not use indices like \"1\" or \"2\".",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (t *SearchMeetings) Invoke(ctx context.Context, _ string, args json.RawMessage) (string, error) {
	var input SearchMeetingsInput
	if err := json.Unmarshal(args, &input); err != nil {
		return "", Errorf("Malformed search arguments", "Pass a JSON object with a query field")
	}
	if strings.TrimSpace(input.Query) == "" {
		return "", Errorf("Query cannot be empty", "Provide a search query")
	}

	// Explicit arguments override the query-derived plan.
	plan := planner.Plan(input.Query)
	k := plan.K
	if input.MaxResults > 0 {
		k = input.MaxResults
	}
	meetingID := plan.MeetingID
	if input.MeetingID != "" {
		meetingID = input.MeetingID
	}

	embedding, err := t.deps.Embedder.Embed(ctx, input.Query)
	if err != nil {
		t.deps.Logger.Error("query embedding failed", "error", err)
		return "", Errorf("Failed to generate query embedding", "The embedding service may be unavailable")
	}

	docs, err := t.deps.Store.SearchDocuments(ctx, embedding, k, meetingID)
	if err != nil {
		t.deps.Logger.Error("search failed", "error", err)
		return "", Errorf("Search failed", "The database may be unavailable")
	}

	if len(docs) == 0 {
		return "No relevant meeting segments found for your query.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d relevant meeting segments:\n", len(docs))
	for i, doc := range docs {
		fmt.Fprintf(&sb, "\n--- Segment %d ---\n", i+1)
		fmt.Fprintf(&sb, "Meeting: %s (Date: %s)\n", doc.MeetingID, doc.MeetingDate)
		fmt.Fprintf(&sb, "Chunk: %d of %d\n", doc.ChunkIndex+1, doc.TotalChunks)
		fmt.Fprintf(&sb, "Content:\n%s\n", doc.Text)
	}

	queryLog := input.Query
	if len(queryLog) > 30 {
		queryLog = queryLog[:30] + "..."
	}
	t.deps.Logger.Info("search completed", "query", queryLog, "results", len(docs), "k", k, "meeting_id", meetingID)

	return sb.String(), nil
}

// GetMeetingMetadata surfaces one meeting's stored metadata as text.
type GetMeetingMetadata struct {
	deps *Dependencies
}

// GetMeetingMetadataInput defines the input schema for get_meeting_metadata.
type GetMeetingMetadataInput struct {
	MeetingID string `json:"meeting_id"`
}

func (t *GetMeetingMetadata) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "get_meeting_metadata",
			Description: "Retrieve metadata and summary information for a specific meeting, " +
				"such as date, title, duration and source.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"meeting_id": map[string]any{
						"type":        "string",
						"description": "The unique identifier for the meeting (e.g. \"meeting_abc12345\")",
					},
				},
				"required": []string{"meeting_id"},
			},
		},
	}
}

func (t *GetMeetingMetadata) Invoke(ctx context.Context, _ string, args json.RawMessage) (string, error) {
	var input GetMeetingMetadataInput
	if err := json.Unmarshal(args, &input); err != nil || input.MeetingID == "" {
		return "", Errorf("Meeting ID is required", "Pass the meeting_id to look up")
	}

	doc, err := t.deps.Store.GetMeetingDocument(ctx, input.MeetingID)
	if err != nil {
		t.deps.Logger.Error("metadata lookup failed", "error", err)
		return "", Errorf("Failed to retrieve meeting metadata", "The database may be unavailable")
	}
	if doc == nil {
		// Not found is an answer, not a failure.
		return fmt.Sprintf("No meeting found with ID: %s", input.MeetingID), nil
	}

	lines := []string{
		fmt.Sprintf("Meeting Information for %s:", input.MeetingID),
		fmt.Sprintf("- Date: %s", orNA(doc.MeetingDate)),
		fmt.Sprintf("- Title: %s", orNA(doc.MeetingTitle)),
		fmt.Sprintf("- Summary: %s", orNA(doc.Summary)),
		fmt.Sprintf("- Source: %s", orNA(doc.Source)),
		fmt.Sprintf("- Source File: %s", orNA(doc.SourceFile)),
		fmt.Sprintf("- Language: %s", orNA(doc.Language)),
		fmt.Sprintf("- Transcription Model: %s", orNA(doc.TranscriptionModel)),
		fmt.Sprintf("- Duration: %s", orNA(doc.MeetingDuration)),
	}
	return FormatResults(lines), nil
}

// ListRecentMeetings enumerates meetings available for questioning.
type ListRecentMeetings struct {
	deps *Dependencies
}

// ListRecentMeetingsInput defines the input schema for list_recent_meetings.
type ListRecentMeetingsInput struct {
	Limit int `json:"limit,omitempty"`
}

func (t *ListRecentMeetings) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "list_recent_meetings",
			Description: "Get a list of recent meetings stored in the system, " +
				"to see what meetings are available to ask about.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of meetings to return (default 10)",
					},
				},
			},
		},
	}
}

func (t *ListRecentMeetings) Invoke(ctx context.Context, _ string, args json.RawMessage) (string, error) {
	var input ListRecentMeetingsInput
	if len(args) > 0 {
		_ = json.Unmarshal(args, &input)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	docs, err := t.deps.Store.SampleDocuments(ctx, 100)
	if err != nil {
		t.deps.Logger.Error("listing meetings failed", "error", err)
		return "", Errorf("Failed to list meetings", "The database may be unavailable")
	}
	if len(docs) == 0 {
		return "No meetings found in the system.", nil
	}

	// De-duplicate by meeting id, preserving first-seen order.
	seen := make(map[string]bool)
	var unique []models.IndexedDocument
	for _, doc := range docs {
		if doc.MeetingID == "" || seen[doc.MeetingID] {
			continue
		}
		seen[doc.MeetingID] = true
		unique = append(unique, doc)
		if len(unique) >= limit {
			break
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d recent meetings:\n", len(unique))
	for i, doc := range unique {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, doc.MeetingID)
		fmt.Fprintf(&sb, "   Date: %s\n", orNA(doc.MeetingDate))
		fmt.Fprintf(&sb, "   Title: %s\n", orNA(doc.MeetingTitle))
		fmt.Fprintf(&sb, "   Source: %s", orNA(doc.SourceFile))
		if i < len(unique)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
