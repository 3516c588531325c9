package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// maxAnalysisChars limits how much transcript goes to the model; the opening
// portion carries the introductions and agenda the extraction needs.
const maxAnalysisChars = 15000

const extractorSystemPrompt = `You are a Metadata Extraction Expert. Analyze the provided meeting transcript and extract the following information in JSON format:

1. "title": A concise, meaningful title for the meeting (e.g., "Q3 Marketing Strategy Review").
2. "summary": A brief 2-3 sentence summary of the meeting.
3. "meeting_date": The date the meeting likely took place, if mentioned (format: YYYY-MM-DD). If not explicitly mentioned, return null.
4. "speaker_mapping": A dictionary mapping generic speaker labels (SPEAKER_00, SPEAKER_01) to likely real names based on introductions or context. If unknown, leave empty.

Example Output:
{
    "title": "Project Alpha Kickoff",
    "summary": "The team discussed the timeline for Project Alpha. John assigned tasks to Sarah and Mike.",
    "meeting_date": "2023-10-12",
    "speaker_mapping": {
        "SPEAKER_00": "John Smith",
        "SPEAKER_01": "Sarah Jones"
    }
}`

// ExtractedMetadata is what the model infers from a transcript.
type ExtractedMetadata struct {
	Title          string            `json:"title"`
	Summary        string            `json:"summary"`
	MeetingDate    string            `json:"meeting_date"`
	SpeakerMapping map[string]string `json:"speaker_mapping"`
}

// defaultMetadata is returned whenever extraction or parsing fails.
func defaultMetadata() ExtractedMetadata {
	return ExtractedMetadata{
		Title:          "Untitled Meeting",
		Summary:        "No summary available.",
		SpeakerMapping: map[string]string{},
	}
}

type generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor infers meeting metadata (title, summary, date, speaker names)
// from transcript text via the chat model.
type Extractor struct {
	model generator
}

// NewExtractor creates a metadata extractor on top of the chat model.
func NewExtractor(model *Model) *Extractor {
	return &Extractor{model: model}
}

// Extract analyzes a transcript and returns inferred metadata. It never
// fails: any model or parse error yields safe defaults.
func (e *Extractor) Extract(ctx context.Context, transcript string) ExtractedMetadata {
	analysis := transcript
	if len(analysis) > maxAnalysisChars {
		analysis = analysis[:maxAnalysisChars]
	}

	response, err := e.model.GenerateWithSystem(ctx, extractorSystemPrompt, "Transcript:\n"+analysis)
	if err != nil {
		slog.Warn("metadata extraction failed", "error", err)
		return defaultMetadata()
	}

	meta, err := parseMetadataJSON(response)
	if err != nil {
		slog.Warn("metadata extraction returned unparseable JSON", "error", err)
		return defaultMetadata()
	}
	if meta.SpeakerMapping == nil {
		meta.SpeakerMapping = map[string]string{}
	}
	if meta.Title == "" {
		meta.Title = "Untitled Meeting"
	}
	if meta.Summary == "" {
		meta.Summary = "No summary available."
	}
	return meta
}

// parseMetadataJSON tolerates the model wrapping its JSON in a markdown
// code fence, with or without a language tag.
func parseMetadataJSON(content string) (ExtractedMetadata, error) {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	var meta ExtractedMetadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &meta); err != nil {
		return ExtractedMetadata{}, err
	}
	return meta, nil
}
