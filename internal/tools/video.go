package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
)

const defaultTranscriptionModel = "whisperx-large-v2"

// RequestVideoUpload starts the video workflow by staging a recording file.
type RequestVideoUpload struct {
	deps *Dependencies
}

// RequestVideoUploadInput defines the input schema for request_video_upload.
type RequestVideoUploadInput struct {
	Path string `json:"path,omitempty"`
}

func (t *RequestVideoUpload) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "request_video_upload",
			Description: "Start the video ingestion workflow. Provide the path to a meeting recording " +
				"to stage it for transcription, or call without a path to ask the user for one.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Local filesystem path of the recording to transcribe",
					},
				},
			},
		},
	}
}

func (t *RequestVideoUpload) Invoke(_ context.Context, sessionID string, args json.RawMessage) (string, error) {
	var input RequestVideoUploadInput
	if len(args) > 0 {
		_ = json.Unmarshal(args, &input)
	}

	if input.Path == "" {
		t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
			w.AwaitingUpload = true
		})
		return "Please provide the path to the meeting recording you want to transcribe.", nil
	}

	if _, err := os.Stat(input.Path); err != nil {
		return "", Errorf(fmt.Sprintf("File not found: %s", input.Path), "Check the path and try again")
	}

	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		w.UploadPath = input.Path
		w.AwaitingUpload = false
	})
	return fmt.Sprintf("Video file staged: %s\nReady to transcribe. Say the word and I'll start.", input.Path), nil
}

// TranscribeVideo runs the staged recording through the transcription service.
type TranscribeVideo struct {
	deps *Dependencies
}

// TranscribeVideoInput defines the input schema for transcribe_video.
type TranscribeVideoInput struct {
	Path string `json:"path,omitempty"`
}

func (t *TranscribeVideo) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "transcribe_video",
			Description: "Transcribe the staged meeting recording with speaker diarization. " +
				"Takes a while for long recordings.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Recording path, only needed when no file was staged via request_video_upload",
					},
				},
			},
		},
	}
}

func (t *TranscribeVideo) Invoke(ctx context.Context, sessionID string, args json.RawMessage) (string, error) {
	var input TranscribeVideoInput
	if len(args) > 0 {
		_ = json.Unmarshal(args, &input)
	}

	var path string
	var running bool
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		if input.Path != "" {
			w.UploadPath = input.Path
		}
		path = w.UploadPath
		running = w.TranscriptionRunning
		if path != "" && !running {
			w.TranscriptionRunning = true
		}
	})
	if path == "" {
		return "", Errorf("No video file has been provided", "Call request_video_upload with the recording path first")
	}
	if running {
		return "", Errorf("A transcription is already running for this session", "Wait for it to finish")
	}
	defer t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		w.TranscriptionRunning = false
	})

	t.deps.Logger.Info("transcription started", "path", path)
	result, err := t.deps.Transcriber.Transcribe(ctx, path)
	if err != nil {
		t.deps.Logger.Error("transcription failed", "path", path, "error", err)
		return "", Errorf("Transcription failed", err.Error())
	}

	text := result.Text()
	model := result.Model
	if model == "" {
		model = defaultTranscriptionModel
	}
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		w.Segments = result.Segments
		w.TranscriptText = text
		w.Language = result.Language
		w.TranscriptionModel = model
		w.MeetingDuration = models.FormatTimestamp(result.Duration)
		w.ProcessingTime = result.ProcessingTime
	})

	preview := text
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}

	return FormatResults([]string{
		"Transcription complete!",
		fmt.Sprintf("- Duration: %s", models.FormatTimestamp(result.Duration)),
		fmt.Sprintf("- Language: %s", result.Language),
		fmt.Sprintf("- Speakers detected: %d", len(result.Speakers)),
		fmt.Sprintf("- Segments: %d", len(result.Segments)),
		"",
		"Preview:",
		preview,
		"",
		"You can now review the transcript, rename speakers, or save it to the knowledge base.",
	}), nil
}

// RequestTranscriptEdit hands the staged transcript back for review.
type RequestTranscriptEdit struct {
	deps *Dependencies
}

func (t *RequestTranscriptEdit) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "request_transcript_edit",
			Description: "Show the full staged transcript so the user can review and correct it before saving.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func (t *RequestTranscriptEdit) Invoke(_ context.Context, sessionID string, _ json.RawMessage) (string, error) {
	var text string
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		text = w.TranscriptText
		if text != "" {
			w.EditorOpen = true
		}
	})
	if text == "" {
		return "", Errorf("No transcript to edit", "Transcribe a recording first")
	}
	return fmt.Sprintf("Here is the current transcript. Send the corrected version back and I'll apply it.\n\n%s", text), nil
}

// ApplyTranscriptEdit replaces the staged transcript with corrected text.
type ApplyTranscriptEdit struct {
	deps *Dependencies
}

// ApplyTranscriptEditInput defines the input schema for apply_transcript_edit.
type ApplyTranscriptEditInput struct {
	Text string `json:"text"`
}

func (t *ApplyTranscriptEdit) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "apply_transcript_edit",
			Description: "Replace the staged transcript with the user's corrected text.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The full corrected transcript text",
					},
				},
				"required": []string{"text"},
			},
		},
	}
}

func (t *ApplyTranscriptEdit) Invoke(_ context.Context, sessionID string, args json.RawMessage) (string, error) {
	var input ApplyTranscriptEditInput
	if err := json.Unmarshal(args, &input); err != nil || strings.TrimSpace(input.Text) == "" {
		return "", Errorf("Edited text cannot be empty", "Send the full corrected transcript")
	}

	var hadTranscript bool
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		hadTranscript = w.HasTranscript()
		if !hadTranscript {
			return
		}
		w.TranscriptText = input.Text
		// Hand-edited text no longer lines up with the timed segments,
		// so the save falls back to plain text chunking.
		w.Segments = nil
		w.EditorOpen = false
	})
	if !hadTranscript {
		return "", Errorf("No transcript to edit", "Transcribe a recording first")
	}
	return fmt.Sprintf("Transcript updated (%d characters). Save it when you're ready.", len(input.Text)), nil
}

// RenameSpeakers records real names for the diarized speaker labels.
type RenameSpeakers struct {
	deps *Dependencies
}

// RenameSpeakersInput defines the input schema for rename_speakers.
type RenameSpeakersInput struct {
	Mapping string `json:"mapping"`
}

func (t *RenameSpeakers) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "rename_speakers",
			Description: "Assign real names to the generic speaker labels in the staged transcript, " +
				"e.g. \"SPEAKER_00=John Smith, SPEAKER_01=Jane Doe\". Names are applied when the transcript is saved.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"mapping": map[string]any{
						"type":        "string",
						"description": "Comma-separated LABEL=Name pairs",
					},
				},
				"required": []string{"mapping"},
			},
		},
	}
}

func (t *RenameSpeakers) Invoke(_ context.Context, sessionID string, args json.RawMessage) (string, error) {
	var input RenameSpeakersInput
	if err := json.Unmarshal(args, &input); err != nil || strings.TrimSpace(input.Mapping) == "" {
		return "", Errorf("Speaker mapping cannot be empty", "Pass LABEL=Name pairs, e.g. SPEAKER_00=John Smith")
	}

	mapping, err := models.ParseSpeakerMapping(input.Mapping)
	if err != nil {
		return "", Errorf(err.Error(), "Use the form SPEAKER_00=John Smith, SPEAKER_01=Jane Doe")
	}
	if len(mapping) == 0 {
		return "", Errorf("Speaker mapping cannot be empty", "Pass LABEL=Name pairs, e.g. SPEAKER_00=John Smith")
	}

	var hadTranscript bool
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		hadTranscript = w.HasTranscript()
		if !hadTranscript {
			return
		}
		if w.SpeakerMapping == nil {
			w.SpeakerMapping = make(map[string]string)
		}
		for label, name := range mapping {
			w.SpeakerMapping[label] = name
		}
	})
	if !hadTranscript {
		return "", Errorf("No transcript to rename speakers in", "Transcribe a recording first")
	}

	labels := make([]string, 0, len(mapping))
	for label := range mapping {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := []string{"Speaker names updated:"}
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("- %s is now %s", label, mapping[label]))
	}
	return FormatResults(lines), nil
}

// SaveTranscript indexes the staged transcript and closes the workflow.
type SaveTranscript struct {
	deps *Dependencies
}

// SaveTranscriptInput defines the input schema for save_transcript.
type SaveTranscriptInput struct {
	Title string `json:"title,omitempty"`
	Date  string `json:"date,omitempty"`
}

func (t *SaveTranscript) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: "save_transcript",
			Description: "Save the staged transcript to the knowledge base, making the meeting searchable. " +
				"Completes the video workflow.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Optional meeting title. Inferred from the transcript when omitted.",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Optional meeting date in YYYY-MM-DD format. Inferred or defaulted to today when omitted.",
					},
				},
			},
		},
	}
}

func (t *SaveTranscript) Invoke(ctx context.Context, sessionID string, args json.RawMessage) (string, error) {
	var input SaveTranscriptInput
	if len(args) > 0 {
		_ = json.Unmarshal(args, &input)
	}

	state := t.deps.Sessions.Get(sessionID)
	if !state.HasTranscript() {
		return "", Errorf("No transcript to save", "Transcribe a recording or paste a transcript first")
	}

	today := time.Now().Format("2006-01-02")
	meta := models.MeetingMetadata{
		MeetingID:          service.NewMeetingID(),
		MeetingDate:        today,
		MeetingTitle:       "Untitled Meeting",
		Summary:            "No summary available.",
		Source:             "video_upload",
		SourceFile:         state.UploadPath,
		Language:           state.Language,
		TranscriptionModel: state.TranscriptionModel,
		Duration:           state.MeetingDuration,
		DateTranscribed:    today,
	}
	if meta.TranscriptionModel == "" {
		meta.TranscriptionModel = defaultTranscriptionModel
	}

	mapping := make(map[string]string)
	if t.deps.Extractor != nil {
		extracted := t.deps.Extractor.Extract(ctx, state.TranscriptText)
		meta.MeetingTitle = extracted.Title
		meta.Summary = extracted.Summary
		if extracted.MeetingDate != "" {
			meta.MeetingDate = extracted.MeetingDate
		}
		for label, name := range extracted.SpeakerMapping {
			mapping[label] = name
		}
	}
	// Names the user set explicitly win over inferred ones.
	for label, name := range state.SpeakerMapping {
		mapping[label] = name
	}
	meta.SpeakerMapping = mapping

	if input.Title != "" {
		meta.MeetingTitle = input.Title
	}
	if input.Date != "" {
		meta.MeetingDate = input.Date
	}

	var result *service.IngestResult
	var err error
	if len(state.Segments) > 0 {
		segments := models.ApplySpeakerMappingToSegments(state.Segments, mapping)
		result, err = t.deps.Ingestor.IngestSegments(ctx, segments, meta)
	} else {
		text := models.ApplySpeakerMapping(state.TranscriptText, mapping)
		result, err = t.deps.Ingestor.IngestText(ctx, text, meta)
	}
	if err != nil {
		t.deps.Logger.Error("saving transcript failed", "error", err)
		return "", Errorf("Failed to save the transcript", "The embedding or database service may be unavailable")
	}

	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		w.Reset()
	})

	return FormatResults([]string{
		"Meeting saved successfully!",
		fmt.Sprintf("- Meeting ID: %s", result.MeetingID),
		fmt.Sprintf("- Title: %s", meta.MeetingTitle),
		fmt.Sprintf("- Date: %s", meta.MeetingDate),
		fmt.Sprintf("- Chunks created: %d", result.Chunks),
		"",
		"You can now ask questions about this meeting.",
	}), nil
}

// CancelWorkflow abandons the in-progress video workflow.
type CancelWorkflow struct {
	deps *Dependencies
}

func (t *CancelWorkflow) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "cancel_workflow",
			Description: "Cancel the in-progress video workflow and discard any staged transcript.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func (t *CancelWorkflow) Invoke(_ context.Context, sessionID string, _ json.RawMessage) (string, error) {
	t.deps.Sessions.Update(sessionID, func(w *models.WorkflowState) {
		w.Reset()
	})
	return "Video workflow cancelled. What else can I help you with?", nil
}
