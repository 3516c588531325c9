package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
	"github.com/minuted/minuted/internal/transcribe"
)

var (
	ingestText  bool
	ingestTitle string
	ingestDate  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Transcribe and index a meeting recording or transcript file",
	Long: `Ingest one meeting into the knowledge base.

Recordings are transcribed with speaker identification first; transcript
text files (--text) skip transcription. Metadata (title, summary, date,
speaker names) is inferred from the content unless given explicitly.

Examples:
  minuted ingest standup.mp4
  minuted ingest notes.txt --text --title "Q1 Planning"
  minuted ingest allhands.mkv --date 2026-08-12`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestText, "text", false, "treat the file as transcript text, skip transcription")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "meeting title (inferred when omitted)")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "meeting date YYYY-MM-DD (inferred when omitted)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	if err := initLLM(); err != nil {
		return err
	}

	stages := []string{"transcribing", "extracting metadata", "indexing"}
	if ingestText {
		stages[0] = "reading"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := runWithProgress(cancel, stages, func(report func(stage int)) (*service.IngestResult, error) {
		return ingestPipeline(ctx, path, report)
	})
	if err != nil {
		return err
	}

	fmt.Println("Ingested successfully!")
	fmt.Printf("  Meeting ID:     %s\n", result.MeetingID)
	fmt.Printf("  Chunks:         %d\n", result.Chunks)
	fmt.Printf("  Avg chunk size: %d chars\n", result.AvgChunkSize)
	return nil
}

// ingestPipeline runs transcribe/read, extract, index, reporting each stage.
func ingestPipeline(ctx context.Context, path string, report func(stage int)) (*service.IngestResult, error) {
	extractor := llm.NewExtractor(model)
	today := time.Now().Format("2006-01-02")

	meta := models.MeetingMetadata{
		MeetingDate:     today,
		MeetingTitle:    "Untitled Meeting",
		Summary:         "No summary available.",
		SourceFile:      path,
		DateTranscribed: today,
	}

	var segments []models.TranscriptSegment
	var text string

	report(0)
	if ingestText {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		text = string(data)
		meta.MeetingID = service.NewDocumentID()
		meta.Source = "text_file"
		meta.TranscriptionModel = "text_import"
	} else {
		result, err := transcribe.NewClient(cfg.TranscribeURL).Transcribe(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("transcribe: %w", err)
		}
		segments = result.Segments
		text = result.Text()
		meta.MeetingID = service.NewMeetingID()
		meta.Source = "video_upload"
		meta.Language = result.Language
		meta.TranscriptionModel = result.Model
		meta.Duration = models.FormatTimestamp(result.Duration)
	}

	report(1)
	extracted := extractor.Extract(ctx, text)
	meta.MeetingTitle = extracted.Title
	meta.Summary = extracted.Summary
	if extracted.MeetingDate != "" {
		meta.MeetingDate = extracted.MeetingDate
	}
	meta.SpeakerMapping = extracted.SpeakerMapping
	if ingestTitle != "" {
		meta.MeetingTitle = ingestTitle
	}
	if ingestDate != "" {
		meta.MeetingDate = ingestDate
	}

	report(2)
	ingestor := newIngestor()
	if len(segments) > 0 {
		mapped := models.ApplySpeakerMappingToSegments(segments, meta.SpeakerMapping)
		return ingestor.IngestSegments(ctx, mapped, meta)
	}
	return ingestor.IngestText(ctx, models.ApplySpeakerMapping(text, meta.SpeakerMapping), meta)
}
