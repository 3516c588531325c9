// Package transcribe provides the transcription collaborator: file path in,
// ordered speaker-attributed segments out.
package transcribe

import (
	"context"

	"github.com/minuted/minuted/internal/models"
)

// Result is a completed transcription of one recording.
type Result struct {
	Segments       []models.TranscriptSegment `json:"segments"`
	Language       string                     `json:"language"`
	Duration       float64                    `json:"duration"`
	Model          string                     `json:"model"`
	Speakers       []string                   `json:"speakers"`
	ProcessingTime float64                    `json:"processing_time"`
}

// Text joins all segment text with single spaces, in segment order.
func (r *Result) Text() string {
	total := 0
	for _, seg := range r.Segments {
		total += len(seg.Text) + 1
	}
	buf := make([]byte, 0, total)
	for i, seg := range r.Segments {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}

// Transcriber converts a local media file into transcript segments. A failed
// transcription returns an error and no partial segments.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (*Result, error)
}
