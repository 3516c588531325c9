// Package tools provides the model-invocable tool set and its registry.
package tools

import (
	"context"
	"log/slog"

	"github.com/minuted/minuted/internal/docstore"
	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/metrics"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
	"github.com/minuted/minuted/internal/transcribe"
)

// VectorStore is the slice of the document store the tools read and write.
type VectorStore interface {
	SearchDocuments(ctx context.Context, embedding []float32, k int, meetingID string) ([]models.ScoredDocument, error)
	GetMeetingDocument(ctx context.Context, meetingID string) (*models.IndexedDocument, error)
	SampleDocuments(ctx context.Context, limit int) ([]models.IndexedDocument, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
}

// Embedder produces query embeddings for search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MetadataExtractor infers meeting metadata from transcript text.
type MetadataExtractor interface {
	Extract(ctx context.Context, transcript string) llm.ExtractedMetadata
}

// Dependencies holds shared services for tool implementations.
type Dependencies struct {
	Store       VectorStore
	Embedder    Embedder
	Extractor   MetadataExtractor
	Transcriber transcribe.Transcriber
	DocStore    docstore.Store
	Ingestor    *service.Ingestor
	Sessions    *models.SessionStore
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}
