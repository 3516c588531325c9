// Package service provides the ingestion pipeline: transcript in, embedded
// documents in the vector store out.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/minuted/minuted/internal/chunker"
	"github.com/minuted/minuted/internal/models"
)

// DocumentStore is the slice of the vector store the pipeline writes to.
type DocumentStore interface {
	UpsertDocuments(ctx context.Context, docs []models.IndexedDocument) error
}

// Embedder produces embedding vectors for chunk text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewMeetingID generates a fresh meeting identifier, e.g. "meeting_ab12cd34".
func NewMeetingID() string {
	return "meeting_" + uuid.New().String()[:8]
}

// NewDocumentID generates an identifier for text imported outside the video
// pipeline, e.g. "doc_ab12cd34".
func NewDocumentID() string {
	return "doc_" + uuid.New().String()[:8]
}

// IngestResult summarizes one completed ingestion.
type IngestResult struct {
	MeetingID    string
	Chunks       int
	AvgChunkSize int
}

// Ingestor runs the chunk, embed, upsert pipeline.
type Ingestor struct {
	store    DocumentStore
	embedder Embedder
	opts     chunker.Options
	logger   *slog.Logger
}

// NewIngestor creates an ingestion pipeline with the given chunking options.
func NewIngestor(store DocumentStore, embedder Embedder, opts chunker.Options, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{store: store, embedder: embedder, opts: opts, logger: logger}
}

// IngestSegments chunks speaker-attributed segments and indexes them.
func (i *Ingestor) IngestSegments(ctx context.Context, segments []models.TranscriptSegment, meta models.MeetingMetadata) (*IngestResult, error) {
	docs := chunker.Chunk(segments, meta, i.opts)
	return i.index(ctx, meta.MeetingID, docs)
}

// IngestText chunks raw text with the fallback splitter and indexes it. Use
// for content without speaker data (manual notes, imported documents).
func (i *Ingestor) IngestText(ctx context.Context, text string, meta models.MeetingMetadata) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text to ingest")
	}
	docs := chunker.ChunkText(text, meta, i.opts)
	return i.index(ctx, meta.MeetingID, docs)
}

func (i *Ingestor) index(ctx context.Context, meetingID string, docs []models.IndexedDocument) (*IngestResult, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("chunking produced no documents")
	}

	texts := make([]string, len(docs))
	for j, doc := range docs {
		texts[j] = doc.Text
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	for j := range docs {
		docs[j].Embedding = vectors[j]
	}

	if err := i.store.UpsertDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("upsert chunks: %w", err)
	}

	totalChars := 0
	for _, doc := range docs {
		totalChars += doc.CharCount
	}

	i.logger.Info("ingested meeting",
		"meeting_id", meetingID,
		"chunks", len(docs),
		"avg_chunk_size", totalChars/len(docs))

	return &IngestResult{
		MeetingID:    meetingID,
		Chunks:       len(docs),
		AvgChunkSize: totalChars / len(docs),
	}, nil
}
