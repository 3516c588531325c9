package tools

import (
	"context"
	"io"
	"log/slog"

	"github.com/minuted/minuted/internal/chunker"
	"github.com/minuted/minuted/internal/docstore"
	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
	"github.com/minuted/minuted/internal/transcribe"
)

// fakeStore implements VectorStore and service.DocumentStore.
type fakeStore struct {
	searchDocs    []models.ScoredDocument
	searchErr     error
	lastK         int
	lastMeetingID string

	meetingDoc *models.IndexedDocument
	sample     []models.IndexedDocument
	upserts    [][]models.IndexedDocument
	deleted    []string
}

func (f *fakeStore) SearchDocuments(_ context.Context, _ []float32, k int, meetingID string) ([]models.ScoredDocument, error) {
	f.lastK = k
	f.lastMeetingID = meetingID
	return f.searchDocs, f.searchErr
}

func (f *fakeStore) GetMeetingDocument(_ context.Context, _ string) (*models.IndexedDocument, error) {
	return f.meetingDoc, nil
}

func (f *fakeStore) SampleDocuments(_ context.Context, _ int) ([]models.IndexedDocument, error) {
	return f.sample, nil
}

func (f *fakeStore) DeleteMeeting(_ context.Context, meetingID string) error {
	f.deleted = append(f.deleted, meetingID)
	return nil
}

func (f *fakeStore) UpsertDocuments(_ context.Context, docs []models.IndexedDocument) error {
	f.upserts = append(f.upserts, docs)
	return nil
}

func (f *fakeStore) allUpserted() []models.IndexedDocument {
	var docs []models.IndexedDocument
	for _, batch := range f.upserts {
		docs = append(docs, batch...)
	}
	return docs
}

// fakeEmbedder implements Embedder and service.Embedder.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

type fakeExtractor struct {
	meta llm.ExtractedMetadata
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) llm.ExtractedMetadata {
	return f.meta
}

type fakeTranscriber struct {
	result *transcribe.Result
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (*transcribe.Result, error) {
	return f.result, f.err
}

type fakeDocStore struct {
	pages   []docstore.Page
	content map[string]string
}

func (f *fakeDocStore) Search(_ context.Context, _ string) ([]docstore.Page, error) {
	return f.pages, nil
}

func (f *fakeDocStore) FetchContent(_ context.Context, pageID string) (string, error) {
	return f.content[pageID], nil
}

func newTestDeps(store *fakeStore) *Dependencies {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	embedder := &fakeEmbedder{}
	opts := chunker.Options{MinSize: 20, MaxSize: 80, Overlap: 0}
	return &Dependencies{
		Store:    store,
		Embedder: embedder,
		Ingestor: service.NewIngestor(store, embedder, opts, logger),
		Sessions: models.NewSessionStore(),
		Logger:   logger,
	}
}
