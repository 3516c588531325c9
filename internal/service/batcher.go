package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/minuted/minuted/internal/models"
)

// Batcher accumulates documents from a live source and flushes them to the
// store every flushEvery items, and once more on Close. A failed flush drops
// that batch; live ingestion is best-effort, not exactly-once.
type Batcher struct {
	mu         sync.Mutex
	store      DocumentStore
	embedder   Embedder
	flushEvery int
	pending    []models.IndexedDocument
	logger     *slog.Logger

	// Counters for shutdown reporting.
	added   int
	flushed int
	dropped int
}

// NewBatcher creates a batcher that flushes every flushEvery documents.
func NewBatcher(store DocumentStore, embedder Embedder, flushEvery int, logger *slog.Logger) *Batcher {
	if flushEvery <= 0 {
		flushEvery = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batcher{
		store:      store,
		embedder:   embedder,
		flushEvery: flushEvery,
		logger:     logger,
	}
}

// Add queues a document and flushes when the batch is full.
func (b *Batcher) Add(ctx context.Context, doc models.IndexedDocument) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, doc)
	b.added++

	if len(b.pending) >= b.flushEvery {
		b.flushLocked(ctx)
	}
}

// Close flushes whatever remains and reports totals.
func (b *Batcher) Close(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.flushLocked(ctx)
	b.logger.Info("batcher closed", "added", b.added, "flushed", b.flushed, "dropped", b.dropped)
}

// flushLocked embeds and writes the pending batch. The batch is cleared
// whether or not the flush succeeds. Caller must hold b.mu.
func (b *Batcher) flushLocked(ctx context.Context) {
	if len(b.pending) == 0 {
		return
	}
	batch := b.pending
	b.pending = nil

	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Text
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		b.dropped += len(batch)
		b.logger.Warn("dropping batch, embedding failed", "size", len(batch), "error", err)
		return
	}
	for i := range batch {
		batch[i].Embedding = vectors[i]
	}

	if err := b.store.UpsertDocuments(ctx, batch); err != nil {
		b.dropped += len(batch)
		b.logger.Warn("dropping batch, upsert failed", "size", len(batch), "error", err)
		return
	}

	b.flushed += len(batch)
	b.logger.Debug("flushed batch", "size", len(batch))
}
