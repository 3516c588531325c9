// Package store provides SurrealDB query functions for document operations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/minuted/minuted/internal/metrics"
	"github.com/minuted/minuted/internal/models"
)

// MeetingSummary is one meeting's aggregate as stored across its chunks.
type MeetingSummary struct {
	MeetingID    string `json:"meeting_id"`
	MeetingTitle string `json:"meeting_title"`
	MeetingDate  string `json:"meeting_date"`
	Chunks       int    `json:"chunks"`
}

// documentKey builds the deterministic record key for a chunk, so
// re-ingesting a meeting overwrites its previous chunks in place.
func documentKey(doc models.IndexedDocument) string {
	return fmt.Sprintf("%s_%d", doc.MeetingID, doc.ChunkIndex)
}

// UpsertDocuments writes documents to the store, replacing any existing
// record with the same meeting id and chunk index.
func (c *Client) UpsertDocuments(ctx context.Context, docs []models.IndexedDocument) error {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	for i := range docs {
		doc := docs[i]
		doc.ID = nil
		_, err := surrealdb.Query[any](ctx, c.db, `
			UPSERT type::record("document", $id) CONTENT $doc
		`, map[string]any{
			"id":  documentKey(doc),
			"doc": doc,
		})
		if err != nil {
			return fmt.Errorf("upsert document %s: %w", documentKey(doc), err)
		}
	}
	return nil
}

// SearchDocuments performs a KNN search over document embeddings, optionally
// restricted to one meeting, returning documents with cosine similarity
// scores in descending order.
func (c *Client) SearchDocuments(ctx context.Context, embedding []float32, k int, meetingID string) ([]models.ScoredDocument, error) {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBSearch, time.Since(start)) }()

	if k <= 0 {
		k = 5
	}

	meetingClause := ""
	vars := map[string]any{"emb": embedding}
	if meetingID != "" {
		meetingClause = "AND meeting_id = $meeting_id"
		vars["meeting_id"] = meetingID
	}

	// HNSW with ef=40 for better recall
	sql := fmt.Sprintf(`
		SELECT *, vector::similarity::cosine(embedding, $emb) AS score
		FROM document
		WHERE embedding <|%d,40|> $emb %s
		ORDER BY score DESC
	`, k, meetingClause)

	results, err := surrealdb.Query[[]models.ScoredDocument](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.ScoredDocument{}, nil
}

// GetMeetingDocument retrieves one representative document for a meeting.
// Returns nil if the meeting has no stored documents.
func (c *Client) GetMeetingDocument(ctx context.Context, meetingID string) (*models.IndexedDocument, error) {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	results, err := surrealdb.Query[[]models.IndexedDocument](ctx, c.db, `
		SELECT * FROM document WHERE meeting_id = $meeting_id ORDER BY chunk_index ASC LIMIT 1
	`, map[string]any{"meeting_id": meetingID})
	if err != nil {
		return nil, fmt.Errorf("get meeting document: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// SampleDocuments returns recently created documents, newest first. Callers
// de-duplicate by meeting id to enumerate recent meetings.
func (c *Client) SampleDocuments(ctx context.Context, limit int) ([]models.IndexedDocument, error) {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	if limit <= 0 {
		limit = 100
	}

	results, err := surrealdb.Query[[]models.IndexedDocument](ctx, c.db, `
		SELECT * FROM document ORDER BY created DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("sample documents: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.IndexedDocument{}, nil
}

// ListMeetings returns one aggregate row per stored meeting.
func (c *Client) ListMeetings(ctx context.Context) ([]MeetingSummary, error) {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	results, err := surrealdb.Query[[]MeetingSummary](ctx, c.db, `
		SELECT meeting_id, meeting_title, meeting_date, count() AS chunks
		FROM document
		GROUP BY meeting_id, meeting_title, meeting_date
		ORDER BY meeting_date DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []MeetingSummary{}, nil
}

// DeleteMeeting removes all documents belonging to one meeting.
func (c *Client) DeleteMeeting(ctx context.Context, meetingID string) error {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE document WHERE meeting_id = $meeting_id
	`, map[string]any{"meeting_id": meetingID})
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}

// DeleteAll removes every stored document.
func (c *Client) DeleteAll(ctx context.Context) error {
	start := time.Now()
	defer func() { c.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start)) }()

	_, err := surrealdb.Query[any](ctx, c.db, "DELETE document", nil)
	if err != nil {
		return fmt.Errorf("delete all documents: %w", err)
	}
	return nil
}
