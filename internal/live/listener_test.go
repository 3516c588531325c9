package live

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
)

type fakeStore struct {
	upserts [][]models.IndexedDocument
}

func (f *fakeStore) UpsertDocuments(_ context.Context, docs []models.IndexedDocument) error {
	f.upserts = append(f.upserts, docs)
	return nil
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

// feedServer upgrades each connection, sends the given payloads, then
// closes the connection.
func feedServer(t *testing.T, payloads []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for _, p := range payloads {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(p)))
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		// wait for the peer's close response so the client sees a clean shutdown
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestListener(srv *httptest.Server, store *fakeStore, flushEvery int) *Listener {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	batcher := service.NewBatcher(store, &fakeEmbedder{}, flushEvery, logger)
	return NewListener(wsURL(srv), batcher, logger)
}

func TestListener_IngestsChunks(t *testing.T) {
	srv := feedServer(t, []string{
		`{"meeting_id":"meeting_live0001","speaker_name":"Alice","text":"good morning everyone","timestamp":1764579600000,"seq":1}`,
		`{"meeting_id":"meeting_live0001","speaker_name":"Bob","text":"morning, let's start","timestamp":1764579605000,"seq":2}`,
		`{"meeting_id":"meeting_live0001","speaker_name":"Alice","text":"   ","seq":3}`,
		`not json at all`,
	})
	store := &fakeStore{}
	l := newTestListener(srv, store, 2)

	err := l.Run(context.Background())
	require.NoError(t, err)

	var docs []models.IndexedDocument
	for _, batch := range store.upserts {
		docs = append(docs, batch...)
	}
	require.Len(t, docs, 2)

	assert.Equal(t, "meeting_live0001", docs[0].MeetingID)
	assert.Equal(t, "Alice", docs[0].Speaker)
	assert.Contains(t, docs[0].Text, "Alice: good morning everyone")
	assert.Equal(t, models.ChunkLive, docs[0].ChunkType)
	assert.Equal(t, 1, docs[0].ChunkIndex)
	assert.Equal(t, "live_stream", docs[0].Source)
	assert.NotEmpty(t, docs[0].Embedding)

	assert.Equal(t, 2, docs[1].ChunkIndex)
}

func TestListener_FlushesRemainderOnClose(t *testing.T) {
	srv := feedServer(t, []string{
		`{"meeting_id":"meeting_live0001","speaker_name":"Alice","text":"only one line","seq":1}`,
	})
	store := &fakeStore{}
	l := newTestListener(srv, store, 100)

	err := l.Run(context.Background())
	require.NoError(t, err)

	// Below the flush threshold, written by the final flush.
	require.Len(t, store.upserts, 1)
	require.Len(t, store.upserts[0], 1)
}

func TestListener_AssignsSequenceWhenMissing(t *testing.T) {
	srv := feedServer(t, []string{
		`{"meeting_id":"meeting_live0001","speaker_name":"Alice","text":"first"}`,
		`{"meeting_id":"meeting_live0001","speaker_name":"Alice","text":"second"}`,
		`{"meeting_id":"meeting_live0002","speaker_name":"Bob","text":"other meeting"}`,
	})
	store := &fakeStore{}
	l := newTestListener(srv, store, 1)

	err := l.Run(context.Background())
	require.NoError(t, err)

	var docs []models.IndexedDocument
	for _, batch := range store.upserts {
		docs = append(docs, batch...)
	}
	require.Len(t, docs, 3)
	assert.Equal(t, 0, docs[0].ChunkIndex)
	assert.Equal(t, 1, docs[1].ChunkIndex)
	assert.Equal(t, 0, docs[2].ChunkIndex)
}

func TestListener_DialFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	batcher := service.NewBatcher(&fakeStore{}, &fakeEmbedder{}, 5, logger)
	l := NewListener("ws://127.0.0.1:1/feed", batcher, logger)

	err := l.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial live feed")
}
