// Package live ingests streaming transcript chunks from a websocket feed
// and hands them to the batched ingestion pipeline.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/service"
)

// ChunkMessage is one transcript line as the feed delivers it.
type ChunkMessage struct {
	MeetingID string `json:"meeting_id"`
	Speaker   string `json:"speaker_name"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // ms since epoch
	Seq       int    `json:"seq"`
}

// Listener consumes a live transcript feed until the context is cancelled
// or the connection drops. Not safe for concurrent Run calls.
type Listener struct {
	url     string
	batcher *service.Batcher
	logger  *slog.Logger
	nextSeq map[string]int
}

// NewListener creates a listener for the given websocket URL.
func NewListener(url string, batcher *service.Batcher, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		url:     url,
		batcher: batcher,
		logger:  logger,
		nextSeq: make(map[string]int),
	}
}

// Run connects and processes messages until ctx is cancelled or the feed
// closes. The batcher is flushed once more before returning, so cancelling
// never silently drops a partial batch.
func (l *Listener) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return fmt.Errorf("dial live feed %s: %w", l.url, err)
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	defer l.batcher.Close(context.WithoutCancel(ctx))

	l.logger.Info("listening for live transcript chunks", "url", l.url)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read live feed: %w", err)
		}

		var msg ChunkMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			l.logger.Warn("skipping malformed live message", "error", err)
			continue
		}

		doc, ok := l.normalize(msg)
		if !ok {
			continue
		}
		l.batcher.Add(ctx, doc)
	}
}

// normalize converts one feed message into an indexed document. Messages
// without text are skipped. Each meeting gets monotonically increasing
// chunk indexes so live chunks never overwrite each other.
func (l *Listener) normalize(msg ChunkMessage) (models.IndexedDocument, bool) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return models.IndexedDocument{}, false
	}

	meetingID := msg.MeetingID
	if meetingID == "" {
		meetingID = "unknown_meeting"
	}
	speaker := msg.Speaker
	if speaker == "" {
		speaker = "Unknown Speaker"
	}

	seq := msg.Seq
	if seq <= 0 {
		seq = l.nextSeq[meetingID]
	}
	if next := seq + 1; next > l.nextSeq[meetingID] {
		l.nextSeq[meetingID] = next
	}

	timeStr := time.UnixMilli(msg.Timestamp).Format("15:04:05")
	formatted := fmt.Sprintf("[%s] %s: %s", timeStr, speaker, text)

	return models.IndexedDocument{
		Text:         formatted,
		MeetingID:    meetingID,
		Speaker:      speaker,
		Speakers:     []string{speaker},
		SpeakerCount: 1,
		ChunkType:    models.ChunkLive,
		ChunkIndex:   seq,
		WordCount:    len(strings.Fields(formatted)),
		CharCount:    len(formatted),
		SegmentCount: 1,
		Source:       "live_stream",
	}, true
}
