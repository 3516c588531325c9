package chunker

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/minuted/minuted/internal/models"
)

func testMeta() models.MeetingMetadata {
	return models.MeetingMetadata{
		MeetingID:          "meeting_ab12cd34",
		MeetingDate:        "2025-03-14",
		MeetingTitle:       "Planning Sync",
		Summary:            "Weekly planning sync.",
		Source:             "video_upload",
		SourceFile:         "sync.mp4",
		Language:           "en",
		TranscriptionModel: "whisperx-large-v2",
		Duration:           "30:00",
		DateTranscribed:    "2025-03-14",
	}
}

// makeSegments produces n segments of fixed length for one speaker each,
// cycling through the given speakers.
func makeSegments(n, segLen int, speakers ...string) []models.TranscriptSegment {
	segments := make([]models.TranscriptSegment, 0, n)
	for i := 0; i < n; i++ {
		word := fmt.Sprintf("s%03d", i)
		text := strings.TrimSpace(strings.Repeat(word+" ", segLen/(len(word)+1)))
		segments = append(segments, models.TranscriptSegment{
			Text:    text,
			Start:   float64(i * 10),
			End:     float64(i*10 + 9),
			Speaker: speakers[i%len(speakers)],
		})
	}
	return segments
}

func TestChunk_SizeBounds(t *testing.T) {
	opts := DefaultOptions()
	segments := makeSegments(40, 400, "SPEAKER_00", "SPEAKER_01")

	docs := Chunk(segments, testMeta(), opts)
	if len(docs) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(docs))
	}

	for i, doc := range docs {
		if doc.CharCount != len(doc.Text) {
			t.Errorf("chunk[%d] char_count = %d, want %d", i, doc.CharCount, len(doc.Text))
		}
		// All but the last chunk respect the bounds, allowing the
		// prepended overlap on top of the max.
		if i < len(docs)-1 {
			if doc.CharCount < opts.MinSize {
				t.Errorf("chunk[%d] below min size: %d < %d", i, doc.CharCount, opts.MinSize)
			}
			if doc.CharCount > opts.MaxSize+opts.Overlap+1 {
				t.Errorf("chunk[%d] above max size: %d > %d", i, doc.CharCount, opts.MaxSize+opts.Overlap+1)
			}
		}
	}
}

func TestChunk_NoTextLoss(t *testing.T) {
	opts := DefaultOptions()
	segments := makeSegments(30, 350, "SPEAKER_00", "SPEAKER_01", "SPEAKER_02")

	docs := Chunk(segments, testMeta(), opts)

	// Strip the injected overlap from every chunk after the first, then
	// concatenating in chunk order must reproduce the original text.
	var reassembled []string
	var previous string
	for i, doc := range docs {
		text := doc.Text
		if i > 0 {
			tail := previous
			if len(tail) > opts.Overlap {
				tail = tail[len(tail)-opts.Overlap:]
			}
			tail = strings.TrimSpace(tail)
			text = strings.TrimPrefix(text, tail+" ")
		}
		reassembled = append(reassembled, text)
		previous = text
	}

	var original []string
	for _, seg := range segments {
		original = append(original, seg.Text)
	}

	got := strings.Join(reassembled, " ")
	want := strings.Join(original, " ")
	if got != want {
		t.Errorf("reassembled text differs from original\ngot len %d want len %d", len(got), len(want))
	}
}

func TestChunk_Deterministic(t *testing.T) {
	segments := makeSegments(25, 300, "SPEAKER_00", "SPEAKER_01")
	meta := testMeta()
	opts := DefaultOptions()

	first := Chunk(segments, meta, opts)
	second := Chunk(segments, meta, opts)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different chunk output")
	}
}

func TestChunk_SpeakerBoundaryCut(t *testing.T) {
	// Two speakers, each with one segment larger than MinSize: the speaker
	// change must cut once the buffer is full enough.
	opts := Options{MinSize: 100, MaxSize: 1000, Overlap: 0}
	segments := []models.TranscriptSegment{
		{Text: strings.Repeat("alpha ", 30), Start: 0, End: 10, Speaker: "SPEAKER_00"},
		{Text: strings.Repeat("bravo ", 30), Start: 10, End: 20, Speaker: "SPEAKER_01"},
	}

	docs := Chunk(segments, testMeta(), opts)
	if len(docs) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(docs))
	}
	if docs[0].Speaker != "SPEAKER_00" || docs[1].Speaker != "SPEAKER_01" {
		t.Errorf("chunk speakers = %q, %q", docs[0].Speaker, docs[1].Speaker)
	}
	for i, doc := range docs {
		if doc.ChunkType != models.ChunkConversationTurn {
			t.Errorf("chunk[%d] type = %q, want conversation_turn", i, doc.ChunkType)
		}
		if doc.SpeakerCount != 1 {
			t.Errorf("chunk[%d] speaker_count = %d, want 1", i, doc.SpeakerCount)
		}
	}
}

func TestChunk_MixedSpeakersBelowMin(t *testing.T) {
	// Below MinSize the buffer absorbs segments across speaker changes and
	// the chunk is marked mixed.
	opts := Options{MinSize: 500, MaxSize: 1000, Overlap: 0}
	segments := []models.TranscriptSegment{
		{Text: "Short remark from the first speaker.", Start: 0, End: 4, Speaker: "SPEAKER_00"},
		{Text: "Quick interjection.", Start: 4, End: 6, Speaker: "SPEAKER_01"},
		{Text: "And a reply.", Start: 6, End: 9, Speaker: "SPEAKER_00"},
	}

	docs := Chunk(segments, testMeta(), opts)
	if len(docs) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(docs))
	}
	doc := docs[0]
	if doc.ChunkType != models.ChunkMixedSpeakers {
		t.Errorf("chunk type = %q, want mixed_speakers", doc.ChunkType)
	}
	if doc.SpeakerCount != 2 {
		t.Errorf("speaker_count = %d, want 2", doc.SpeakerCount)
	}
	if doc.SegmentCount != 3 {
		t.Errorf("segment_count = %d, want 3", doc.SegmentCount)
	}
	// Primary speaker is the one that seeded the buffer.
	if doc.Speaker != "SPEAKER_00" {
		t.Errorf("speaker = %q, want SPEAKER_00", doc.Speaker)
	}
}

func TestChunk_OversizedSegmentKeptWhole(t *testing.T) {
	opts := Options{MinSize: 100, MaxSize: 300, Overlap: 0}
	big := strings.TrimSpace(strings.Repeat("word ", 120)) // ~600 chars
	segments := []models.TranscriptSegment{
		{Text: big, Start: 0, End: 60, Speaker: "SPEAKER_00"},
	}

	docs := Chunk(segments, testMeta(), opts)
	if len(docs) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(docs))
	}
	if docs[0].Text != big {
		t.Error("oversized segment was split or altered")
	}
	if docs[0].CharCount <= opts.MaxSize {
		t.Errorf("expected oversized chunk, char_count = %d", docs[0].CharCount)
	}
}

func TestChunk_SkipsEmptySegments(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: "", Start: 0, End: 1, Speaker: "SPEAKER_00"},
		{Text: "   ", Start: 1, End: 2, Speaker: "SPEAKER_00"},
		{Text: "Actual content.", Start: 2, End: 5, Speaker: "SPEAKER_00"},
	}

	docs := Chunk(segments, testMeta(), DefaultOptions())
	if len(docs) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(docs))
	}
	if docs[0].Text != "Actual content." {
		t.Errorf("text = %q", docs[0].Text)
	}
	if docs[0].SegmentCount != 1 {
		t.Errorf("segment_count = %d, want 1", docs[0].SegmentCount)
	}
	// The buffer was seeded by the first (empty) segment's speaker only
	// after a non-empty segment arrived.
	if docs[0].StartTime != 2 {
		t.Errorf("start_time = %v, want 2", docs[0].StartTime)
	}
}

func TestChunk_NoSegments(t *testing.T) {
	docs := Chunk(nil, testMeta(), DefaultOptions())
	if len(docs) != 0 {
		t.Errorf("expected no chunks, got %d", len(docs))
	}
}

func TestChunk_IndexConsistency(t *testing.T) {
	segments := makeSegments(30, 400, "SPEAKER_00", "SPEAKER_01")
	docs := Chunk(segments, testMeta(), DefaultOptions())

	for i, doc := range docs {
		if doc.ChunkIndex != i {
			t.Errorf("chunk[%d].chunk_index = %d", i, doc.ChunkIndex)
		}
		if doc.TotalChunks != len(docs) {
			t.Errorf("chunk[%d].total_chunks = %d, want %d", i, doc.TotalChunks, len(docs))
		}
		if doc.MeetingID != "meeting_ab12cd34" {
			t.Errorf("chunk[%d].meeting_id = %q", i, doc.MeetingID)
		}
	}
}

func TestChunk_OverlapFromPreviousChunk(t *testing.T) {
	opts := Options{MinSize: 50, MaxSize: 100, Overlap: 20}
	segments := []models.TranscriptSegment{
		{Text: strings.TrimSpace(strings.Repeat("first ", 15)), Start: 0, End: 10, Speaker: "SPEAKER_00"},
		{Text: strings.TrimSpace(strings.Repeat("second ", 15)), Start: 10, End: 20, Speaker: "SPEAKER_01"},
	}

	docs := Chunk(segments, testMeta(), opts)
	if len(docs) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(docs))
	}
	if !strings.Contains(docs[1].Text, "first") {
		t.Errorf("second chunk missing overlap from first: %q", docs[1].Text)
	}
	if !strings.HasSuffix(docs[1].Text, "second") {
		t.Errorf("second chunk lost its own text: %q", docs[1].Text)
	}
}

func TestChunkText_Fallback(t *testing.T) {
	opts := Options{MinSize: 100, MaxSize: 200, Overlap: 20}
	text := strings.TrimSpace(strings.Repeat("fallback words here ", 60))

	docs := ChunkText(text, testMeta(), opts)
	if len(docs) < 2 {
		t.Fatalf("expected multiple fallback chunks, got %d", len(docs))
	}
	for i, doc := range docs {
		if doc.ChunkType != models.ChunkFullTranscript {
			t.Errorf("chunk[%d] type = %q, want full_transcript_chunk", i, doc.ChunkType)
		}
		if doc.ChunkIndex != i || doc.TotalChunks != len(docs) {
			t.Errorf("chunk[%d] index/total = %d/%d", i, doc.ChunkIndex, doc.TotalChunks)
		}
		if doc.CharCount != len(doc.Text) {
			t.Errorf("chunk[%d] char_count mismatch", i)
		}
	}
}
