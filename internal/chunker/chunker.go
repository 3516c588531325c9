// Package chunker groups transcript segments into size-bounded, overlap-linked
// retrieval units annotated with meeting metadata.
package chunker

import (
	"sort"
	"strings"

	"github.com/minuted/minuted/internal/models"
)

// Options defines chunking parameters.
type Options struct {
	// MinSize: a chunk keeps absorbing segments, even across speaker
	// changes, until it has at least this many characters.
	MinSize int
	// MaxSize: segments that would push a full-enough chunk past this
	// bound start a new chunk instead.
	MaxSize int
	// Overlap: trailing characters of the previous chunk prepended to the
	// next one. Post-overlap chunks may exceed MaxSize by up to this much;
	// they are intentionally not re-clamped.
	Overlap int
}

// DefaultOptions returns the chunking defaults used for meeting transcripts.
func DefaultOptions() Options {
	return Options{
		MinSize: 1500,
		MaxSize: 3000,
		Overlap: 200,
	}
}

// buffer accumulates segments for the chunk under construction.
type buffer struct {
	text         strings.Builder
	speaker      string
	speakers     map[string]struct{}
	start        float64
	end          float64
	segmentCount int
	seeded       bool
}

func (b *buffer) reset() {
	b.text.Reset()
	b.speaker = ""
	b.speakers = nil
	b.start = 0
	b.end = 0
	b.segmentCount = 0
	b.seeded = false
}

func (b *buffer) seed(speaker string, start float64) {
	b.speaker = speaker
	b.start = start
	b.speakers = make(map[string]struct{})
	b.seeded = true
}

func (b *buffer) append(seg models.TranscriptSegment, text string) {
	if b.text.Len() > 0 {
		b.text.WriteString(" ")
	}
	b.text.WriteString(text)
	b.speakers[seg.Speaker] = struct{}{}
	b.end = seg.End
	b.segmentCount++
}

// rawChunk is a finalized chunk before overlap and metadata annotation.
type rawChunk struct {
	text         string
	speaker      string
	speakers     []string
	start        float64
	end          float64
	segmentCount int
}

func (b *buffer) finalize() (rawChunk, bool) {
	text := strings.TrimSpace(b.text.String())
	if text == "" {
		return rawChunk{}, false
	}
	speakers := make([]string, 0, len(b.speakers))
	for s := range b.speakers {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)
	return rawChunk{
		text:         text,
		speaker:      b.speaker,
		speakers:     speakers,
		start:        b.start,
		end:          b.end,
		segmentCount: b.segmentCount,
	}, true
}

// Chunk groups transcript segments into annotated retrieval documents.
//
// Segments accumulate greedily in order. The current chunk is cut before a
// segment is appended when appending would exceed MaxSize, or when the
// segment's speaker differs from the chunk's, but in both cases only once the
// chunk already holds MinSize characters: below the minimum it keeps
// absorbing segments across speaker changes and becomes a mixed-speaker
// chunk. Empty segments are skipped. The trailing buffer is always flushed,
// even when smaller than MinSize. A single segment longer than MaxSize
// becomes its own oversized chunk; segments are never split.
//
// Deterministic, synchronous, no I/O.
func Chunk(segments []models.TranscriptSegment, meta models.MeetingMetadata, opts Options) []models.IndexedDocument {
	var chunks []rawChunk
	var buf buffer

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if !buf.seeded {
			buf.seed(seg.Speaker, seg.Start)
		}

		currentLen := buf.text.Len()
		newLen := currentLen + len(text) + 1 // +1 for the joining space

		cut := false
		if newLen > opts.MaxSize && currentLen >= opts.MinSize {
			cut = true
		} else if seg.Speaker != buf.speaker && currentLen >= opts.MinSize {
			cut = true
		}

		if cut {
			if c, ok := buf.finalize(); ok {
				chunks = append(chunks, c)
			}
			buf.reset()
			buf.seed(seg.Speaker, seg.Start)
		}

		buf.append(seg, text)
	}

	if c, ok := buf.finalize(); ok {
		chunks = append(chunks, c)
	}

	applyOverlap(chunks, opts.Overlap)

	return annotate(chunks, meta)
}

// applyOverlap prepends the trailing overlap characters of each chunk's
// predecessor, using the previous chunk's pre-overlap text. The first chunk
// is left untouched.
func applyOverlap(chunks []rawChunk, overlap int) {
	if overlap <= 0 || len(chunks) <= 1 {
		return
	}
	// Capture originals first so each chunk overlaps with its neighbor's
	// finalized text, not an already-extended one.
	originals := make([]string, len(chunks))
	for i, c := range chunks {
		originals[i] = c.text
	}
	for i := 1; i < len(chunks); i++ {
		prev := originals[i-1]
		tail := prev
		if len(prev) > overlap {
			tail = prev[len(prev)-overlap:]
		}
		tail = strings.TrimSpace(tail)
		if tail != "" {
			chunks[i].text = tail + " " + chunks[i].text
		}
	}
}

// annotate attaches meeting metadata and computed per-chunk fields.
func annotate(chunks []rawChunk, meta models.MeetingMetadata) []models.IndexedDocument {
	docs := make([]models.IndexedDocument, 0, len(chunks))
	total := len(chunks)
	mappingJSON := models.EncodeSpeakerMapping(meta.SpeakerMapping)

	for i, c := range chunks {
		chunkType := models.ChunkConversationTurn
		if len(c.speakers) > 1 {
			chunkType = models.ChunkMixedSpeakers
		}

		docs = append(docs, models.IndexedDocument{
			Text: c.text,

			MeetingID:    meta.MeetingID,
			MeetingDate:  meta.MeetingDate,
			MeetingTitle: meta.MeetingTitle,
			Summary:      meta.Summary,

			StartTime:          c.start,
			EndTime:            c.end,
			Duration:           c.end - c.start,
			StartTimeFormatted: models.FormatTimestamp(c.start),
			EndTimeFormatted:   models.FormatTimestamp(c.end),
			MeetingDuration:    meta.Duration,

			Speaker:        c.speaker,
			Speakers:       c.speakers,
			SpeakerCount:   len(c.speakers),
			SpeakerMapping: mappingJSON,

			ChunkType:    chunkType,
			ChunkIndex:   i,
			TotalChunks:  total,
			WordCount:    len(strings.Fields(c.text)),
			CharCount:    len(c.text),
			SegmentCount: c.segmentCount,

			Source:             meta.Source,
			SourceFile:         meta.SourceFile,
			TranscriptionModel: meta.TranscriptionModel,
			Language:           meta.Language,
			DateTranscribed:    meta.DateTranscribed,
		})
	}
	return docs
}

// ChunkText is the fallback for plain-text ingestion with no speaker data.
// The raw text is cut with a fixed size/overlap splitter and annotated with
// the same metadata shape, marked as full-transcript chunks.
func ChunkText(text string, meta models.MeetingMetadata, opts Options) []models.IndexedDocument {
	pieces := SplitText(text, opts.MaxSize, opts.Overlap)
	total := len(pieces)
	mappingJSON := models.EncodeSpeakerMapping(meta.SpeakerMapping)

	docs := make([]models.IndexedDocument, 0, total)
	for i, piece := range pieces {
		docs = append(docs, models.IndexedDocument{
			Text: piece,

			MeetingID:    meta.MeetingID,
			MeetingDate:  meta.MeetingDate,
			MeetingTitle: meta.MeetingTitle,
			Summary:      meta.Summary,

			MeetingDuration: meta.Duration,
			SpeakerMapping:  mappingJSON,

			ChunkType:   models.ChunkFullTranscript,
			ChunkIndex:  i,
			TotalChunks: total,
			WordCount:   len(strings.Fields(piece)),
			CharCount:   len(piece),

			Source:             meta.Source,
			SourceFile:         meta.SourceFile,
			TranscriptionModel: meta.TranscriptionModel,
			Language:           meta.Language,
			DateTranscribed:    meta.DateTranscribed,
		})
	}
	return docs
}
