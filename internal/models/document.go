package models

import (
	"encoding/json"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ChunkType classifies how a chunk was produced.
type ChunkType string

const (
	// ChunkConversationTurn is a chunk whose segments all share one speaker.
	ChunkConversationTurn ChunkType = "conversation_turn"

	// ChunkMixedSpeakers is a chunk that absorbed segments from several
	// speakers before reaching the minimum size.
	ChunkMixedSpeakers ChunkType = "mixed_speakers"

	// ChunkFullTranscript is a fallback chunk cut from raw text without
	// speaker data.
	ChunkFullTranscript ChunkType = "full_transcript_chunk"

	// ChunkLive is a single live-stream transcript line indexed as-is.
	ChunkLive ChunkType = "live_chunk"
)

// IndexedDocument is the persisted retrieval unit: a chunk's text plus the
// meeting metadata and per-chunk fields flattened into one flat record. This
// is exactly what the vector database stores and returns from queries.
type IndexedDocument struct {
	ID *surrealmodels.RecordID `json:"id,omitempty"`

	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`

	// Meeting identification
	MeetingID    string `json:"meeting_id"`
	MeetingDate  string `json:"meeting_date"`
	MeetingTitle string `json:"meeting_title"`
	Summary      string `json:"summary"`

	// Temporal
	StartTime          float64 `json:"start_time"`
	EndTime            float64 `json:"end_time"`
	Duration           float64 `json:"duration"`
	StartTimeFormatted string  `json:"start_time_formatted"`
	EndTimeFormatted   string  `json:"end_time_formatted"`
	MeetingDuration    string  `json:"meeting_duration"`

	// Speakers
	Speaker        string   `json:"speaker"`
	Speakers       []string `json:"speakers"`
	SpeakerCount   int      `json:"speaker_count"`
	SpeakerMapping string   `json:"speaker_mapping"` // JSON object, label -> name

	// Content
	ChunkType    ChunkType `json:"chunk_type"`
	ChunkIndex   int       `json:"chunk_index"`
	TotalChunks  int       `json:"total_chunks"`
	WordCount    int       `json:"word_count"`
	CharCount    int       `json:"char_count"`
	SegmentCount int       `json:"segment_count"`

	// Source
	Source             string `json:"source"`
	SourceFile         string `json:"source_file"`
	TranscriptionModel string `json:"transcription_model"`
	Language           string `json:"language"`
	DateTranscribed    string `json:"date_transcribed"`
}

// ScoredDocument is a retrieval result: a stored document with its
// similarity score.
type ScoredDocument struct {
	IndexedDocument
	Score float64 `json:"score"`
}

// EncodeSpeakerMapping serializes a speaker mapping for flat metadata
// storage. Empty mappings encode as "{}".
func EncodeSpeakerMapping(mapping map[string]string) string {
	if len(mapping) == 0 {
		return "{}"
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeSpeakerMapping is the inverse of EncodeSpeakerMapping. Malformed
// input yields an empty mapping.
func DecodeSpeakerMapping(s string) map[string]string {
	mapping := make(map[string]string)
	if s == "" {
		return mapping
	}
	if err := json.Unmarshal([]byte(s), &mapping); err != nil {
		return map[string]string{}
	}
	return mapping
}
