// Package models defines the shared data types for transcripts, chunks,
// conversations and ingestion workflows.
package models

import (
	"fmt"
	"strings"
)

// TranscriptSegment is one speaker-attributed span of transcribed speech.
// Produced by the transcription service; immutable once produced.
type TranscriptSegment struct {
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// MeetingMetadata holds per-meeting fields that are constant across all of
// that meeting's chunks.
type MeetingMetadata struct {
	MeetingID          string            `json:"meeting_id"`
	MeetingDate        string            `json:"meeting_date"` // YYYY-MM-DD
	MeetingTitle       string            `json:"meeting_title"`
	Summary            string            `json:"summary"`
	Source             string            `json:"source"`
	SourceFile         string            `json:"source_file"`
	Language           string            `json:"language"`
	TranscriptionModel string            `json:"transcription_model"`
	Duration           string            `json:"duration"` // total meeting duration, e.g. "42:10"
	DateTranscribed    string            `json:"date_transcribed"`
	SpeakerMapping     map[string]string `json:"speaker_mapping,omitempty"` // label -> real name
}

// FormatTimestamp converts seconds to MM:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// ApplySpeakerMapping replaces generic speaker labels (SPEAKER_00, ...) with
// identified names in text. Returns text unchanged when mapping is empty.
func ApplySpeakerMapping(text string, mapping map[string]string) string {
	if len(mapping) == 0 {
		return text
	}
	for label, name := range mapping {
		text = strings.ReplaceAll(text, label, name)
	}
	return text
}

// ApplySpeakerMappingToSegments returns a copy of segments with speaker labels
// replaced per mapping, in both the speaker field and the segment text.
// Segments whose speaker has no mapping entry are copied unchanged.
func ApplySpeakerMappingToSegments(segments []TranscriptSegment, mapping map[string]string) []TranscriptSegment {
	if len(mapping) == 0 {
		return segments
	}
	out := make([]TranscriptSegment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if name, ok := mapping[seg.Speaker]; ok {
			out[i].Speaker = name
		}
		out[i].Text = ApplySpeakerMapping(seg.Text, mapping)
	}
	return out
}

// ParseSpeakerMapping parses a "SPEAKER_00=John Smith, SPEAKER_01=Jane Doe"
// style string into a mapping. Malformed pairs are reported, not skipped.
func ParseSpeakerMapping(s string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		label, name, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed speaker mapping %q (want LABEL=Name)", pair)
		}
		label = strings.TrimSpace(label)
		name = strings.TrimSpace(name)
		if label == "" || name == "" {
			return nil, fmt.Errorf("malformed speaker mapping %q (empty label or name)", pair)
		}
		mapping[label] = name
	}
	return mapping, nil
}
