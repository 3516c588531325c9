package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/transcribe"
)

func meetingRecording(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "standup.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not a real video"), 0o644))
	return path
}

func stagedResult() *transcribe.Result {
	return &transcribe.Result{
		Segments: []models.TranscriptSegment{
			{Text: "SPEAKER_00 said we should ship the rollout on Friday morning.", Start: 0, End: 5, Speaker: "SPEAKER_00"},
			{Text: "Agreed, I will own the deployment and the follow-up checks.", Start: 5, End: 11, Speaker: "SPEAKER_01"},
		},
		Language: "en",
		Duration: 125,
		Model:    "whisperx-large-v2",
		Speakers: []string{"SPEAKER_00", "SPEAKER_01"},
	}
}

func TestVideoWorkflow_EndToEnd(t *testing.T) {
	store := &fakeStore{}
	deps := newTestDeps(store)
	deps.Transcriber = &fakeTranscriber{result: stagedResult()}
	deps.Extractor = &fakeExtractor{meta: llm.ExtractedMetadata{
		Title:       "Weekly Sync",
		Summary:     "Rollout planning.",
		MeetingDate: "2026-02-10",
	}}
	ctx := context.Background()
	path := meetingRecording(t)

	upload := &RequestVideoUpload{deps}
	out, err := upload.Invoke(ctx, "s1", json.RawMessage(`{"path":"`+path+`"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "Video file staged")

	tv := &TranscribeVideo{deps}
	out, err = tv.Invoke(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Transcription complete!")
	assert.Contains(t, out, "- Language: en")
	assert.Contains(t, out, "- Duration: 02:05")
	assert.Contains(t, out, "- Speakers detected: 2")

	rename := &RenameSpeakers{deps}
	out, err = rename.Invoke(ctx, "s1", json.RawMessage(`{"mapping":"SPEAKER_00=Alice, SPEAKER_01=Bob"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "- SPEAKER_00 is now Alice")
	assert.Contains(t, out, "- SPEAKER_01 is now Bob")

	save := &SaveTranscript{deps}
	out, err = save.Invoke(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Meeting saved successfully!")
	assert.Contains(t, out, "- Title: Weekly Sync")
	assert.Contains(t, out, "- Date: 2026-02-10")

	docs := store.allUpserted()
	require.NotEmpty(t, docs)
	for _, doc := range docs {
		assert.True(t, strings.HasPrefix(doc.MeetingID, "meeting_"))
		assert.NotContains(t, doc.Text, "SPEAKER_00")
		assert.Equal(t, "Weekly Sync", doc.MeetingTitle)
		assert.Equal(t, "whisperx-large-v2", doc.TranscriptionModel)
		assert.Equal(t, "video_upload", doc.Source)
	}

	// Workflow is closed after a successful save.
	assert.False(t, deps.Sessions.Get("s1").HasTranscript())
}

func TestTranscribeVideo_NoFileStaged(t *testing.T) {
	deps := newTestDeps(&fakeStore{})
	deps.Transcriber = &fakeTranscriber{result: stagedResult()}

	_, err := (&TranscribeVideo{deps}).Invoke(context.Background(), "s1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No video file has been provided")
}

func TestRequestVideoUpload_NoPathAsksForOne(t *testing.T) {
	deps := newTestDeps(&fakeStore{})

	out, err := (&RequestVideoUpload{deps}).Invoke(context.Background(), "s1", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "provide the path")
	assert.True(t, deps.Sessions.Get("s1").AwaitingUpload)
}

func TestRequestVideoUpload_MissingFile(t *testing.T) {
	deps := newTestDeps(&fakeStore{})

	_, err := (&RequestVideoUpload{deps}).Invoke(context.Background(), "s1",
		json.RawMessage(`{"path":"/does/not/exist.mp4"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "File not found")
}

func TestApplyTranscriptEdit_DropsSegments(t *testing.T) {
	deps := newTestDeps(&fakeStore{})
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "original text"
		w.Segments = stagedResult().Segments
	})

	out, err := (&ApplyTranscriptEdit{deps}).Invoke(context.Background(), "s1",
		json.RawMessage(`{"text":"corrected transcript text that is long enough to chunk"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "Transcript updated")

	state := deps.Sessions.Get("s1")
	assert.Equal(t, "corrected transcript text that is long enough to chunk", state.TranscriptText)
	assert.Nil(t, state.Segments)
	assert.False(t, state.EditorOpen)
}

func TestSaveTranscript_EditedTextFallsBackToTextChunks(t *testing.T) {
	store := &fakeStore{}
	deps := newTestDeps(store)
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "a hand written transcript with no segment timing data at all"
	})

	_, err := (&SaveTranscript{deps}).Invoke(context.Background(), "s1", nil)
	require.NoError(t, err)

	docs := store.allUpserted()
	require.NotEmpty(t, docs)
	for _, doc := range docs {
		assert.Equal(t, models.ChunkFullTranscript, doc.ChunkType)
	}
}

func TestSaveTranscript_NothingStaged(t *testing.T) {
	deps := newTestDeps(&fakeStore{})

	_, err := (&SaveTranscript{deps}).Invoke(context.Background(), "s1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No transcript to save")
}

func TestSaveTranscript_UserMappingWinsOverExtractor(t *testing.T) {
	store := &fakeStore{}
	deps := newTestDeps(store)
	deps.Extractor = &fakeExtractor{meta: llm.ExtractedMetadata{
		Title:          "Untitled Meeting",
		Summary:        "No summary available.",
		SpeakerMapping: map[string]string{"SPEAKER_00": "Bob"},
	}}
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "SPEAKER_00 walked through the incident timeline in detail"
		w.SpeakerMapping = map[string]string{"SPEAKER_00": "Alice"}
	})

	_, err := (&SaveTranscript{deps}).Invoke(context.Background(), "s1", nil)
	require.NoError(t, err)

	docs := store.allUpserted()
	require.NotEmpty(t, docs)
	assert.Contains(t, docs[0].Text, "Alice")
	assert.NotContains(t, docs[0].Text, "Bob")
}

func TestRenameSpeakers_RequiresTranscript(t *testing.T) {
	deps := newTestDeps(&fakeStore{})

	_, err := (&RenameSpeakers{deps}).Invoke(context.Background(), "s1",
		json.RawMessage(`{"mapping":"SPEAKER_00=Alice"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No transcript")
}

func TestRenameSpeakers_MergesAcrossCalls(t *testing.T) {
	deps := newTestDeps(&fakeStore{})
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "something"
	})
	ctx := context.Background()
	rename := &RenameSpeakers{deps}

	_, err := rename.Invoke(ctx, "s1", json.RawMessage(`{"mapping":"SPEAKER_00=Alice"}`))
	require.NoError(t, err)
	_, err = rename.Invoke(ctx, "s1", json.RawMessage(`{"mapping":"SPEAKER_01=Bob"}`))
	require.NoError(t, err)

	state := deps.Sessions.Get("s1")
	assert.Equal(t, map[string]string{"SPEAKER_00": "Alice", "SPEAKER_01": "Bob"}, state.SpeakerMapping)
}

func TestRenameSpeakers_MalformedMapping(t *testing.T) {
	deps := newTestDeps(&fakeStore{})
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "something"
	})

	_, err := (&RenameSpeakers{deps}).Invoke(context.Background(), "s1",
		json.RawMessage(`{"mapping":"SPEAKER_00 Alice"}`))

	require.Error(t, err)
}

func TestCancelWorkflow_Resets(t *testing.T) {
	deps := newTestDeps(&fakeStore{})
	deps.Sessions.Update("s1", func(w *models.WorkflowState) {
		w.TranscriptText = "staged"
		w.UploadPath = "/tmp/video.mp4"
	})

	out, err := (&CancelWorkflow{deps}).Invoke(context.Background(), "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, "Video workflow cancelled. What else can I help you with?", out)
	assert.False(t, deps.Sessions.Get("s1").HasTranscript())
	assert.Empty(t, deps.Sessions.Get("s1").UploadPath)
}
