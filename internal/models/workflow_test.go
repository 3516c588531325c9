package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_IsolatesSessions(t *testing.T) {
	store := NewSessionStore()

	store.Update("a", func(w *WorkflowState) {
		w.TranscriptText = "session a transcript"
	})
	store.Update("b", func(w *WorkflowState) {
		w.UploadPath = "/tmp/b.mp4"
	})

	assert.Equal(t, "session a transcript", store.Get("a").TranscriptText)
	assert.Empty(t, store.Get("a").UploadPath)
	assert.Equal(t, "/tmp/b.mp4", store.Get("b").UploadPath)
	assert.False(t, store.Get("b").HasTranscript())
}

func TestSessionStore_ResetClearsEverything(t *testing.T) {
	store := NewSessionStore()
	store.Update("a", func(w *WorkflowState) {
		w.TranscriptText = "text"
		w.UploadPath = "/tmp/a.mp4"
		w.SpeakerMapping = map[string]string{"SPEAKER_00": "Alice"}
		w.TranscriptionRunning = true
	})

	store.Update("a", func(w *WorkflowState) { w.Reset() })

	state := store.Get("a")
	assert.Equal(t, &WorkflowState{}, state)
}

func TestSessionStore_Drop(t *testing.T) {
	store := NewSessionStore()
	store.Update("a", func(w *WorkflowState) { w.TranscriptText = "text" })

	store.Drop("a")

	assert.False(t, store.Get("a").HasTranscript())
}

func TestSessionStore_ConcurrentUpdates(t *testing.T) {
	store := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("shared", func(w *WorkflowState) {
				if w.SpeakerMapping == nil {
					w.SpeakerMapping = make(map[string]string)
				}
				w.SpeakerMapping["SPEAKER_00"] = "Alice"
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, "Alice", store.Get("shared").SpeakerMapping["SPEAKER_00"])
}
