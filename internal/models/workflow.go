package models

import "sync"

// WorkflowState tracks an in-progress video ingestion for one session.
// Mutate it only through SessionStore, which serializes access.
type WorkflowState struct {
	UploadPath           string
	TranscriptText       string
	Segments             []TranscriptSegment
	Language             string
	TranscriptionModel   string
	MeetingDuration      string
	ProcessingTime       float64
	SpeakerMapping       map[string]string
	AwaitingUpload       bool
	EditorOpen           bool
	TranscriptionRunning bool
}

// Reset clears the workflow back to its initial state.
func (w *WorkflowState) Reset() {
	*w = WorkflowState{}
}

// HasTranscript reports whether a transcript is staged in this workflow.
func (w *WorkflowState) HasTranscript() bool {
	return w.TranscriptText != ""
}

// SessionStore holds one WorkflowState per conversation session. State is
// keyed by session ID so concurrent conversations never share a workflow.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*WorkflowState
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*WorkflowState)}
}

// Get returns the workflow state for a session, creating it on first use.
func (s *SessionStore) Get(sessionID string) *WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		state = &WorkflowState{}
		s.sessions[sessionID] = state
	}
	return state
}

// Update runs fn against the session's workflow state while holding the
// store lock, so a cancel/reset is atomic with respect to other mutations.
func (s *SessionStore) Update(sessionID string, fn func(*WorkflowState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		state = &WorkflowState{}
		s.sessions[sessionID] = state
	}
	fn(state)
}

// Drop removes a session's workflow state entirely.
func (s *SessionStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
