package services

import (
	"sync"

	"rag-chatbot-platform/models"
)

// ConversationMemory keeps a bounded, ordered turn history per session,
// entirely in process memory. Sessions are created implicitly on first
// append, cleared explicitly, and never expire on their own — long-running
// deployments with many sessions grow without bound until cleared or
// restarted.
//
// Appends for the same session are serialized by a per-session lock so
// concurrent chat calls cannot interleave their user/assistant pairs.
type ConversationMemory struct {
	mu       sync.RWMutex
	maxTurns int
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	turns []models.Turn
}

func NewConversationMemory(maxTurns int) *ConversationMemory {
	if maxTurns <= 0 {
		maxTurns = 12
	}
	return &ConversationMemory{
		maxTurns: maxTurns,
		sessions: make(map[string]*session),
	}
}

// Append atomically records one exchange (user turn then assistant turn),
// evicting the oldest turns once the session exceeds 2*maxTurns entries.
func (m *ConversationMemory) Append(sessionID, userText, assistantText string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{}
		m.sessions[sessionID] = s
	}
	m.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns,
		models.Turn{Role: models.RoleUser, Content: userText},
		models.Turn{Role: models.RoleAssistant, Content: assistantText},
	)
	if limit := 2 * m.maxTurns; len(s.turns) > limit {
		s.turns = append(s.turns[:0:0], s.turns[len(s.turns)-limit:]...)
	}
}

// Read returns the session's turns in chronological order. Unknown
// sessions yield an empty slice, never an error.
func (m *ConversationMemory) Read(sessionID string) []models.Turn {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Clear removes the session entirely. Clearing an unknown session is a no-op.
func (m *ConversationMemory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
