package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tayyargsayer/projectgen/internal/logger"
	"github.com/tayyargsayer/projectgen/internal/metrics"
)

// Session holds one follow-up conversation and the project guide it is
// anchored to. History is append-only.
type Session struct {
	ID             string
	ProjectContext string
	CreatedAt      time.Time

	mu         sync.Mutex
	messages   []Message
	lastActive time.Time

	// sendMu serializes whole send exchanges so the history only ever
	// grows in user/assistant pairs, even under concurrent sends.
	sendMu sync.Mutex
}

// Append adds one message to the history and marks the session active.
func (s *Session) Append(role, content string) Message {
	msg := Message{Role: role, Content: content, CreatedAt: time.Now().UTC()}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.lastActive = time.Now()
	s.mu.Unlock()
	return msg
}

// History returns a copy of the message history in order.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

// SessionManager keeps chat sessions in memory and expires idle ones.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	logger   *logger.Logger
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewSessionManager starts the background sweeper and returns the manager.
func NewSessionManager(ttl, sweepInterval time.Duration, log *logger.Logger) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   log.WithComponent("chat_sessions"),
		shutdown: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop(sweepInterval)
	return m
}

// Create registers a new session bound to the given project guide text.
func (m *SessionManager) Create(projectContext string) *Session {
	now := time.Now()
	session := &Session{
		ID:             uuid.New().String(),
		ProjectContext: projectContext,
		CreatedAt:      now.UTC(),
		lastActive:     now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	metrics.ActiveChatSessions.Inc()
	m.logger.Info("chat session created", "session_id", session.ID, "has_context", projectContext != "")
	return session
}

// Get returns the session for id, or false when it does not exist.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Remove deletes a session. It reports whether the session existed.
func (m *SessionManager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		metrics.ActiveChatSessions.Dec()
	}
	return ok
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops the sweeper and waits for it to exit.
func (m *SessionManager) Shutdown() {
	close(m.shutdown)
	m.wg.Wait()
}

func (m *SessionManager) sweepLoop(interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdown:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *SessionManager) sweep() {
	now := time.Now()

	m.mu.Lock()
	var expired []string
	for id, session := range m.sessions {
		if session.idleSince(now) > m.ttl {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		metrics.ActiveChatSessions.Sub(float64(len(expired)))
		m.logger.Info("expired idle chat sessions", "expired", len(expired), "remaining", remaining)
	}
}
