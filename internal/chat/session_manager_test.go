package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayyargsayer/projectgen/internal/logger"
)

func testManager(t *testing.T, ttl time.Duration) *SessionManager {
	t.Helper()
	m := NewSessionManager(ttl, time.Hour, logger.New(logger.Config{Format: "json"}))
	t.Cleanup(m.Shutdown)
	return m
}

func TestCreateAndGet(t *testing.T) {
	m := testManager(t, time.Hour)

	session := m.Create("guide text")
	require.NotEmpty(t, session.ID)
	assert.Equal(t, "guide text", session.ProjectContext)

	got, ok := m.Get(session.ID)
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = m.Get("unknown")
	assert.False(t, ok)
}

func TestSessionIDsAreUnique(t *testing.T) {
	m := testManager(t, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := m.Create("")
		require.False(t, seen[s.ID])
		seen[s.ID] = true
	}
	assert.Equal(t, 100, m.Count())
}

func TestRemove(t *testing.T) {
	m := testManager(t, time.Hour)

	session := m.Create("")
	assert.True(t, m.Remove(session.ID))
	assert.False(t, m.Remove(session.ID))
	assert.Equal(t, 0, m.Count())
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := testManager(t, 10*time.Millisecond)

	stale := m.Create("")
	fresh := m.Create("")

	time.Sleep(20 * time.Millisecond)
	fresh.Append(RoleUser, "keep me alive")
	m.sweep()

	_, ok := m.Get(stale.ID)
	assert.False(t, ok, "idle session should be expired")
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok, "active session should survive")
}

func TestHistoryReturnsCopy(t *testing.T) {
	m := testManager(t, time.Hour)
	session := m.Create("")
	session.Append(RoleUser, "original")

	history := session.History()
	history[0].Content = "mutated"

	assert.Equal(t, "original", session.History()[0].Content)
}

func TestConcurrentAccess(t *testing.T) {
	m := testManager(t, time.Hour)
	session := m.Create("")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			session.Append(RoleUser, fmt.Sprintf("message %d", n))
			_ = session.History()
			_, _ = m.Get(session.ID)
			m.Create("")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, session.Len())
	assert.Equal(t, 11, m.Count())
}
