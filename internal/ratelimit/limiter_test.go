package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayyargsayer/projectgen/internal/logger"
)

func TestAllowExhaustsBurst(t *testing.T) {
	l := NewLimiter(10, 3)
	t.Cleanup(l.Shutdown)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("client-a"))
}

func TestClientsAreIndependent(t *testing.T) {
	l := NewLimiter(10, 1)
	t.Cleanup(l.Shutdown)

	require.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))
}

func TestSweepDropsIdleClients(t *testing.T) {
	l := NewLimiter(10, 1)
	t.Cleanup(l.Shutdown)

	l.Allow("client-a")
	l.mu.Lock()
	l.clients["client-a"].lastSeen = time.Now().Add(-staleAfter - time.Minute)
	l.mu.Unlock()

	l.sweep()

	l.mu.Lock()
	_, ok := l.clients["client-a"]
	l.mu.Unlock()
	assert.False(t, ok)
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLimiter(10, 1)
	t.Cleanup(l.Shutdown)

	router := gin.New()
	router.Use(Middleware(l, 10, logger.New(logger.Config{Format: "json"})))
	router.POST("/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "limit")
}
