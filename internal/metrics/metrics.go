// Package metrics exposes the Prometheus instruments shared across the
// service and the /metrics handler that serves them.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for GenerationsTotal.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeGenerationError = "generation_error"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "projectgen",
		Name:      "generations_total",
		Help:      "Project guide generation requests by outcome.",
	}, []string{"outcome"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "projectgen",
		Name:      "generation_duration_seconds",
		Help:      "Wall time of successful guide generations, including the model call.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 90},
	})

	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "projectgen",
		Name:      "chat_messages_total",
		Help:      "Chat messages sent by outcome.",
	}, []string{"outcome"})

	ActiveChatSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "projectgen",
		Name:      "active_chat_sessions",
		Help:      "Chat sessions currently held in memory.",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "projectgen",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})
)

// Handler serves the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
