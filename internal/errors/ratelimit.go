package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RateLimitError represents a standardized 429 Too Many Requests response.
type RateLimitError struct {
	Error         string `json:"error"`
	Limit         int    `json:"limit"`
	WindowSeconds int    `json:"window_seconds"`
}

// AbortWithRateLimit sends a 429 response with the RateLimitError and aborts the request.
func AbortWithRateLimit(c *gin.Context, err *RateLimitError) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, err)
}

// RequestLimitExceeded creates a RateLimitError for per-client request throttling.
func RequestLimitExceeded(limit int) *RateLimitError {
	return &RateLimitError{
		Error:         "too many requests, slow down and try again shortly",
		Limit:         limit,
		WindowSeconds: 60,
	}
}
