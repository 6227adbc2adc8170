package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/tayyargsayer/projectgen/internal/errors"
	"github.com/tayyargsayer/projectgen/internal/genai"
	"github.com/tayyargsayer/projectgen/internal/logger"
)

// Handler exposes the chat session API.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log.WithComponent("chat_handler")}
}

// CreateSessionRequest is the body of POST /api/v1/chat/sessions.
type CreateSessionRequest struct {
	ProjectContext string `json:"project_context"`
}

// CreateSession handles POST /api/v1/chat/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	session := h.service.CreateSession(req.ProjectContext)
	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"created_at": session.CreatedAt,
	})
}

// SendMessageRequest is the body of POST /api/v1/chat/sessions/:id/messages.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage handles POST /api/v1/chat/sessions/:id/messages.
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	ctx := logger.WithOperation(c.Request.Context(), "chat_message")
	reply, err := h.service.SendMessage(ctx, c.Param("id"), req.Message)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	case errors.Is(err, ErrSessionNotFound):
		apierrors.AbortWithNotFound(c, "chat session not found", nil)
	case errors.Is(err, genai.ErrInvalidRequest):
		apierrors.AbortWithBadRequest(c, err.Error(), nil)
	default:
		apierrors.AbortWithBadGateway(c, "failed to produce a reply", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// GetSession handles GET /api/v1/chat/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.service.Session(c.Param("id"))
	if err != nil {
		apierrors.AbortWithNotFound(c, "chat session not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":  session.ID,
		"created_at":  session.CreatedAt,
		"has_context": session.ProjectContext != "",
		"messages":    session.History(),
	})
}

// DeleteSession handles DELETE /api/v1/chat/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.service.RemoveSession(c.Param("id")); err != nil {
		apierrors.AbortWithNotFound(c, "chat session not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
