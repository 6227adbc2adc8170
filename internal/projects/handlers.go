package projects

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/tayyargsayer/projectgen/internal/errors"
	"github.com/tayyargsayer/projectgen/internal/genai"
	"github.com/tayyargsayer/projectgen/internal/logger"
)

// Handler exposes guide generation and the saved-guide library over HTTP.
// The store is nil when no database is configured; main only mounts the
// library routes when it is present.
type Handler struct {
	service *Service
	store   *Store
	logger  *logger.Logger
}

func NewHandler(service *Service, store *Store, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		store:   store,
		logger:  log.WithComponent("projects_handler"),
	}
}

// GenerateRequest is the body of POST /api/v1/projects/generate.
type GenerateRequest struct {
	Inputs      UserInputs  `json:"inputs"`
	ModelConfig ModelConfig `json:"model_config"`
}

// Generate handles POST /api/v1/projects/generate.
//
// The body is always a GenerationResult; the status code mirrors the
// outcome: 200 on success, 400 on invalid inputs, 502 when the model call
// fails.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	ctx := logger.WithOperation(c.Request.Context(), "generate_project")
	result, err := h.service.Generate(ctx, req.Inputs, req.ModelConfig)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, genai.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, result)
	default:
		c.JSON(http.StatusBadGateway, result)
	}
}

// Save handles POST /api/v1/projects.
func (h *Handler) Save(c *gin.Context) {
	var guide ProjectGuide
	if err := c.ShouldBindJSON(&guide); err != nil {
		apierrors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if strings.TrimSpace(guide.Content) == "" {
		apierrors.AbortWithBadRequest(c, "guide content is required", nil)
		return
	}
	if strings.TrimSpace(guide.Title) == "" {
		guide.Title = ExtractTitle(guide.Content)
	}

	saved, err := h.store.Save(c.Request.Context(), &guide)
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to save guide")
		apierrors.AbortWithInternal(c, "failed to save guide", nil)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// List handles GET /api/v1/projects.
func (h *Handler) List(c *gin.Context) {
	guides, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to list guides")
		apierrors.AbortWithInternal(c, "failed to list guides", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": guides, "count": len(guides)})
}

// guideID validates the :id path param. Saved guide ids are UUIDs; anything
// else cannot match a row, so it is reported as not found without a query.
func guideID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.AbortWithNotFound(c, "saved guide not found", nil)
		return "", false
	}
	return id.String(), true
}

// Get handles GET /api/v1/projects/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := guideID(c)
	if !ok {
		return
	}
	guide, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrGuideNotFound) {
		apierrors.AbortWithNotFound(c, "saved guide not found", nil)
		return
	}
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to load guide")
		apierrors.AbortWithInternal(c, "failed to load guide", nil)
		return
	}
	c.JSON(http.StatusOK, guide)
}

// Download handles GET /api/v1/projects/:id/markdown and serves the raw
// guide as a file attachment.
func (h *Handler) Download(c *gin.Context) {
	id, ok := guideID(c)
	if !ok {
		return
	}
	guide, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrGuideNotFound) {
		apierrors.AbortWithNotFound(c, "saved guide not found", nil)
		return
	}
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to load guide")
		apierrors.AbortWithInternal(c, "failed to load guide", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(guide.Title)))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(guide.Content))
}

// Delete handles DELETE /api/v1/projects/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := guideID(c)
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrGuideNotFound) {
		apierrors.AbortWithNotFound(c, "saved guide not found", nil)
		return
	}
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to delete guide")
		apierrors.AbortWithInternal(c, "failed to delete guide", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportFilename turns a guide title into a safe download name.
func exportFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "project_guide"
	}
	return name + ".md"
}
