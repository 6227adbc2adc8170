package projects

import (
	"context"
	"errors"
	"time"

	"github.com/tayyargsayer/projectgen/internal/config"
	"github.com/tayyargsayer/projectgen/internal/genai"
	"github.com/tayyargsayer/projectgen/internal/logger"
	"github.com/tayyargsayer/projectgen/internal/metrics"
)

// ContentGenerator is the slice of the AI client the service needs.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string, image *genai.Image, opts genai.Options) (*genai.Result, error)
}

// Service turns validated form inputs into a project guide.
type Service struct {
	ai      ContentGenerator
	catalog *config.Catalog
	model   string
	logger  *logger.Logger
}

func NewService(ai ContentGenerator, catalog *config.Catalog, model string, log *logger.Logger) *Service {
	return &Service{
		ai:      ai,
		catalog: catalog,
		model:   model,
		logger:  log.WithComponent("projects"),
	}
}

// Generate runs the full pipeline: validate, build the prompt, call the
// model, parse the response. Validation failures short-circuit before any
// external call is made.
//
// The returned result always carries either a guide or an error message,
// never both. The error return mirrors the failure so handlers can map it
// to a status code; it is nil on success.
func (s *Service) Generate(ctx context.Context, inputs UserInputs, mc ModelConfig) (GenerationResult, error) {
	inputs.ApplyDefaults()

	if err := inputs.Validate(); err != nil {
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeValidationError).Inc()
		return failure(err), err
	}
	opts := mc.Options()
	if err := opts.Validate(); err != nil {
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeValidationError).Inc()
		return failure(err), err
	}

	prompt := BuildProjectPrompt(inputs, s.catalog)

	start := time.Now()
	res, err := s.ai.Generate(ctx, prompt, inputs.image(), opts)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeGenerationError).Inc()
		s.logger.LogError(ctx, err, "project generation failed")
		return failure(err), err
	}

	guide := &ProjectGuide{
		Title:       ExtractTitle(res.Text),
		Content:     res.Text,
		Sections:    SplitSections(res.Text),
		Inputs:      inputs.Summary(),
		Model:       s.model,
		GeneratedAt: time.Now().UTC(),
	}

	metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "project guide generated",
		"title", guide.Title,
		"sections", len(guide.Sections),
		"duration_ms", time.Since(start).Milliseconds(),
		"completion_tokens", res.Usage.CompletionTokens,
	)
	return GenerationResult{Success: true, Guide: guide}, nil
}

func failure(err error) GenerationResult {
	msg := err.Error()
	if errors.Is(err, genai.ErrGenerationFailed) {
		msg = "the model could not produce a project guide, please try again: " + msg
	}
	return GenerationResult{Success: false, Error: msg}
}
