package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tayyargsayer/projectgen/internal/config"
	"github.com/tayyargsayer/projectgen/internal/logger"
)

// Error kinds for the two failure classes of a generation call. Everything
// that goes wrong after the request leaves this process (network, auth,
// quota, safety blocks, malformed responses) collapses into ErrGenerationFailed.
var (
	ErrInvalidRequest   = errors.New("invalid generation request")
	ErrGenerationFailed = errors.New("generation failed")
)

// Options are the per-call generation parameters.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
	SafetyLevel     string
}

// DefaultOptions returns the application defaults for generation parameters.
func DefaultOptions() Options {
	return Options{
		Temperature:     config.DefaultTemperature,
		MaxOutputTokens: config.DefaultMaxOutputTokens,
		TopP:            config.DefaultTopP,
		TopK:            config.DefaultTopK,
		SafetyLevel:     SafetyMinimum,
	}
}

// Validate rejects out-of-bounds parameters. Called before any network I/O.
func (o Options) Validate() error {
	if o.Temperature < config.TemperatureMin || o.Temperature > config.TemperatureMax {
		return fmt.Errorf("%w: temperature %.2f is outside [%.1f, %.1f]",
			ErrInvalidRequest, o.Temperature, config.TemperatureMin, config.TemperatureMax)
	}
	if o.MaxOutputTokens < config.MaxOutputTokensMin || o.MaxOutputTokens > config.MaxOutputTokensMax {
		return fmt.Errorf("%w: max output tokens %d is outside [%d, %d]",
			ErrInvalidRequest, o.MaxOutputTokens, config.MaxOutputTokensMin, config.MaxOutputTokensMax)
	}
	return nil
}

// Validate checks the attachment size and format.
func (i *Image) Validate() error {
	if len(i.Data) == 0 {
		return fmt.Errorf("%w: image attachment is empty", ErrInvalidRequest)
	}
	if len(i.Data) > config.MaxImageBytes {
		return fmt.Errorf("%w: image is too large (max %d MiB)",
			ErrInvalidRequest, config.MaxImageBytes/(1024*1024))
	}
	if !config.IsAllowedImageMIME(i.MIMEType) {
		return fmt.Errorf("%w: unsupported image type %q (allowed: %s)",
			ErrInvalidRequest, i.MIMEType, strings.Join(config.AllowedImageMIMETypes, ", "))
	}
	return nil
}

// Client is a thin wrapper over the Gemini generateContent REST API.
// It issues exactly one blocking call per request: no retries, no fallback.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Gemini client from the application configuration.
func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		apiKey:  cfg.GeminiAPIKey,
		baseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
		model:   cfg.GeminiModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
		},
		logger: logger.WithComponent("genai"),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate produces content for a single prompt, with an optional inline
// image attachment.
func (c *Client) Generate(ctx context.Context, prompt string, image *Image, opts Options) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", ErrInvalidRequest)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	parts := []part{{Text: prompt}}
	if image != nil {
		if err := image.Validate(); err != nil {
			return nil, err
		}
		parts = append(parts, part{InlineData: &blob{
			MIMEType: image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}})
	}

	contents := []content{{Role: string(RoleUser), Parts: parts}}
	return c.generateContent(ctx, "", contents, opts)
}

// Chat produces the next assistant reply for an accumulated conversation.
// The system instruction carries the mentor persona and any project context;
// turns must end with the user's latest message.
func (c *Client) Chat(ctx context.Context, system string, turns []Turn, opts Options) (*Result, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: conversation has no turns", ErrInvalidRequest)
	}
	if turns[len(turns)-1].Role != RoleUser {
		return nil, fmt.Errorf("%w: conversation must end with a user turn", ErrInvalidRequest)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	contents := make([]content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, content{
			Role:  string(turn.Role),
			Parts: []part{{Text: turn.Text}},
		})
	}

	return c.generateContent(ctx, system, contents, opts)
}

// generateContent issues the single blocking API call shared by Generate and
// Chat and maps the response into a Result.
func (c *Client) generateContent(ctx context.Context, system string, contents []content, opts Options) (*Result, error) {
	payload := generateContentRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			Temperature:     &opts.Temperature,
			MaxOutputTokens: &opts.MaxOutputTokens,
			TopP:            &opts.TopP,
			TopK:            &opts.TopK,
		},
		SafetySettings: safetySettings(opts.SafetyLevel),
	}
	if system != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrGenerationFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrGenerationFailed, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Gemini call failed",
			slog.String("model", c.model),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: call Gemini: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := apiErrorMessage(respBody)
		c.logger.Error("Gemini returned error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("model", c.model),
			slog.String("message", message))
		return nil, fmt.Errorf("%w: Gemini returned status %d: %s", ErrGenerationFailed, resp.StatusCode, message)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}

	result, err := extractResult(&parsed)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("generation completed",
		slog.String("model", c.model),
		slog.Duration("duration", time.Since(start)),
		slog.Int("prompt_tokens", result.Usage.PromptTokens),
		slog.Int("completion_tokens", result.Usage.CompletionTokens))

	return result, nil
}

// extractResult pulls the generated text out of a decoded response,
// converting empty and safety-blocked outcomes into errors.
func extractResult(parsed *generateContentResponse) (*Result, error) {
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt was blocked by safety filters (reason: %s)",
			ErrGenerationFailed, parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("%w: response contained no candidates", ErrGenerationFailed)
	}

	cand := parsed.Candidates[0]
	if cand.FinishReason == "SAFETY" {
		return nil, fmt.Errorf("%w: response was blocked by safety filters", ErrGenerationFailed)
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: model returned an empty response", ErrGenerationFailed)
	}

	result := &Result{
		Text:         text.String(),
		FinishReason: cand.FinishReason,
	}
	if parsed.UsageMetadata != nil {
		result.Usage = Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		}
	}
	return result, nil
}

// apiErrorMessage extracts the error message from a non-200 response body,
// falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}
