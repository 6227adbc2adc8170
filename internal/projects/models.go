package projects

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tayyargsayer/projectgen/internal/config"
	"github.com/tayyargsayer/projectgen/internal/genai"
)

// Defaults applied when the form leaves sliders untouched.
const (
	DefaultTimelineWeeks = 8
	DefaultComplexity    = 5
)

// UserInputs is everything the student filled in on the generation form.
// It lives for a single request and is discarded afterwards.
type UserInputs struct {
	DetailedInfo  string   `json:"detailed_info"`
	Categories    []string `json:"categories"`
	Difficulty    string   `json:"difficulty"`
	ProjectType   string   `json:"project_type"`
	Interests     []string `json:"interests"`
	Keywords      string   `json:"keywords"`
	TimelineWeeks int      `json:"timeline_weeks"`
	Complexity    int      `json:"complexity"`

	// Optional inspiration image, base64-encoded in JSON.
	ImageData     []byte `json:"image_data,omitempty"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
}

// ApplyDefaults fills slider fields the client omitted.
func (u *UserInputs) ApplyDefaults() {
	if u.TimelineWeeks == 0 {
		u.TimelineWeeks = DefaultTimelineWeeks
	}
	if u.Complexity == 0 {
		u.Complexity = DefaultComplexity
	}
}

// HasTopicSignal reports whether at least one of the fields that can steer
// the generated ideas is present.
func (u *UserInputs) HasTopicSignal() bool {
	return strings.TrimSpace(u.DetailedInfo) != "" ||
		strings.TrimSpace(u.Keywords) != "" ||
		len(u.Categories) > 0 ||
		len(u.Interests) > 0
}

// Validate checks the form fields and returns a user-facing error on the
// first violation. It performs no I/O.
func (u *UserInputs) Validate() error {
	if !u.HasTopicSignal() {
		return fmt.Errorf("%w: fill in at least one of project details, keywords, categories or interests", genai.ErrInvalidRequest)
	}
	if detail := strings.TrimSpace(u.DetailedInfo); detail != "" {
		// Limits count characters, not bytes: descriptions are often
		// written in languages with multi-byte runes.
		if utf8.RuneCountInString(detail) < config.MinDetailLength {
			return fmt.Errorf("%w: project details are too short (at least %d characters)", genai.ErrInvalidRequest, config.MinDetailLength)
		}
		if utf8.RuneCountInString(detail) > config.MaxDetailLength {
			return fmt.Errorf("%w: project details are too long (at most %d characters)", genai.ErrInvalidRequest, config.MaxDetailLength)
		}
	}
	if u.TimelineWeeks < config.TimelineWeeksMin || u.TimelineWeeks > config.TimelineWeeksMax {
		return fmt.Errorf("%w: timeline must be between %d and %d weeks", genai.ErrInvalidRequest, config.TimelineWeeksMin, config.TimelineWeeksMax)
	}
	if u.Complexity < config.ComplexityMin || u.Complexity > config.ComplexityMax {
		return fmt.Errorf("%w: complexity must be between %d and %d", genai.ErrInvalidRequest, config.ComplexityMin, config.ComplexityMax)
	}
	if len(u.ImageData) > 0 || u.ImageMIMEType != "" {
		image := genai.Image{MIMEType: u.ImageMIMEType, Data: u.ImageData}
		if err := image.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// image returns the inline attachment, or nil when none was uploaded.
func (u *UserInputs) image() *genai.Image {
	if len(u.ImageData) == 0 {
		return nil
	}
	return &genai.Image{MIMEType: u.ImageMIMEType, Data: u.ImageData}
}

// Summary strips the transient payload fields (image bytes, free text) down
// to what is echoed back with the generated guide.
func (u *UserInputs) Summary() InputSummary {
	return InputSummary{
		Categories:    u.Categories,
		Difficulty:    u.Difficulty,
		ProjectType:   u.ProjectType,
		Interests:     u.Interests,
		Keywords:      u.Keywords,
		TimelineWeeks: u.TimelineWeeks,
		Complexity:    u.Complexity,
	}
}

// ModelConfig carries the optional generation-parameter overrides from the
// settings sidebar. Nil fields fall back to the application defaults.
type ModelConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty"`
	SafetyLevel     string   `json:"safety_level,omitempty"`
}

// Options resolves the config against the application defaults.
func (m ModelConfig) Options() genai.Options {
	opts := genai.DefaultOptions()
	if m.Temperature != nil {
		opts.Temperature = *m.Temperature
	}
	if m.MaxOutputTokens != nil {
		opts.MaxOutputTokens = *m.MaxOutputTokens
	}
	if m.SafetyLevel != "" {
		opts.SafetyLevel = m.SafetyLevel
	}
	return opts
}

// InputSummary is the subset of the form echoed back with a guide.
type InputSummary struct {
	Categories    []string `json:"categories"`
	Difficulty    string   `json:"difficulty"`
	ProjectType   string   `json:"project_type"`
	Interests     []string `json:"interests"`
	Keywords      string   `json:"keywords"`
	TimelineWeeks int      `json:"timeline_weeks"`
	Complexity    int      `json:"complexity"`
}

// Section is one `##`-delimited block of the generated guide.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ProjectGuide is the display-ready payload built from a model response.
type ProjectGuide struct {
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Sections    []Section    `json:"sections"`
	Inputs      InputSummary `json:"inputs"`
	Model       string       `json:"model"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// GenerationResult is the tri-state outcome of a generation request.
// Exactly one of Error and Guide is populated once the request completes.
type GenerationResult struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Guide   *ProjectGuide `json:"guide,omitempty"`
}
