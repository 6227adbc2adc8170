package projects

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayyargsayer/projectgen/internal/config"
	"github.com/tayyargsayer/projectgen/internal/genai"
	"github.com/tayyargsayer/projectgen/internal/logger"
)

const sampleGuide = `# Smart Campus Assistant

An app that helps students find free study rooms.

## 1. Project Summary

The idea in two paragraphs.

## 2. Goals and Scope

- Goal one
- Goal two

## 5. Development Roadmap

Week 1: setup.
`

// stubGenerator counts calls and returns a canned result or error.
type stubGenerator struct {
	calls      int
	lastPrompt string
	lastImage  *genai.Image
	lastOpts   genai.Options
	result     *genai.Result
	err        error
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, image *genai.Image, opts genai.Options) (*genai.Result, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastImage = image
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testService(t *testing.T, stub *stubGenerator) *Service {
	t.Helper()
	catalog, err := config.LoadCatalog("")
	require.NoError(t, err)
	return NewService(stub, catalog, "gemini-2.5-flash", logger.New(logger.Config{Format: "json"}))
}

func validInputs() UserInputs {
	return UserInputs{
		DetailedInfo:  "A mobile app that helps students find quiet study rooms on campus.",
		Categories:    []string{"Mobile Development"},
		Difficulty:    "Intermediate",
		TimelineWeeks: 8,
		Complexity:    5,
	}
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide, FinishReason: "STOP"}}
	svc := testService(t, stub)

	result, err := svc.Generate(context.Background(), validInputs(), ModelConfig{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.Guide)
	assert.Equal(t, "Smart Campus Assistant", result.Guide.Title)
	assert.Equal(t, sampleGuide, result.Guide.Content)
	assert.Len(t, result.Guide.Sections, 3)
	assert.Equal(t, "gemini-2.5-flash", result.Guide.Model)
	assert.False(t, result.Guide.GeneratedAt.IsZero())
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateValidationShortCircuits(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	cases := map[string]UserInputs{
		"no topic signal": {TimelineWeeks: 8, Complexity: 5},
		"detail too short": {
			DetailedInfo: "short", TimelineWeeks: 8, Complexity: 5,
		},
		"timeline out of range": {
			Keywords: "robotics", TimelineWeeks: 20, Complexity: 5,
		},
		"complexity out of range": {
			Keywords: "robotics", TimelineWeeks: 8, Complexity: 11,
		},
		"bad image type": {
			Keywords: "robotics", TimelineWeeks: 8, Complexity: 5,
			ImageData: []byte{1, 2, 3}, ImageMIMEType: "image/gif",
		},
	}

	for name, inputs := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := svc.Generate(context.Background(), inputs, ModelConfig{})
			require.Error(t, err)
			assert.ErrorIs(t, err, genai.ErrInvalidRequest)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
			assert.Nil(t, result.Guide)
		})
	}
	assert.Equal(t, 0, stub.calls, "validation failures must not reach the model")
}

func TestGenerateDetailLimitsCountRunes(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	// 12 runes, 24 bytes: clears the 10-character minimum.
	short := validInputs()
	short.DetailedInfo = strings.Repeat("ö", 12)
	_, err := svc.Generate(context.Background(), short, ModelConfig{})
	require.NoError(t, err)

	// 2000 runes, 4000 bytes: still within the 2000-character maximum.
	long := validInputs()
	long.DetailedInfo = strings.Repeat("ğ", 2000)
	_, err = svc.Generate(context.Background(), long, ModelConfig{})
	require.NoError(t, err)

	// 2001 runes is over the limit regardless of encoding.
	over := validInputs()
	over.DetailedInfo = strings.Repeat("ğ", 2001)
	_, err = svc.Generate(context.Background(), over, ModelConfig{})
	assert.ErrorIs(t, err, genai.ErrInvalidRequest)
}

func TestGenerateRejectsBadModelConfig(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	temp := 1.5
	result, err := svc.Generate(context.Background(), validInputs(), ModelConfig{Temperature: &temp})
	require.Error(t, err)
	assert.ErrorIs(t, err, genai.ErrInvalidRequest)
	assert.False(t, result.Success)
	assert.Equal(t, 0, stub.calls)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	inputs := UserInputs{Keywords: "robotics"}
	result, err := svc.Generate(context.Background(), inputs, ModelConfig{})
	require.NoError(t, err)

	assert.Equal(t, DefaultTimelineWeeks, result.Guide.Inputs.TimelineWeeks)
	assert.Equal(t, DefaultComplexity, result.Guide.Inputs.Complexity)
	assert.Contains(t, stub.lastPrompt, "Timeline: 8 weeks")
	assert.InDelta(t, config.DefaultTemperature, stub.lastOpts.Temperature, 1e-9)
	assert.Equal(t, config.DefaultMaxOutputTokens, stub.lastOpts.MaxOutputTokens)
}

func TestGenerateModelConfigOverrides(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	temp := 0.2
	tokens := 2048
	mc := ModelConfig{Temperature: &temp, MaxOutputTokens: &tokens, SafetyLevel: genai.SafetyHigh}
	_, err := svc.Generate(context.Background(), validInputs(), mc)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, stub.lastOpts.Temperature, 1e-9)
	assert.Equal(t, 2048, stub.lastOpts.MaxOutputTokens)
	assert.Equal(t, genai.SafetyHigh, stub.lastOpts.SafetyLevel)
}

func TestGeneratePassesImage(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	inputs := validInputs()
	inputs.ImageData = []byte{0x89, 0x50, 0x4e, 0x47}
	inputs.ImageMIMEType = "image/png"

	_, err := svc.Generate(context.Background(), inputs, ModelConfig{})
	require.NoError(t, err)
	require.NotNil(t, stub.lastImage)
	assert.Equal(t, "image/png", stub.lastImage.MIMEType)
	assert.Contains(t, stub.lastPrompt, "inspiration image is attached")
}

func TestGenerateModelFailure(t *testing.T) {
	stub := &stubGenerator{err: fmt.Errorf("%w: Gemini returned status 500", genai.ErrGenerationFailed)}
	svc := testService(t, stub)

	result, err := svc.Generate(context.Background(), validInputs(), ModelConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, genai.ErrGenerationFailed)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Guide)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateDeterministicForSameInputs(t *testing.T) {
	stub := &stubGenerator{result: &genai.Result{Text: sampleGuide}}
	svc := testService(t, stub)

	first, err := svc.Generate(context.Background(), validInputs(), ModelConfig{})
	require.NoError(t, err)
	firstPrompt := stub.lastPrompt

	second, err := svc.Generate(context.Background(), validInputs(), ModelConfig{})
	require.NoError(t, err)

	assert.Equal(t, firstPrompt, stub.lastPrompt, "same inputs must render the same prompt")
	assert.Equal(t, first.Guide.Title, second.Guide.Title)
	assert.Equal(t, first.Guide.Content, second.Guide.Content)
	assert.Equal(t, first.Guide.Sections, second.Guide.Sections)
	assert.Equal(t, first.Guide.Inputs, second.Guide.Inputs)
}
