package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayyargsayer/projectgen/internal/config"
)

func promptCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	catalog, err := config.LoadCatalog("")
	require.NoError(t, err)
	return catalog
}

func TestBuildProjectPromptIncludesProfile(t *testing.T) {
	inputs := UserInputs{
		DetailedInfo:  "A tool that plans weekly meals from pantry photos.",
		Categories:    []string{"Artificial Intelligence", "Mobile Development"},
		Difficulty:    "Advanced",
		ProjectType:   "Personal Project",
		Interests:     []string{"Computer Vision"},
		Keywords:      "nutrition, ocr",
		TimelineWeeks: 12,
		Complexity:    7,
	}

	prompt := BuildProjectPrompt(inputs, promptCatalog(t))

	assert.Contains(t, prompt, "A tool that plans weekly meals from pantry photos.")
	assert.Contains(t, prompt, "Artificial Intelligence, Mobile Development")
	assert.Contains(t, prompt, "Difficulty: Advanced")
	assert.Contains(t, prompt, "Timeline: 12 weeks")
	assert.Contains(t, prompt, "Complexity: 7/10")
	assert.Contains(t, prompt, "all 12 weeks")
	assert.NotContains(t, prompt, "inspiration image")
}

func TestBuildProjectPromptFallbacks(t *testing.T) {
	inputs := UserInputs{Keywords: "robotics", TimelineWeeks: 8, Complexity: 5}

	prompt := BuildProjectPrompt(inputs, promptCatalog(t))

	assert.Contains(t, prompt, "the student is looking for a general project idea")
	assert.Contains(t, prompt, "Categories: Open to any field")
	assert.Contains(t, prompt, "Difficulty: A suitable level")
	assert.Contains(t, prompt, "Project type: Flexible")
	assert.Contains(t, prompt, "Interests: Various technologies")
	assert.Contains(t, prompt, "Keywords: robotics")
}

func TestBuildProjectPromptMentionsAttachedImage(t *testing.T) {
	inputs := UserInputs{
		Keywords:      "gardening",
		TimelineWeeks: 4,
		Complexity:    3,
		ImageData:     []byte{1, 2, 3},
		ImageMIMEType: "image/png",
	}

	prompt := BuildProjectPrompt(inputs, promptCatalog(t))
	assert.Contains(t, prompt, "inspiration image is attached")
}

func TestBuildProjectPromptStructureInstructions(t *testing.T) {
	prompt := BuildProjectPrompt(UserInputs{Keywords: "iot", TimelineWeeks: 8, Complexity: 5}, promptCatalog(t))

	for _, heading := range []string{
		"## 1. Project Summary",
		"## 2. Goals and Scope",
		"## 3. Technology Stack",
		"## 4. Architecture",
		"## 5. Development Roadmap",
		"## 6. Challenges and Risks",
		"## 7. Learning Outcomes",
		"## 8. Going Further",
	} {
		assert.Contains(t, prompt, heading)
	}
}
