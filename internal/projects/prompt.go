package projects

import (
	"fmt"
	"strings"

	"github.com/tayyargsayer/projectgen/internal/config"
)

// promptTemplate is the fixed instruction block sent with every generation
// request. The profile section is rendered separately and spliced in.
const promptTemplate = `You are a senior software architect and mentor with over 15 years of
experience guiding engineering students through graduation projects.

Using the student profile below, propose ONE concrete, original software
project and write a complete implementation guide for it.

%s

Rules:
- The project must be achievable by the student within the stated timeline.
- Match the technical depth to the stated difficulty and complexity level.
- Prefer technologies the student can learn alongside the project.
- Be specific: name frameworks, libraries and data sources, not categories.

Answer in Markdown using exactly this structure:

# [Creative project title]

## 1. Project Summary
Two or three paragraphs describing the idea, the problem it solves and who
benefits from it.

## 2. Goals and Scope
A bullet list of measurable goals, followed by an explicit out-of-scope list.

## 3. Technology Stack
The recommended languages, frameworks, databases and services, each with a
one-line reason.

## 4. Architecture
The main components and how they talk to each other.

## 5. Development Roadmap
A week-by-week plan covering all %d weeks: setup and research in the first
quarter, core features in the middle, testing and polish at the end.

## 6. Challenges and Risks
The hardest parts of the project and a mitigation for each.

## 7. Learning Outcomes
What the student will know how to do after finishing.

## 8. Going Further
Optional extensions if time remains.`

// BuildProjectPrompt renders the full prompt for a generation request.
// Inputs are assumed to be validated and defaulted.
func BuildProjectPrompt(inputs UserInputs, catalog *config.Catalog) string {
	var profile strings.Builder
	profile.WriteString("Student profile:\n")

	if detail := strings.TrimSpace(inputs.DetailedInfo); detail != "" {
		fmt.Fprintf(&profile, "- Project description: %s\n", detail)
	} else {
		profile.WriteString("- Project description: the student is looking for a general project idea\n")
	}
	fmt.Fprintf(&profile, "- Categories: %s\n", orFallback(strings.Join(inputs.Categories, ", "), "Open to any field"))
	fmt.Fprintf(&profile, "- Difficulty: %s\n", orFallback(inputs.Difficulty, "A suitable level"))
	fmt.Fprintf(&profile, "- Project type: %s\n", orFallback(inputs.ProjectType, "Flexible"))
	fmt.Fprintf(&profile, "- Interests: %s\n", orFallback(strings.Join(inputs.Interests, ", "), "Various technologies"))
	fmt.Fprintf(&profile, "- Keywords: %s\n", orFallback(strings.TrimSpace(inputs.Keywords), "Innovative solutions"))
	fmt.Fprintf(&profile, "- Timeline: %d weeks\n", inputs.TimelineWeeks)
	fmt.Fprintf(&profile, "- Complexity: %d/10 (%s)", inputs.Complexity, catalog.ComplexityDescription(inputs.Complexity))
	if len(inputs.ImageData) > 0 {
		profile.WriteString("\n- An inspiration image is attached; weave its theme into the proposal")
	}

	return fmt.Sprintf(promptTemplate, profile.String(), inputs.TimelineWeeks)
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
