package chat

import "strings"

const mentorPersona = `You are a friendly, experienced software mentor helping a student work
through their graduation project. Answer questions concretely, suggest
specific tools and techniques, and keep replies focused on the student's
project. When the student asks for code, provide short working examples.`

// BuildSystemPrompt renders the chat system instruction. When the session
// is anchored to a generated guide, the guide text is included so the model
// answers in the context of that project.
func BuildSystemPrompt(projectContext string) string {
	projectContext = strings.TrimSpace(projectContext)
	if projectContext == "" {
		return mentorPersona
	}
	var b strings.Builder
	b.WriteString(mentorPersona)
	b.WriteString("\n\nThe student is working on the project described below. Ground every answer in it.\n\n## Project guide\n\n")
	b.WriteString(projectContext)
	return b.String()
}
