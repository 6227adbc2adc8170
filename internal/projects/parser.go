package projects

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when the model response contains no heading at all.
const DefaultTitle = "Project Proposal"

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	// Matches headings like "Project Title" or "1. Project Title" so a
	// labelled title block wins over the first arbitrary heading.
	titleLabelPattern = regexp.MustCompile(`(?i)^(?:\d+\.\s*)?project title:?$`)
)

// ExtractTitle pulls a display title out of generated markdown.
//
// Preference order: the line following a heading labelled "Project Title",
// then the text of the first heading, then DefaultTitle.
func ExtractTitle(content string) string {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil || !titleLabelPattern.MatchString(m[2]) {
			continue
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			if headingPattern.MatchString(next) {
				break
			}
			return cleanTitle(next)
		}
	}

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			if title := cleanTitle(m[2]); title != "" {
				return title
			}
		}
	}
	return DefaultTitle
}

func cleanTitle(s string) string {
	s = strings.Trim(s, "*_` ")
	return strings.TrimSpace(s)
}

// SplitSections breaks markdown into its level-two heading blocks. Text
// before the first `## ` heading (typically the title and intro) is dropped;
// deeper headings stay inside the body of their parent section.
func SplitSections(content string) []Section {
	var sections []Section
	var current *Section
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(body.String())
		sections = append(sections, *current)
		current = nil
		body.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil && len(m[1]) == 2 {
			flush()
			current = &Section{Heading: strings.TrimSpace(m[2])}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()
	return sections
}
