package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitleFromFirstHeading(t *testing.T) {
	content := "# Smart Campus Assistant\n\nSome intro text.\n\n## 1. Project Summary\n"
	assert.Equal(t, "Smart Campus Assistant", ExtractTitle(content))
}

func TestExtractTitlePrefersLabelledBlock(t *testing.T) {
	content := "## 1. Project Title\n\n**Smart Campus Assistant**\n\n## 2. Summary\ntext\n"
	assert.Equal(t, "Smart Campus Assistant", ExtractTitle(content))
}

func TestExtractTitleLabelledBlockWinsOverEarlierHeading(t *testing.T) {
	content := "# Your Project Guide\n\n## Project Title\nCampus Energy Monitor\n"
	assert.Equal(t, "Campus Energy Monitor", ExtractTitle(content))
}

func TestExtractTitleStripsEmphasis(t *testing.T) {
	content := "# **Smart Campus Assistant**\n"
	assert.Equal(t, "Smart Campus Assistant", ExtractTitle(content))
}

func TestExtractTitleFallback(t *testing.T) {
	assert.Equal(t, DefaultTitle, ExtractTitle("just a plain paragraph with no headings"))
	assert.Equal(t, DefaultTitle, ExtractTitle(""))
}

func TestSplitSections(t *testing.T) {
	content := `# Title

Intro paragraph that belongs to no section.

## 1. Project Summary

First paragraph.

Second paragraph.

## 2. Goals and Scope

- goal one

### Sub-goal details

Nested content stays in the parent section.

## 3. Technology Stack
Go and Postgres.
`
	sections := SplitSections(content)
	require.Len(t, sections, 3)

	assert.Equal(t, "1. Project Summary", sections[0].Heading)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", sections[0].Body)

	assert.Equal(t, "2. Goals and Scope", sections[1].Heading)
	assert.Contains(t, sections[1].Body, "### Sub-goal details")
	assert.Contains(t, sections[1].Body, "Nested content")

	assert.Equal(t, "3. Technology Stack", sections[2].Heading)
	assert.Equal(t, "Go and Postgres.", sections[2].Body)
}

func TestSplitSectionsNoHeadings(t *testing.T) {
	assert.Empty(t, SplitSections("plain text without any markdown structure"))
}

func TestSplitSectionsPreservesOrder(t *testing.T) {
	content := "## B\nb\n\n## A\na\n\n## C\nc\n"
	sections := SplitSections(content)
	require.Len(t, sections, 3)
	assert.Equal(t, "B", sections[0].Heading)
	assert.Equal(t, "A", sections[1].Heading)
	assert.Equal(t, "C", sections[2].Heading)
}
