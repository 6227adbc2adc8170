package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the fixed option lists presented to students: project
// categories, difficulty levels, interest areas and so on. It is read-only
// after startup. A deployment can override the embedded default with the
// CATALOG_PATH environment variable.
type Catalog struct {
	Categories             []string       `yaml:"categories" json:"categories"`
	DifficultyLevels       []string       `yaml:"difficulty_levels" json:"difficulty_levels"`
	ProjectTypes           []string       `yaml:"project_types" json:"project_types"`
	Interests              []string       `yaml:"interests" json:"interests"`
	SafetyLevels           []string       `yaml:"safety_levels" json:"safety_levels"`
	ComplexityDescriptions map[int]string `yaml:"complexity_descriptions" json:"complexity_descriptions"`
}

// Validate performs basic validation of a Catalog value:
// - Checks that the option lists are not empty
// - Checks that every complexity step has a description
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("no categories specified in catalog")
	}
	if len(c.DifficultyLevels) == 0 {
		return errors.New("no difficulty levels specified in catalog")
	}
	if len(c.ProjectTypes) == 0 {
		return errors.New("no project types specified in catalog")
	}
	if len(c.Interests) == 0 {
		return errors.New("no interest areas specified in catalog")
	}
	if len(c.SafetyLevels) == 0 {
		return errors.New("no safety levels specified in catalog")
	}

	for step := ComplexityMin; step <= ComplexityMax; step++ {
		if _, ok := c.ComplexityDescriptions[step]; !ok {
			return fmt.Errorf("catalog is missing a description for complexity %d", step)
		}
	}

	return nil
}

// ComplexityDescription returns the human-readable description for a
// complexity step, or "Unspecified" when the step is unknown.
func (c *Catalog) ComplexityDescription(step int) string {
	if desc, ok := c.ComplexityDescriptions[step]; ok {
		return desc
	}
	return "Unspecified"
}

// LoadCatalog reads and validates the catalog. With an empty path the
// embedded default catalog is used.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalogYAML

	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
		data = fileData
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &catalog, nil
}
