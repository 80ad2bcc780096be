package render

import (
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/cpcf/lineage/project"
)

// PartialLoader attaches partial templates found by glob patterns to a root
// template. Patterns are loaded in order, so a partial matched by a later
// pattern replaces an earlier one with the same name.
type PartialLoader struct {
	project *project.FileSystem
}

func NewPartialLoader(p *project.FileSystem) *PartialLoader {
	return &PartialLoader{project: p}
}

// Load parses every partial matched by patterns into root and returns the
// names it defined.
func (pl *PartialLoader) Load(root *template.Template, patterns []string) ([]string, error) {
	var names []string

	for _, pattern := range patterns {
		items, err := pl.project.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to find partials for %s: %w", pattern, err)
		}

		for _, item := range items {
			content, err := project.ReadAll(item)
			if err != nil {
				return nil, fmt.Errorf("failed to read partial %s: %w", item.FilePath(), err)
			}

			name := PartialName(item.FilePath())
			if _, err := root.New(name).Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse partial %s: %w", item.FilePath(), err)
			}
			names = append(names, name)
		}
	}

	return names, nil
}

// PartialName is the template name a partial file is registered under:
// the base name without a leading underscore or extension.
func PartialName(partialPath string) string {
	base := path.Base(partialPath)
	base = strings.TrimPrefix(base, "_")
	return strings.TrimSuffix(base, path.Ext(base))
}
