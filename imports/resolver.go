// Package imports resolves the ordered set of import items whose directives
// apply to a template.
package imports

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cpcf/lineage/project"
)

// ImportsFileName is the per-directory import file for view templates.
const ImportsFileName = "_imports" + project.TemplateExt

var ErrInvalidArgument = errors.New("imports: invalid argument")

// HierarchyFinder lists the items named fileName in the directory of path
// and every ancestor directory, nearest directory first.
type HierarchyFinder interface {
	FindHierarchicalItems(path, fileName string) ([]project.Item, error)
}

type Resolver struct {
	finder      HierarchyFinder
	isComponent func(project.Kind) bool
	logger      *slog.Logger
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithComponentClassifier replaces project.IsComponent.
func WithComponentClassifier(fn func(project.Kind) bool) Option {
	return func(r *Resolver) {
		r.isComponent = fn
	}
}

func NewResolver(finder HierarchyFinder, opts ...Option) *Resolver {
	r := &Resolver{
		finder:      finder,
		isComponent: project.IsComponent,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the imports for item ordered by increasing precedence:
// the default directives, then ancestor import files from the project root
// down to the item's own directory. Components get no imports.
//
// Errors from the finder are returned as is and no partial result is produced.
func (r *Resolver) Resolve(item project.Item) ([]project.Item, error) {
	if project.IsNil(item) {
		return nil, fmt.Errorf("%w: item is nil", ErrInvalidArgument)
	}

	if r.isComponent(item.Kind()) {
		r.logger.Debug("skipping imports for component", "item", project.DisplayName(item))
		return []project.Item{}, nil
	}

	imports := []project.Item{DefaultDirectives()}

	if _, virtual := item.(*project.VirtualItem); virtual {
		return imports, nil
	}

	hierarchy, err := r.finder.FindHierarchicalItems(item.FilePath(), ImportsFileName)
	if err != nil {
		return nil, err
	}

	// The finder returns nearest first; the nearest import must come last.
	hierarchy = slices.Clone(hierarchy)
	slices.Reverse(hierarchy)
	imports = append(imports, hierarchy...)

	r.logger.Debug("resolved imports", "item", item.FilePath(), "count", len(imports))
	return imports, nil
}

// IsCollaboratorFailure reports whether err came from the hierarchy finder
// rather than from argument validation.
func IsCollaboratorFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrInvalidArgument)
}
