// Package engine renders template trees. Each page is compiled with the
// directives inherited from its import chain.
package engine

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cpcf/lineage/directive"
	"github.com/cpcf/lineage/imports"
	"github.com/cpcf/lineage/postprocess"
	"github.com/cpcf/lineage/project"
	"github.com/cpcf/lineage/render"
)

type Engine struct {
	logger         *slog.Logger
	outputRoot     string
	failMode       FailureMode
	workers        int
	registry       *render.FunctionRegistry
	postprocessors *postprocess.Chain
	renderer       *Renderer
}

type FailureMode int

const (
	FailFast FailureMode = iota
	FailAtEnd
	BestEffort
)

// ParseFailureMode maps the config spelling of a failure mode.
func ParseFailureMode(name string) (FailureMode, error) {
	switch name {
	case "fail_fast", "":
		return FailFast, nil
	case "fail_at_end":
		return FailAtEnd, nil
	case "best_effort":
		return BestEffort, nil
	default:
		return FailFast, fmt.Errorf("unknown failure mode %q", name)
	}
}

func (m FailureMode) String() string {
	switch m {
	case FailFast:
		return "fail_fast"
	case FailAtEnd:
		return "fail_at_end"
	case BestEffort:
		return "best_effort"
	default:
		return fmt.Sprintf("FailureMode(%d)", int(m))
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		outputRoot:     "./out",
		failMode:       FailFast,
		workers:        runtime.NumCPU(),
		registry:       render.NewDefaultRegistry(),
		postprocessors: postprocess.NewChain(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.renderer = NewRenderer(e.logger, e.registry, e.postprocessors, e.workers)

	return e
}

// RenderDir renders every page under templateDir. Import files, partials
// and anything under an underscore-prefixed directory are not rendered.
func (e *Engine) RenderDir(ctx Context, templateDir string, data any) error {
	if ctx.OutputRoot == "" {
		ctx.OutputRoot = e.outputRoot
	}
	return e.renderer.RenderDir(ctx, e.failMode, templateDir, data)
}

// Imports returns the import chain for the template at templatePath,
// lowest precedence first.
func (e *Engine) Imports(ctx Context, templatePath string) ([]project.Item, error) {
	resolver := imports.NewResolver(ctx.Project, imports.WithLogger(e.logger))
	return resolver.Resolve(ctx.Project.GetItem(templatePath))
}

// Directives returns the effective directive set for the template at
// templatePath, including its own inline directives.
func (e *Engine) Directives(ctx Context, templatePath string) (directive.Set, error) {
	resolver := imports.NewResolver(ctx.Project, imports.WithLogger(e.logger))
	set, _, err := e.renderer.compose(resolver, NewDirectiveCache(), ctx.Project.GetItem(templatePath))
	return set, err
}

// Registry exposes the helpers templates can inject.
func (e *Engine) Registry() *render.FunctionRegistry {
	return e.registry
}

// AddPostProcessor appends a processor; processors run in the order added.
func (e *Engine) AddPostProcessor(processor postprocess.Processor) {
	e.postprocessors.Add(processor)
}

func (e *Engine) AddPostProcessorFunc(fn func(out postprocess.Output, content []byte) ([]byte, error)) {
	e.postprocessors.AddFunc(fn)
}
