package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cpcf/lineage/directive"
	"github.com/cpcf/lineage/imports"
	"github.com/cpcf/lineage/postprocess"
	"github.com/cpcf/lineage/project"
	"github.com/cpcf/lineage/render"
)

type Renderer struct {
	logger         *slog.Logger
	registry       *render.FunctionRegistry
	postprocessors *postprocess.Chain
	workers        int
}

func NewRenderer(logger *slog.Logger, registry *render.FunctionRegistry, postprocessors *postprocess.Chain, workers int) *Renderer {
	return &Renderer{
		logger:         logger,
		registry:       registry,
		postprocessors: postprocessors,
		workers:        max(workers, 1),
	}
}

func (r *Renderer) RenderDir(ctx Context, failMode FailureMode, templateDir string, data any) error {
	items, err := ctx.Project.EnumerateItems(templateDir)
	if err != nil {
		return err
	}

	resolver := imports.NewResolver(ctx.Project, imports.WithLogger(r.logger))
	cache := NewDirectiveCache()

	var (
		mu       sync.Mutex
		multiErr MultiError
	)

	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(r.workers)

	for _, item := range items {
		if !Renderable(item) {
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			renderErr := r.renderFile(ctx, resolver, cache, item, data)
			if renderErr == nil {
				return nil
			}

			switch failMode {
			case FailFast:
				return &GenerationError{Path: item.FilePath(), Message: "render failed", Err: renderErr}
			case BestEffort:
				r.logger.Warn("skipping template", "template", item.FilePath(), "error", renderErr)
			}

			mu.Lock()
			multiErr.Add(item.FilePath(), "render failed", renderErr)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if multiErr.HasErrors() && failMode != BestEffort {
		multiErr.sortByPath()
		return &multiErr
	}

	return nil
}

// Renderable reports whether item is a page: a view or component template
// that is neither an import file nor under an underscore-prefixed name.
func Renderable(item *project.FileItem) bool {
	switch item.Kind() {
	case project.KindView, project.KindComponent:
	default:
		return false
	}

	for _, segment := range strings.Split(strings.TrimPrefix(item.FilePath(), "/"), "/") {
		if strings.HasPrefix(segment, "_") {
			return false
		}
	}
	return true
}

// compose merges the directives of item's imports with its own inline
// directives and returns the remaining template body.
func (r *Renderer) compose(resolver *imports.Resolver, cache *DirectiveCache, item project.Item) (directive.Set, []byte, error) {
	importItems, err := resolver.Resolve(item)
	if err != nil {
		return directive.Set{}, nil, fmt.Errorf("failed to resolve imports: %w", err)
	}

	groups := make([][]directive.Directive, 0, len(importItems)+1)
	for _, imp := range importItems {
		directives, err := cache.Get(imp)
		if err != nil {
			return directive.Set{}, nil, err
		}
		groups = append(groups, directives)
	}

	content, err := project.ReadAll(item)
	if err != nil {
		return directive.Set{}, nil, fmt.Errorf("failed to read template: %w", err)
	}

	inline, body, err := directive.Split(content, directive.SourceFor(item))
	if err != nil {
		return directive.Set{}, nil, err
	}

	return directive.Merge(append(groups, inline)...), body, nil
}

func (r *Renderer) renderFile(ctx Context, resolver *imports.Resolver, cache *DirectiveCache, item *project.FileItem, data any) error {
	start := time.Now()
	templatePath := item.FilePath()
	r.logger.Debug("rendering template", "path", templatePath)

	set, body, err := r.compose(resolver, cache, item)
	if err != nil {
		return err
	}

	funcs, err := r.registry.Bind(set.Injections)
	if err != nil {
		return err
	}
	if _, injected := funcs["usings"]; !injected {
		usings := set.Usings
		funcs["usings"] = func() []string { return usings }
	}
	if _, injected := funcs["packagePath"]; !injected {
		packagePath := ctx.PackagePath
		funcs["packagePath"] = func() string { return packagePath }
	}

	tmpl := template.New(templatePath).Funcs(funcs)
	if _, err := render.NewPartialLoader(ctx.Project).Load(tmpl, set.Partials); err != nil {
		return err
	}
	if _, err := tmpl.Parse(string(body)); err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}
	content := buf.Bytes()

	outputPath := r.resolveOutputPath(ctx, templatePath)

	if r.postprocessors.HasProcessors() {
		processed, err := r.postprocessors.Process(postprocess.Output{Path: outputPath, Usings: set.Usings}, content)
		if err != nil {
			r.logger.Warn("post-processing failed", "path", outputPath, "error", err)
		} else {
			content = processed
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}

	r.logger.Info("rendered template",
		"template", templatePath,
		"output", outputPath,
		"injections", len(set.Injections),
		"duration", time.Since(start),
	)
	return nil
}

func (r *Renderer) resolveOutputPath(ctx Context, templatePath string) string {
	name := path.Base(templatePath)
	for _, ext := range []string{project.ComponentExt, project.TemplateExt, ".tpl"} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}

	dir := strings.TrimPrefix(path.Dir(templatePath), "/")
	return filepath.Join(ctx.OutputRoot, filepath.FromSlash(dir), name)
}
