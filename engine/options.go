package engine

import (
	"log/slog"
	"runtime"

	"github.com/cpcf/lineage/render"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOutputRoot is used when the render Context carries no output root.
func WithOutputRoot(root string) Option {
	return func(e *Engine) {
		e.outputRoot = root
	}
}

func WithFailureMode(mode FailureMode) Option {
	return func(e *Engine) {
		e.failMode = mode
	}
}

// WithWorkers bounds concurrent page rendering. Values below one mean one
// worker per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		e.workers = n
	}
}

// WithRegistry replaces the built-in helper registry.
func WithRegistry(registry *render.FunctionRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}
