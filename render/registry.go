// Package render holds the helper functions that templates can inject and
// the loader for partial templates.
package render

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"text/template"
)

// FunctionRegistry holds the helpers available to @inject. Only injected
// helpers are visible to a template, under the name the directive gives them.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]any
	metadata  map[string]FunctionMetadata
}

type FunctionMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Signature   string   `json:"signature"`
	Examples    []string `json:"examples,omitempty"`
}

type FunctionOption func(*FunctionMetadata)

func WithDescription(description string) FunctionOption {
	return func(meta *FunctionMetadata) {
		meta.Description = description
	}
}

func WithCategory(category string) FunctionOption {
	return func(meta *FunctionMetadata) {
		meta.Category = category
	}
}

func WithExamples(examples ...string) FunctionOption {
	return func(meta *FunctionMetadata) {
		meta.Examples = examples
	}
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]any),
		metadata:  make(map[string]FunctionMetadata),
	}
}

// Register adds or replaces the helper called name.
func (fr *FunctionRegistry) Register(name string, fn any, opts ...FunctionOption) error {
	if name == "" {
		return errors.New("helper name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("helper %s: function cannot be nil", name)
	}

	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("helper %s: expected function, got %T", name, fn)
	}
	if err := checkReturns(fnType); err != nil {
		return fmt.Errorf("helper %s: %w", name, err)
	}

	meta := FunctionMetadata{
		Name:      name,
		Category:  "general",
		Signature: fnType.String(),
	}
	for _, opt := range opts {
		opt(&meta)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	fr.functions[name] = fn
	fr.metadata[name] = meta
	return nil
}

// checkReturns mirrors text/template's rule: one result, or a result and an error.
func checkReturns(fnType reflect.Type) error {
	errorType := reflect.TypeOf((*error)(nil)).Elem()
	switch {
	case fnType.NumOut() == 1:
		return nil
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
		return nil
	default:
		return fmt.Errorf("template functions return one value or a value and an error, got %s", fnType)
	}
}

func (fr *FunctionRegistry) Unregister(name string) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	delete(fr.functions, name)
	delete(fr.metadata, name)
}

func (fr *FunctionRegistry) Get(name string) (any, bool) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	fn, exists := fr.functions[name]
	return fn, exists
}

func (fr *FunctionRegistry) GetMetadata(name string) (FunctionMetadata, bool) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	meta, exists := fr.metadata[name]
	return meta, exists
}

func (fr *FunctionRegistry) List() []string {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	names := make([]string, 0, len(fr.functions))
	for name := range fr.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (fr *FunctionRegistry) ListByCategory() map[string][]string {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	categories := make(map[string][]string)
	for name, meta := range fr.metadata {
		categories[meta.Category] = append(categories[meta.Category], name)
	}
	for category := range categories {
		sort.Strings(categories[category])
	}
	return categories
}

func (fr *FunctionRegistry) Count() int {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	return len(fr.functions)
}

// Bind builds a func map from name -> helper bindings, as produced by
// merging @inject directives. Every unknown helper is reported.
func (fr *FunctionRegistry) Bind(bindings map[string]string) (template.FuncMap, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	funcs := make(template.FuncMap, len(bindings))
	var errs []error
	for _, name := range names {
		helper := bindings[name]
		fn, exists := fr.functions[helper]
		if !exists {
			errs = append(errs, &UnknownHelperError{Name: name, Helper: helper})
			continue
		}
		funcs[name] = fn
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return funcs, nil
}

type UnknownHelperError struct {
	Name   string
	Helper string
}

func (e *UnknownHelperError) Error() string {
	return fmt.Sprintf("@inject %s: unknown helper %q", e.Name, e.Helper)
}
