// Package postprocess applies transformations to rendered output before it
// is written.
//
// Processors see the output path and the @using list merged for the
// template that produced the content:
//
//	eng := engine.New()
//	eng.AddPostProcessor(processors.NewGoImports())
package postprocess

import "fmt"

// Output describes the file a piece of content is rendered to.
type Output struct {
	Path string
	// Usings is the merged @using list of the source template, lowest
	// precedence first.
	Usings []string
}

// Processor transforms rendered content. Implementations must be safe for
// concurrent use; the engine renders templates in parallel.
type Processor interface {
	// ProcessContent returns content unchanged when it does not apply to out.
	ProcessContent(out Output, content []byte) ([]byte, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(out Output, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(out Output, content []byte) ([]byte, error) {
	return f(out, content)
}

// Chain runs processors in the order they were added.
type Chain struct {
	processors []Processor
}

func NewChain() *Chain {
	return &Chain{
		processors: make([]Processor, 0),
	}
}

func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

func (c *Chain) AddFunc(fn func(out Output, content []byte) ([]byte, error)) {
	c.processors = append(c.processors, ProcessorFunc(fn))
}

// Process stops at the first failing processor.
func (c *Chain) Process(out Output, content []byte) ([]byte, error) {
	result := content
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(out, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, out.Path, err)
		}
		result = processed
	}
	return result, nil
}

func (c *Chain) HasProcessors() bool {
	return len(c.processors) > 0
}

func (c *Chain) Len() int {
	return len(c.processors)
}
