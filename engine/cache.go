package engine

import (
	"sync"

	"github.com/cpcf/lineage/directive"
	"github.com/cpcf/lineage/project"
)

type cacheKey struct {
	path    string
	virtual *project.VirtualItem
}

// DirectiveCache holds parsed import files for the duration of one render,
// so an import shared by many pages is read once.
type DirectiveCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]directive.Directive
}

func NewDirectiveCache() *DirectiveCache {
	return &DirectiveCache{
		entries: make(map[cacheKey][]directive.Directive),
	}
}

func keyFor(item project.Item) cacheKey {
	if v, ok := item.(*project.VirtualItem); ok {
		return cacheKey{virtual: v}
	}
	return cacheKey{path: item.FilePath()}
}

func (c *DirectiveCache) Get(item project.Item) ([]directive.Directive, error) {
	key := keyFor(item)

	c.mu.RLock()
	if directives, exists := c.entries[key]; exists {
		c.mu.RUnlock()
		return directives, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if directives, exists := c.entries[key]; exists {
		return directives, nil
	}

	directives, err := directive.ParseItem(item)
	if err != nil {
		return nil, err
	}

	c.entries[key] = directives
	return directives, nil
}

func (c *DirectiveCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
