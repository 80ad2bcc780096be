package directive

import (
	"path"
	"sort"
	"strings"
)

// Set is the effective result of applying directive groups in order.
type Set struct {
	Usings     []string          `json:"usings"`
	Injections map[string]string `json:"injections"`
	Partials   []string          `json:"partials"`
	// Origins records which source supplied each injection.
	Origins map[string]string `json:"origins"`
}

// Merge applies groups in order. Later groups override earlier ones where a
// directive names the same thing, so callers pass the lowest precedence first.
func Merge(groups ...[]Directive) Set {
	set := Set{
		Injections: make(map[string]string),
		Origins:    make(map[string]string),
	}
	usings := make(map[string]bool)
	partials := make(map[string]bool)

	for _, group := range groups {
		for _, d := range group {
			switch d.Keyword {
			case Using:
				if !usings[d.Args[0]] {
					usings[d.Args[0]] = true
					set.Usings = append(set.Usings, d.Args[0])
				}
			case Inject:
				set.Injections[d.Args[0]] = d.Args[1]
				set.Origins[d.Args[0]] = d.Source.Name
			case Partials:
				pattern := resolvePattern(d.Source.Dir, d.Args[0])
				if !partials[pattern] {
					partials[pattern] = true
					set.Partials = append(set.Partials, pattern)
				}
			}
		}
	}

	return set
}

// InjectedNames returns the injected function names in sorted order.
func (s Set) InjectedNames() []string {
	names := make([]string, 0, len(s.Injections))
	for name := range s.Injections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resolvePattern(dir, pattern string) string {
	if strings.HasPrefix(pattern, "/") {
		return path.Clean(pattern)
	}
	if dir == "" {
		dir = "/"
	}
	return path.Join(dir, pattern)
}
