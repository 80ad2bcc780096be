// Package directive parses the directive lines of import files and pages and
// merges them by precedence.
//
// A directive is a line whose first non-blank character is '@':
//
//	@using strings
//	@inject upper upper
//	@partials _partials/*.tmpl
package directive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cpcf/lineage/project"
)

type Keyword string

const (
	Using    Keyword = "using"
	Inject   Keyword = "inject"
	Partials Keyword = "partials"
)

var arity = map[Keyword]int{
	Using:    1,
	Inject:   2,
	Partials: 1,
}

// Source identifies where a directive came from. Dir is the rooted
// directory that relative partial patterns are resolved against.
type Source struct {
	Name string
	Dir  string
}

// SourceFor describes item as a directive source.
func SourceFor(item project.Item) Source {
	if fp := item.FilePath(); fp != "" {
		return Source{Name: fp, Dir: path.Dir(fp)}
	}
	return Source{Name: project.DisplayName(item), Dir: "/"}
}

type Directive struct {
	Keyword Keyword
	Args    []string
	Source  Source
	Line    int
}

func (d Directive) String() string {
	return "@" + string(d.Keyword) + " " + strings.Join(d.Args, " ")
}

type SyntaxError struct {
	Source string
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
}

// Parse reads every directive in r. Lines that are not directives are ignored
// whatever their length.
func Parse(r io.Reader, src Source) ([]Directive, error) {
	reader := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))

	var directives []Directive
	for line := 1; ; line++ {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read directives from %s: %w", src.Name, err)
		}

		if text := strings.TrimSpace(raw); strings.HasPrefix(text, "@") {
			d, parseErr := parseLine(text, src, line)
			if parseErr != nil {
				return nil, parseErr
			}
			directives = append(directives, d)
		}

		if err == io.EOF {
			return directives, nil
		}
	}
}

// ParseItem opens item and parses its directives.
func ParseItem(item project.Item) ([]Directive, error) {
	rc, err := item.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", project.DisplayName(item), err)
	}
	defer rc.Close()

	return Parse(rc, SourceFor(item))
}

// Split separates the directive lines at the top of a page from its body.
// Blank lines within the leading block are dropped; the body starts at the
// first line that is not a directive.
func Split(content []byte, src Source) ([]Directive, []byte, error) {
	content, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", src.Name, err)
	}

	var directives []Directive
	rest := content
	for line := 1; len(rest) > 0; line++ {
		end := bytes.IndexByte(rest, '\n')
		next := len(rest)
		if end >= 0 {
			next = end + 1
		} else {
			end = len(rest)
		}

		text := strings.TrimSpace(string(rest[:end]))
		if text != "" && !strings.HasPrefix(text, "@") {
			break
		}
		if text != "" {
			d, err := parseLine(text, src, line)
			if err != nil {
				return nil, nil, err
			}
			directives = append(directives, d)
		}
		rest = rest[next:]
	}

	return directives, rest, nil
}

func parseLine(text string, src Source, line int) (Directive, error) {
	fields := strings.Fields(strings.TrimPrefix(text, "@"))
	if len(fields) == 0 {
		return Directive{}, &SyntaxError{Source: src.Name, Line: line, Msg: "empty directive"}
	}

	keyword := Keyword(fields[0])
	want, known := arity[keyword]
	if !known {
		return Directive{}, &SyntaxError{Source: src.Name, Line: line, Msg: fmt.Sprintf("unknown directive @%s", fields[0])}
	}
	if got := len(fields) - 1; got != want {
		return Directive{}, &SyntaxError{
			Source: src.Name,
			Line:   line,
			Msg:    fmt.Sprintf("@%s takes %d argument(s), got %d", keyword, want, got),
		}
	}

	return Directive{
		Keyword: keyword,
		Args:    fields[1:],
		Source:  src,
		Line:    line,
	}, nil
}
