// Package processors provides built-in post-processors.
package processors

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/cpcf/lineage/postprocess"
)

// GoImports formats rendered Go files. Packages declared with @using are
// added first, so goimports keeps them where it would otherwise guess
// (html/template over text/template, say); unused ones are dropped.
type GoImports struct {
	TabWidth  int
	TabIndent bool
	AllErrors bool
	Comments  bool
}

func NewGoImports() *GoImports {
	return &GoImports{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
	}
}

func (g *GoImports) ProcessContent(out postprocess.Output, content []byte) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(out.Path), ".go") {
		return content, nil
	}

	src := content
	if len(out.Usings) > 0 {
		if withUsings, err := addImports(out.Path, content, out.Usings); err == nil {
			src = withUsings
		}
	}

	options := &imports.Options{
		AllErrors: g.AllErrors,
		Comments:  g.Comments,
		TabIndent: g.TabIndent,
		TabWidth:  g.TabWidth,
	}

	formatted, err := imports.Process(out.Path, src, options)
	if err != nil {
		formatted, fmtErr := format.Source(content)
		if fmtErr != nil {
			return nil, fmt.Errorf("failed to format Go code with goimports (%w) and gofmt (%w)", err, fmtErr)
		}
		return formatted, nil
	}

	return formatted, nil
}

func addImports(filename string, content []byte, usings []string) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	for _, using := range usings {
		astutil.AddImport(fset, file, using)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
