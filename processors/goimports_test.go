package processors

import (
	"strings"
	"testing"

	"github.com/cpcf/lineage/postprocess"
)

func TestGoImportsProcessContent(t *testing.T) {
	processor := NewGoImports()

	tests := []struct {
		name    string
		path    string
		usings  []string
		input   string
		want    []string
		wantNot []string
	}{
		{
			name:    "removes unused imports",
			path:    "main.go",
			input:   "package main\n\nimport (\n\t\"fmt\"\n\t\"context\"\n)\n\nfunc main() {\n\t_ = context.Background()\n}\n",
			want:    []string{`"context"`},
			wantNot: []string{`"fmt"`},
		},
		{
			name:    "declared using resolves ambiguous package",
			path:    "view.go",
			usings:  []string{"html/template"},
			input:   "package view\n\nvar T = template.New(\"x\")\n",
			want:    []string{`"html/template"`},
			wantNot: []string{`"text/template"`},
		},
		{
			name:    "unused usings are dropped",
			path:    "model.go",
			usings:  []string{"strings", "errors"},
			input:   "package model\n\nvar Name = strings.ToUpper(\"x\")\n",
			want:    []string{`"strings"`},
			wantNot: []string{`"errors"`},
		},
		{
			name:   "non-go file unchanged",
			path:   "README.md",
			usings: []string{"fmt"},
			input:  "some text",
			want:   []string{"some text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := processor.ProcessContent(postprocess.Output{Path: tt.path, Usings: tt.usings}, []byte(tt.input))
			if err != nil {
				t.Fatalf("ProcessContent failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(result), want) {
					t.Errorf("Expected output to contain %s, got:\n%s", want, result)
				}
			}
			for _, unwanted := range tt.wantNot {
				if strings.Contains(string(result), unwanted) {
					t.Errorf("Expected output not to contain %s, got:\n%s", unwanted, result)
				}
			}
		})
	}
}

func TestGoImportsInvalidSource(t *testing.T) {
	_, err := NewGoImports().ProcessContent(postprocess.Output{Path: "bad.go"}, []byte("package main\nfunc {"))
	if err == nil {
		t.Error("Expected error for invalid Go source")
	}
}
