package render

import (
	"fmt"
	"strings"
)

// NewDefaultRegistry returns a registry holding the built-in helpers. The
// default directives inject most of them under their own names.
func NewDefaultRegistry() *FunctionRegistry {
	fr := NewFunctionRegistry()
	if err := fr.registerDefaults(); err != nil {
		panic(err)
	}
	return fr
}

func (fr *FunctionRegistry) registerDefaults() error {
	helpers := []struct {
		name     string
		fn       any
		category string
		desc     string
		example  string
	}{
		{"lower", strings.ToLower, "case", "Lower-cases a string", `{{ lower "Hello" }} // hello`},
		{"upper", strings.ToUpper, "case", "Upper-cases a string", `{{ upper "Hello" }} // HELLO`},
		{"title", toTitle, "case", "Title-cases each word", `{{ title "hello world" }} // Hello World`},
		{"camel", toCamelCase, "case", "Converts to camelCase", `{{ camel "user_name" }} // userName`},
		{"pascal", toPascalCase, "case", "Converts to PascalCase", `{{ pascal "user_name" }} // UserName`},
		{"snake", toSnakeCase, "case", "Converts to snake_case", `{{ snake "UserName" }} // user_name`},
		{"kebab", toKebabCase, "case", "Converts to kebab-case", `{{ kebab "UserName" }} // user-name`},
		{"join", strings.Join, "strings", "Joins a slice with a separator", `{{ join .Names ", " }}`},
		{"split", strings.Split, "strings", "Splits a string on a separator", `{{ split "a,b" "," }}`},
		{"trim", strings.TrimSpace, "strings", "Trims surrounding whitespace", `{{ trim "  x " }} // x`},
		{"replace", strings.ReplaceAll, "strings", "Replaces every occurrence", `{{ replace "a-b" "-" "_" }} // a_b`},
		{"quote", quote, "strings", "Quotes as a Go string literal", `{{ quote "hi" }} // "hi"`},
		{"plural", pluralize, "strings", "Naive English plural", `{{ plural "entity" }} // entities`},
		{"uuid", generateUUID, "generate", "Random UUID v4", `{{ uuid }}`},
	}

	for _, h := range helpers {
		err := fr.Register(h.name, h.fn,
			WithCategory(h.category),
			WithDescription(h.desc),
			WithExamples(h.example),
		)
		if err != nil {
			return fmt.Errorf("failed to register built-in helper: %w", err)
		}
	}
	return nil
}
