package project

import (
	"path"
	"strings"
)

// Kind classifies a template item.
type Kind string

const (
	KindUnknown         Kind = ""
	KindView            Kind = "view"
	KindComponent       Kind = "component"
	KindComponentImport Kind = "component-import"
)

const (
	TemplateExt  = ".tmpl"
	ComponentExt = ".ctmpl"

	// ComponentImportsFileName is the per-directory import file for components.
	// Components never inherit directives; the name is only reserved.
	ComponentImportsFileName = "_imports" + ComponentExt
)

// IsComponent reports whether kind belongs to the component family.
func IsComponent(kind Kind) bool {
	return kind == KindComponent || kind == KindComponentImport
}

// KindFromPath derives the kind from a file name.
func KindFromPath(filePath string) Kind {
	base := path.Base(filePath)
	switch {
	case strings.EqualFold(base, ComponentImportsFileName):
		return KindComponentImport
	case strings.HasSuffix(base, ComponentExt):
		return KindComponent
	case strings.HasSuffix(base, TemplateExt), strings.HasSuffix(base, ".tpl"):
		return KindView
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}
