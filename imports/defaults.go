package imports

import (
	"sync"

	"github.com/cpcf/lineage/project"
)

// utf8BOM is the preamble written ahead of the default directive text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const defaultDirectiveText = `
@using fmt
@using strings
@using errors
@inject lower lower
@inject upper upper
@inject title title
@inject camel camel
@inject pascal pascal
@inject snake snake
@inject kebab kebab
@inject join join
@inject quote quote
@inject uuid uuid
@partials _partials/*.tmpl
`

const defaultDirectivesName = "default directives"

var defaultDirectives = sync.OnceValue(func() *project.VirtualItem {
	content := make([]byte, 0, len(utf8BOM)+len(defaultDirectiveText))
	content = append(content, utf8BOM...)
	content = append(content, defaultDirectiveText...)
	return project.NewVirtualItem(defaultDirectivesName, project.KindView, content)
})

// DefaultDirectives returns the process-wide baseline import. It has the
// lowest precedence of every resolved import set.
func DefaultDirectives() *project.VirtualItem {
	return defaultDirectives()
}
