// Package project models template content items and the project tree they live in.
package project

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path"
)

// Item is a unit of template content. The variant set is closed:
// every Item is either a *FileItem or a *VirtualItem.
type Item interface {
	// BasePath is the logical root the item is relative to, "" for virtual items.
	BasePath() string
	// FilePath is the rooted logical path of the item ("/a/b/page.tmpl"), "" for virtual items.
	FilePath() string
	// PhysicalPath is the on-disk path, "" when the item has none.
	PhysicalPath() string
	Kind() Kind
	Exists() bool
	// Open returns a fresh reader over the item content.
	Open() (io.ReadCloser, error)

	sealed()
}

// FileItem is an item backed by a file in a project file system.
type FileItem struct {
	fsys         fs.FS
	basePath     string
	filePath     string
	physicalPath string
	kind         Kind
}

func (f *FileItem) BasePath() string     { return f.basePath }
func (f *FileItem) FilePath() string     { return f.filePath }
func (f *FileItem) PhysicalPath() string { return f.physicalPath }
func (f *FileItem) Kind() Kind           { return f.kind }

// Exists stats the backing file on every call.
func (f *FileItem) Exists() bool {
	ok, err := f.stat()
	return err == nil && ok
}

func (f *FileItem) stat() (bool, error) {
	info, err := fs.Stat(f.fsys, fsName(f.filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FileItem) Open() (io.ReadCloser, error) {
	return f.fsys.Open(fsName(f.filePath))
}

// Name returns the file name of the item.
func (f *FileItem) Name() string {
	return path.Base(f.filePath)
}

func (*FileItem) sealed() {}

// VirtualItem is an in-memory item with no location in the project tree.
type VirtualItem struct {
	name    string
	kind    Kind
	content []byte
}

// NewVirtualItem copies content; the item never changes afterwards.
func NewVirtualItem(name string, kind Kind, content []byte) *VirtualItem {
	return &VirtualItem{
		name:    name,
		kind:    kind,
		content: bytes.Clone(content),
	}
}

func (v *VirtualItem) BasePath() string     { return "" }
func (v *VirtualItem) FilePath() string     { return "" }
func (v *VirtualItem) PhysicalPath() string { return "" }
func (v *VirtualItem) Kind() Kind           { return v.kind }
func (v *VirtualItem) Exists() bool         { return true }

// Open returns a read-only view over the shared backing bytes.
func (v *VirtualItem) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(v.content)), nil
}

// Name is a display name; it is not a path.
func (v *VirtualItem) Name() string { return v.name }

// Len returns the content length in bytes.
func (v *VirtualItem) Len() int { return len(v.content) }

func (*VirtualItem) sealed() {}

// IsNil reports whether item is a nil interface or a typed nil variant.
func IsNil(item Item) bool {
	switch v := item.(type) {
	case nil:
		return true
	case *FileItem:
		return v == nil
	case *VirtualItem:
		return v == nil
	default:
		return false
	}
}

// DisplayName returns the file path for file items and the name for virtual ones.
func DisplayName(item Item) string {
	if IsNil(item) {
		return "<nil>"
	}
	switch v := item.(type) {
	case *FileItem:
		return v.filePath
	case *VirtualItem:
		return "(" + v.name + ")"
	default:
		return "<nil>"
	}
}

// ReadAll reads the full content of item.
func ReadAll(item Item) ([]byte, error) {
	rc, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
