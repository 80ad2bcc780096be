package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var ErrInvalidPath = errors.New("project: invalid path")

// FileSystem exposes a template tree stored in an fs.FS using rooted,
// slash-separated logical paths.
type FileSystem struct {
	fsys         fs.FS
	basePath     string
	physicalRoot string
}

type Option func(*FileSystem)

// WithBasePath restricts hierarchy walks to items under base.
func WithBasePath(base string) Option {
	return func(p *FileSystem) {
		p.basePath = NormalizePath(base)
	}
}

// WithPhysicalRoot sets the directory the fs.FS is rooted at on disk.
func WithPhysicalRoot(root string) Option {
	return func(p *FileSystem) {
		p.physicalRoot = root
	}
}

func NewFileSystem(fsys fs.FS, opts ...Option) *FileSystem {
	p := &FileSystem{
		fsys:     fsys,
		basePath: "/",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDirFileSystem opens the directory tree rooted at root.
func NewDirFileSystem(root string, opts ...Option) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: project root %s is not a directory", ErrInvalidPath, abs)
	}

	opts = append([]Option{WithPhysicalRoot(abs)}, opts...)
	return NewFileSystem(os.DirFS(abs), opts...), nil
}

func (p *FileSystem) FS() fs.FS        { return p.fsys }
func (p *FileSystem) BasePath() string { return p.basePath }

// PhysicalRoot is the on-disk directory of the tree, "" for in-memory trees.
func (p *FileSystem) PhysicalRoot() string { return p.physicalRoot }

// GetItem returns the item at filePath whether or not it exists.
func (p *FileSystem) GetItem(filePath string) *FileItem {
	filePath = NormalizePath(filePath)

	var physical string
	if p.physicalRoot != "" {
		physical = filepath.Join(p.physicalRoot, filepath.FromSlash(fsName(filePath)))
	}

	return &FileItem{
		fsys:         p.fsys,
		basePath:     p.basePath,
		filePath:     filePath,
		physicalPath: physical,
		kind:         KindFromPath(filePath),
	}
}

// FindHierarchicalItems returns every existing item named fileName in the
// directory of filePath and each of its ancestors up to the base path,
// nearest directory first. When filePath itself is named fileName the walk
// starts at the parent directory.
func (p *FileSystem) FindHierarchicalItems(filePath, fileName string) ([]Item, error) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return nil, fmt.Errorf("%w: file name %q", ErrInvalidPath, fileName)
	}

	filePath = NormalizePath(filePath)
	if !p.contains(filePath) || filePath == p.basePath {
		return nil, nil
	}

	dir := path.Dir(filePath)
	if path.Base(filePath) == fileName {
		if dir == p.basePath {
			return nil, nil
		}
		dir = path.Dir(dir)
	}

	var items []Item
	for {
		item := p.GetItem(path.Join(dir, fileName))
		found, err := item.stat()
		if err != nil {
			return nil, err
		}
		if found {
			items = append(items, item)
		}

		if dir == p.basePath || dir == "/" {
			break
		}
		dir = path.Dir(dir)
	}

	return items, nil
}

func (p *FileSystem) contains(filePath string) bool {
	if p.basePath == "/" {
		return true
	}
	return filePath == p.basePath || strings.HasPrefix(filePath, p.basePath+"/")
}

// EnumerateItems lists every file under dir in lexical order.
func (p *FileSystem) EnumerateItems(dir string) ([]*FileItem, error) {
	var items []*FileItem

	err := fs.WalkDir(p.fsys, fsName(NormalizePath(dir)), func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		items = append(items, p.GetItem(name))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}

	return items, nil
}

// Glob returns the files matching a doublestar pattern, sorted by path.
// Relative patterns are matched from the project root.
func (p *FileSystem) Glob(pattern string) ([]*FileItem, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad glob pattern %q", ErrInvalidPath, pattern)
	}

	matches, err := doublestar.Glob(p.fsys, fsName(NormalizePath(pattern)), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	items := make([]*FileItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, p.GetItem(m))
	}
	return items, nil
}

// NormalizePath converts p to a clean rooted slash path.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Clean("/" + p)
}

func fsName(filePath string) string {
	name := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	if name == "" {
		return "."
	}
	return name
}
