// Package testing provides in-memory project trees and fakes for exercising
// import resolution and rendering without touching disk.
package testing

import (
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/btree"
)

// MemoryFS is an fs.FS whose entries are kept in path order. Individual
// paths can be made to fail so that walkers see I/O errors.
type MemoryFS struct {
	mu       sync.RWMutex
	files    *btree.Map[string, *MemoryFile]
	failures map[string]error
}

type MemoryFile struct {
	name    string
	content []byte
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func NewMemoryFS() *MemoryFS {
	mfs := &MemoryFS{
		files:    btree.NewMap[string, *MemoryFile](0),
		failures: make(map[string]error),
	}
	mfs.files.Set(".", &MemoryFile{name: ".", mode: 0o755 | fs.ModeDir, modTime: time.Now(), isDir: true})
	return mfs
}

// WriteFile stores data at name, creating parent directories. A leading
// slash is accepted and ignored.
func (mfs *MemoryFS) WriteFile(name string, data []byte) {
	name = cleanName(name)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.files.Set(name, &MemoryFile{
		name:    name,
		content: append([]byte(nil), data...),
		mode:    0o644,
		modTime: time.Now(),
	})
	mfs.ensureDir(path.Dir(name))
}

// Remove deletes a file. Directories are left in place.
func (mfs *MemoryFS) Remove(name string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files.Delete(cleanName(name))
}

// FailOn makes every Open or Stat of name return err.
func (mfs *MemoryFS) FailOn(name string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.failures[cleanName(name)] = err
}

func (mfs *MemoryFS) ensureDir(dir string) {
	if dir == "." {
		return
	}

	if _, exists := mfs.files.Get(dir); !exists {
		mfs.files.Set(dir, &MemoryFile{
			name:    dir,
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		})
		mfs.ensureDir(path.Dir(dir))
	}
}

func (mfs *MemoryFS) lookup(op, name string) (*MemoryFile, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if err, failing := mfs.failures[name]; failing {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}
	file, exists := mfs.files.Get(name)
	if !exists {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return file, nil
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	file, err := mfs.lookup("open", name)
	if err != nil {
		return nil, err
	}
	return &memoryFileHandle{file: file, mfs: mfs, path: name}, nil
}

func (mfs *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	file, err := mfs.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (mfs *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	dir, err := mfs.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !dir.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	prefix := name + "/"
	if name == "." {
		prefix = ""
	}

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	var entries []fs.DirEntry
	mfs.files.Ascend(prefix, func(key string, file *MemoryFile) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		if key != "." && !strings.Contains(key[len(prefix):], "/") {
			entries = append(entries, &memoryDirEntry{file})
		}
		return true
	})

	return entries, nil
}

func cleanName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" {
		return "."
	}
	return name
}

type memoryFileHandle struct {
	file   *MemoryFile
	mfs    *MemoryFS
	path   string
	offset int
}

func (f *memoryFileHandle) Read(b []byte) (int, error) {
	if f.file.isDir {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: fs.ErrInvalid}
	}

	if f.offset >= len(f.file.content) {
		return 0, io.EOF
	}

	n := copy(b, f.file.content[f.offset:])
	f.offset += n
	return n, nil
}

func (f *memoryFileHandle) Stat() (fs.FileInfo, error) {
	return f.file, nil
}

func (f *memoryFileHandle) Close() error {
	return nil
}

func (f *memoryFileHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := f.mfs.ReadDir(f.path)
	if err != nil {
		return nil, err
	}
	entries = entries[min(f.offset, len(entries)):]

	if n <= 0 {
		f.offset += len(entries)
		return entries, nil
	}
	if len(entries) == 0 {
		return nil, io.EOF
	}
	n = min(n, len(entries))
	f.offset += n
	return entries[:n], nil
}

type memoryDirEntry struct {
	file *MemoryFile
}

func (e *memoryDirEntry) Name() string               { return path.Base(e.file.name) }
func (e *memoryDirEntry) IsDir() bool                { return e.file.isDir }
func (e *memoryDirEntry) Type() fs.FileMode          { return e.file.mode.Type() }
func (e *memoryDirEntry) Info() (fs.FileInfo, error) { return e.file, nil }

func (f *MemoryFile) Name() string       { return path.Base(f.name) }
func (f *MemoryFile) Size() int64        { return int64(len(f.content)) }
func (f *MemoryFile) Mode() fs.FileMode  { return f.mode }
func (f *MemoryFile) ModTime() time.Time { return f.modTime }
func (f *MemoryFile) IsDir() bool        { return f.isDir }
func (f *MemoryFile) Sys() any           { return nil }
