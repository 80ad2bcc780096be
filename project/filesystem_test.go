package project_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cpcf/lineage/project"
	lineagetest "github.com/cpcf/lineage/testing"
)

func paths(items []project.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.FilePath())
	}
	return out
}

func TestFindHierarchicalItems(t *testing.T) {
	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("_imports.tmpl", []byte("@using fmt"))
	memFS.WriteFile("a/_imports.tmpl", []byte("@using a"))
	memFS.WriteFile("a/b/c/_imports.tmpl", []byte("@using c"))
	memFS.WriteFile("a/b/c/page.tmpl", []byte("page"))
	memFS.WriteFile("x/page.tmpl", []byte("page"))

	pfs := project.NewFileSystem(memFS)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "nearest first, missing levels skipped",
			path: "/a/b/c/page.tmpl",
			want: []string{"/a/b/c/_imports.tmpl", "/a/_imports.tmpl", "/_imports.tmpl"},
		},
		{
			name: "import file does not import itself",
			path: "/a/b/c/_imports.tmpl",
			want: []string{"/a/_imports.tmpl", "/_imports.tmpl"},
		},
		{
			name: "only root",
			path: "/x/page.tmpl",
			want: []string{"/_imports.tmpl"},
		},
		{
			name: "root import file has no ancestors",
			path: "/_imports.tmpl",
			want: []string{},
		},
		{
			name: "unrooted path is normalized",
			path: "a/page.tmpl",
			want: []string{"/a/_imports.tmpl", "/_imports.tmpl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := pfs.FindHierarchicalItems(tt.path, "_imports.tmpl")
			if err != nil {
				t.Fatalf("FindHierarchicalItems failed: %v", err)
			}
			if got := paths(items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFindHierarchicalItemsDeepTree(t *testing.T) {
	deep := strings.Repeat("d/", 300)
	middle := strings.Repeat("d/", 150)

	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("_imports.tmpl", []byte("@using root"))
	memFS.WriteFile(middle+"_imports.tmpl", []byte("@using middle"))
	memFS.WriteFile(deep+"page.tmpl", []byte("page"))

	items, err := project.NewFileSystem(memFS).FindHierarchicalItems("/"+deep+"page.tmpl", "_imports.tmpl")
	if err != nil {
		t.Fatalf("FindHierarchicalItems failed: %v", err)
	}

	want := []string{"/" + middle + "_imports.tmpl", "/_imports.tmpl"}
	if got := paths(items); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %d items ending at the root, got %v", len(want), got)
	}
}

func TestFindHierarchicalItemsSeesRemovals(t *testing.T) {
	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("_imports.tmpl", []byte("@using root"))
	memFS.WriteFile("a/_imports.tmpl", []byte("@using a"))
	memFS.WriteFile("a/page.tmpl", []byte("page"))
	pfs := project.NewFileSystem(memFS)

	before, err := pfs.FindHierarchicalItems("/a/page.tmpl", "_imports.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	memFS.Remove("a/_imports.tmpl")
	after, err := pfs.FindHierarchicalItems("/a/page.tmpl", "_imports.tmpl")
	if err != nil {
		t.Fatal(err)
	}

	if len(before) != 2 {
		t.Errorf("Expected 2 items before removal, got %v", paths(before))
	}
	if got := paths(after); !reflect.DeepEqual(got, []string{"/_imports.tmpl"}) {
		t.Errorf("Expected removed import to disappear, got %v", got)
	}
}

func TestFindHierarchicalItemsBasePath(t *testing.T) {
	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("_imports.tmpl", nil)
	memFS.WriteFile("views/_imports.tmpl", nil)
	memFS.WriteFile("views/home/_imports.tmpl", nil)

	pfs := project.NewFileSystem(memFS, project.WithBasePath("/views"))

	items, err := pfs.FindHierarchicalItems("/views/home/index.tmpl", "_imports.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/views/home/_imports.tmpl", "/views/_imports.tmpl"}
	if got := paths(items); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	items, err = pfs.FindHierarchicalItems("/other/index.tmpl", "_imports.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items outside base path, got %v", paths(items))
	}
}

func TestFindHierarchicalItemsPropagatesErrors(t *testing.T) {
	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("a/_imports.tmpl", nil)
	memFS.FailOn("a/_imports.tmpl", fs.ErrPermission)

	pfs := project.NewFileSystem(memFS)

	items, err := pfs.FindHierarchicalItems("/a/b/page.tmpl", "_imports.tmpl")
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("Expected permission error, got %v", err)
	}
	if items != nil {
		t.Errorf("Expected no partial result, got %v", paths(items))
	}
}

func TestFindHierarchicalItemsRejectsBadFileName(t *testing.T) {
	pfs := project.NewFileSystem(lineagetest.NewMemoryFS())

	for _, name := range []string{"", "a/_imports.tmpl"} {
		if _, err := pfs.FindHierarchicalItems("/page.tmpl", name); !errors.Is(err, project.ErrInvalidPath) {
			t.Errorf("Expected ErrInvalidPath for %q, got %v", name, err)
		}
	}
}

func TestEnumerateAndGlob(t *testing.T) {
	memFS := lineagetest.NewMemoryFS()
	memFS.WriteFile("views/b.tmpl", nil)
	memFS.WriteFile("views/a.tmpl", nil)
	memFS.WriteFile("views/_partials/row.tmpl", nil)
	memFS.WriteFile("views/deep/er/_partials/cell.tmpl", nil)
	memFS.WriteFile("other/c.tmpl", nil)

	pfs := project.NewFileSystem(memFS)

	items, err := pfs.EnumerateItems("/views")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, item := range items {
		got = append(got, item.FilePath())
	}
	want := []string{
		"/views/_partials/row.tmpl",
		"/views/a.tmpl",
		"/views/b.tmpl",
		"/views/deep/er/_partials/cell.tmpl",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnumerateItems: expected %v, got %v", want, got)
	}

	matches, err := pfs.Glob("/views/**/_partials/*.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	got = got[:0]
	for _, item := range matches {
		got = append(got, item.FilePath())
	}
	want = []string{"/views/_partials/row.tmpl", "/views/deep/er/_partials/cell.tmpl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Glob: expected %v, got %v", want, got)
	}

	if _, err := pfs.Glob("/views/[a"); !errors.Is(err, project.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for bad pattern, got %v", err)
	}
}

func TestDirFileSystemPhysicalPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", "_imports.tmpl"), []byte("@using fmt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pfs, err := project.NewDirFileSystem(root)
	if err != nil {
		t.Fatal(err)
	}

	item := pfs.GetItem("/a/_imports.tmpl")
	if !item.Exists() {
		t.Fatal("Expected item to exist")
	}
	if want := filepath.Join(root, "a", "_imports.tmpl"); item.PhysicalPath() != want {
		t.Errorf("Expected physical path %s, got %s", want, item.PhysicalPath())
	}
	if item.BasePath() != "/" {
		t.Errorf("Expected base path /, got %s", item.BasePath())
	}

	content, err := project.ReadAll(item)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "@using fmt\n" {
		t.Errorf("Unexpected content %q", content)
	}

	if pfs.GetItem("/a/missing.tmpl").Exists() {
		t.Error("Missing file should not exist")
	}

	if _, err := project.NewDirFileSystem(filepath.Join(root, "a", "_imports.tmpl")); !errors.Is(err, project.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for file root, got %v", err)
	}
}
