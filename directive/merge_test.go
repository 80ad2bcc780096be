package directive

import (
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src Source, text string) []Directive {
	t.Helper()
	directives, err := Parse(strings.NewReader(text), src)
	if err != nil {
		t.Fatal(err)
	}
	return directives
}

func TestMergePrecedence(t *testing.T) {
	defaults := mustParse(t, Source{Name: "(defaults)", Dir: "/"},
		"@using fmt\n@inject upper upper\n@inject lower lower\n@partials _partials/*.tmpl")
	root := mustParse(t, Source{Name: "/_imports.tmpl", Dir: "/"},
		"@using strings\n@inject upper shout\n@partials _partials/*.tmpl")
	nearest := mustParse(t, Source{Name: "/a/b/_imports.tmpl", Dir: "/a/b"},
		"@using fmt\n@inject upper whisper\n@partials shared/*.tmpl\n@partials /common/**/*.tmpl")
	inline := mustParse(t, Source{Name: "/a/b/page.tmpl", Dir: "/a/b"},
		"@inject lower title")

	set := Merge(defaults, root, nearest, inline)

	if want := []string{"fmt", "strings"}; !reflect.DeepEqual(set.Usings, want) {
		t.Errorf("Usings: expected %v, got %v", want, set.Usings)
	}

	wantInjections := map[string]string{"upper": "whisper", "lower": "title"}
	if !reflect.DeepEqual(set.Injections, wantInjections) {
		t.Errorf("Injections: expected %v, got %v", wantInjections, set.Injections)
	}
	if set.Origins["upper"] != "/a/b/_imports.tmpl" || set.Origins["lower"] != "/a/b/page.tmpl" {
		t.Errorf("Unexpected origins %v", set.Origins)
	}

	wantPartials := []string{"/_partials/*.tmpl", "/a/b/shared/*.tmpl", "/common/**/*.tmpl"}
	if !reflect.DeepEqual(set.Partials, wantPartials) {
		t.Errorf("Partials: expected %v, got %v", wantPartials, set.Partials)
	}

	if want := []string{"lower", "upper"}; !reflect.DeepEqual(set.InjectedNames(), want) {
		t.Errorf("InjectedNames: expected %v, got %v", want, set.InjectedNames())
	}
}

func TestMergeOrderMatters(t *testing.T) {
	a := mustParse(t, Source{Name: "a"}, "@inject f one")
	b := mustParse(t, Source{Name: "b"}, "@inject f two")

	if got := Merge(a, b).Injections["f"]; got != "two" {
		t.Errorf("Expected later group to win, got %s", got)
	}
	if got := Merge(b, a).Injections["f"]; got != "one" {
		t.Errorf("Expected later group to win, got %s", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	set := Merge()
	if set.Injections == nil || len(set.Injections) != 0 || len(set.Usings) != 0 || len(set.Partials) != 0 {
		t.Errorf("Expected empty set, got %+v", set)
	}
}
