package ghaml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianc/ghaml/pkg/ghaml"
)

func TestCompile(t *testing.T) {
	res, err := ghaml.Compile(strings.NewReader("%p#intro Hi"), ghaml.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Static || res.HTML != `<p id="intro">Hi</p>` {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCompileError(t *testing.T) {
	_, err := ghaml.Compile(strings.NewReader("%div\n  %p\n    (x)"), ghaml.Options{})
	if !errors.Is(err, ghaml.ErrUnknownNode) {
		t.Fatalf("expected unknown node, got %v", err)
	}
	var e *ghaml.Error
	if !errors.As(err, &e) || e.Line != 3 {
		t.Fatalf("expected an error on line 3, got %v", err)
	}
}

func TestCompileFile(t *testing.T) {
	code, err := ghaml.CompileFile("views/nav.haml", []byte("%nav= data.Title"), ghaml.Options{Package: "views"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(code), "func Nav(w io.Writer, data any) error {") {
		t.Fatalf("unexpected code:\n%s", code)
	}
}
