// Package compile drives a ghaml compile: it scans template source into lines,
// builds the tree and emits either static markup or a Go render function.
package compile

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kilianc/ghaml/internal/ghaml/ast"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Options configures a compile.
type Options struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int
	// Package is the package clause of generated files.
	Package string
	// Func names the generated render function. CompileFile derives it from
	// the file name when empty.
	Func string
	// DataType is the type of the render function's data parameter.
	DataType string
	// Imports are extra import paths for generated files, for packages that
	// expressions or DataType refer to. Unused ones are dropped.
	Imports []string
	// StrictTags rejects element names that are not known HTML tags.
	StrictTags bool
	// Filename is the path the generated file is written to. It lets
	// goimports resolve packages relative to it and may be empty.
	Filename string
}

func DefaultOptions() Options {
	return Options{
		IndentWidth: source.DefaultIndentWidth,
		Package:     "views",
		Func:        "Render",
		DataType:    "any",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.IndentWidth <= 0 {
		o.IndentWidth = d.IndentWidth
	}
	if o.Package == "" {
		o.Package = d.Package
	}
	if o.Func == "" {
		o.Func = d.Func
	}
	if o.DataType == "" {
		o.DataType = d.DataType
	}
	return o
}

func (o Options) validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("invalid package name %q", o.Package)
	}
	if !token.IsIdentifier(o.Func) {
		return fmt.Errorf("invalid function name %q", o.Func)
	}
	return nil
}

func (o Options) templateName() string {
	if o.Filename == "" {
		return o.Func
	}
	return strings.TrimSuffix(filepath.Base(o.Filename), ".go")
}

// Compile compiles the template read from r.
func Compile(r io.Reader, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	list := ast.DefaultNodeList()
	list.StrictTags = opts.StrictTags

	doc, err := Parse(source.NewScanner(r, opts.IndentWidth), list)
	if err != nil {
		return nil, err
	}
	return Emit(doc, opts)
}

// CompileString compiles src.
func CompileString(src string, opts Options) (*Result, error) {
	return Compile(strings.NewReader(src), opts)
}

// CompileFile compiles a .haml source into a gofmt'd Go file. Static templates
// become a constant plus a render function writing it, so callers always get
// the same function signature.
func CompileFile(path string, src []byte, opts Options) ([]byte, error) {
	if opts.Func == "" {
		opts.Func = FuncName(path)
	}
	if opts.Filename == "" {
		opts.Filename = path + ".go"
	}
	opts = opts.withDefaults()

	res, err := Compile(bytes.NewReader(src), opts)
	if err != nil {
		return nil, err
	}
	if !res.Static {
		return res.Code, nil
	}
	return goFile(opts, staticFunc(opts, res.HTML))
}

// FuncName derives an exported function name from a template path:
// "views/user_card.haml" becomes "UserCard".
func FuncName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	var b strings.Builder
	upper := true
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "Render" + name
	}
	return name
}
