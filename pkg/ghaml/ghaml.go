// Package ghaml compiles indentation-based markup templates into HTML or into
// Go render functions.
package ghaml

import (
	"io"

	"github.com/kilianc/ghaml/internal/ghaml/compile"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

type (
	Options = compile.Options
	Result  = compile.Result
	// Error is the error every failed compile returns.
	Error = source.Error
)

var (
	ErrSyntax      = source.ErrSyntax
	ErrUnknownNode = source.ErrUnknownNode
	ErrIndentation = source.ErrIndentation
)

func DefaultOptions() Options {
	return compile.DefaultOptions()
}

// Compile compiles the template read from r. Static templates come back as
// HTML, everything else as a Go file declaring the render function.
func Compile(r io.Reader, opts Options) (*Result, error) {
	return compile.Compile(r, opts)
}

// CompileFile compiles a .haml source into a gofmt'd Go source file.
//
// The result is suitable for writing to "<path>.go" (i.e. "*.haml.go") and checking in.
func CompileFile(path string, src []byte, opts Options) ([]byte, error) {
	return compile.CompileFile(path, src, opts)
}
