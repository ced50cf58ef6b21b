package compile

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/kilianc/ghaml/internal/ghaml/ast"
	"github.com/kilianc/ghaml/internal/ghaml/escape"
)

// Result is the output of a compile. Static results carry HTML; dynamic ones
// carry Code, a formatted Go file declaring the render function.
type Result struct {
	Static bool
	HTML   string
	Code   []byte
}

// Emit turns a classified tree into markup when it is static and into a render
// function otherwise.
func Emit(doc *ast.Document, opts Options) (*Result, error) {
	if doc.Static() {
		html, err := doc.ToHTML()
		if err != nil {
			return nil, err
		}
		return &Result{Static: true, HTML: html}, nil
	}

	body, err := Body(doc)
	if err != nil {
		return nil, err
	}
	code, err := goFile(opts, renderFunc(opts, body))
	if err != nil {
		return nil, err
	}
	return &Result{Code: code}, nil
}

// Body returns the statements that render n into the ast.Buffer builder.
func Body(n ast.Node) (string, error) {
	cs := &ast.CodeState{}
	code, err := n.ToCode(cs, false, true)
	if err != nil {
		return "", err
	}
	return code + cs.Close(), nil
}

func renderFunc(opts Options, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s renders the %s template.\n", opts.Func, opts.templateName())
	fmt.Fprintf(&b, "func %s(w io.Writer, data %s) error {\n", opts.Func, opts.DataType)
	fmt.Fprintf(&b, "var %s strings.Builder\n", ast.Buffer)
	b.WriteString(body)
	fmt.Fprintf(&b, "_, err := io.WriteString(w, %s.String())\n", ast.Buffer)
	b.WriteString("return err\n}\n")
	return b.String()
}

func staticFunc(opts Options, html string) string {
	name := opts.Func + "HTML"
	var b strings.Builder
	fmt.Fprintf(&b, "// %s is the markup of the %s template.\n", name, opts.templateName())
	fmt.Fprintf(&b, "const %s = %s\n\n", name, escape.Quote(html))
	fmt.Fprintf(&b, "// %s writes %s to w.\n", opts.Func, name)
	fmt.Fprintf(&b, "func %s(w io.Writer, _ %s) error {\n", opts.Func, opts.DataType)
	fmt.Fprintf(&b, "_, err := io.WriteString(w, %s)\n", name)
	b.WriteString("return err\n}\n")
	return b.String()
}

const header = "// Code generated by ghaml. DO NOT EDIT.\n\n"

// goFile wraps decls into a file of opts.Package and lets goimports prune and
// complete the import list and gofmt the result. io and strings are only used
// at function scope, before and after the template's statements, where no
// template variable is in scope.
func goFile(opts Options, decls string) ([]byte, error) {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	b.WriteString("import (\n")
	fmt.Fprintf(&b, "%s %q\n", ast.FmtPkg, "fmt")
	fmt.Fprintf(&b, "%s %q\n", ast.HTMLPkg, "html")
	seen := map[string]bool{}
	for _, imp := range append([]string{"io", "strings"}, opts.Imports...) {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		fmt.Fprintf(&b, "%q\n", imp)
	}
	b.WriteString(")\n\n")
	b.WriteString(decls)

	src, err := imports.Process(opts.Filename, []byte(b.String()), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}
