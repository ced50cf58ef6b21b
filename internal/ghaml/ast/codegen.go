package ast

import (
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/escape"
)

// Names the generated render code refers to from inside template scopes. A
// loop or if variable in a template may shadow any ordinary name, so these
// carry a prefix templates must not use.
const (
	// Buffer is the strings.Builder local every render function appends to.
	Buffer = "ghamlsb"
	// FmtPkg and HTMLPkg are the import names of "fmt" and "html".
	FmtPkg  = "ghamlfmt"
	HTMLPkg = "ghamlhtml"
)

// CodeState tracks whether the emission cursor sits inside an open
// Buffer.WriteString(" literal.
type CodeState struct {
	InString bool
}

// Literal returns code that appends text, opening a literal if none is open.
func (cs *CodeState) Literal(text string) string {
	if text == "" {
		return ""
	}
	esc := escape.GoString(text)
	if cs.InString {
		return esc
	}
	cs.InString = true
	return Buffer + `.WriteString("` + esc
}

// Splice closes an open literal and returns code for the statement stmt.
func (cs *CodeState) Splice(stmt string) string {
	var b strings.Builder
	b.WriteString(cs.Close())
	b.WriteString(stmt)
	b.WriteByte('\n')
	return b.String()
}

// Close terminates an open literal.
func (cs *CodeState) Close() string {
	if !cs.InString {
		return ""
	}
	cs.InString = false
	return "\")\n"
}
