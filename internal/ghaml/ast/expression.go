package ast

import (
	"fmt"
	"go/parser"
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Expression splices the value of a Go expression at render time. The value
// is HTML escaped unless the expression was written with !=.
type Expression struct {
	base
	Src string
	Raw bool
}

func newExpression(parent Node, line source.LineInfo, src string, raw bool) (*Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, source.Syntaxf(line, "expression is empty")
	}
	if _, err := parser.ParseExpr(src); err != nil {
		return nil, source.Syntaxf(line, "invalid expression %q: %v", src, err)
	}
	return &Expression{base: base{parent: parent, line: line}, Src: src, Raw: raw}, nil
}

func (e *Expression) classify() bool {
	e.static = false
	return false
}

func (e *Expression) ToHTML() (string, error) {
	return "", ErrNotStatic
}

func (e *Expression) ToCode(cs *CodeState, _, _ bool) (string, error) {
	if e.Raw {
		return cs.Splice(fmt.Sprintf("%s.WriteString(%s.Sprint(%s))", Buffer, FmtPkg, e.Src)), nil
	}
	return cs.Splice(fmt.Sprintf("%s.WriteString(%s.EscapeString(%s.Sprint(%s)))", Buffer, HTMLPkg, FmtPkg, e.Src)), nil
}

type expressionPrototype struct{}

func (expressionPrototype) CanHandle(token string, _ bool) bool {
	return strings.HasPrefix(token, "=") || strings.HasPrefix(token, "!=")
}

func (expressionPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	s := line.Data[*offset:]
	raw := strings.HasPrefix(s, "!=")
	switch {
	case raw:
		s = s[2:]
	case strings.HasPrefix(s, "="):
		s = s[1:]
	default:
		return nil, source.Syntaxf(line, "not an expression")
	}
	e, err := newExpression(parent, line, s, raw)
	if err != nil {
		return nil, err
	}
	*offset = len(line.Data)
	parent.addChild(e)
	return e, nil
}
