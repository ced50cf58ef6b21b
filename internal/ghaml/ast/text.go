package ast

import (
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Text is literal content. Each #{expr} inside it splices an escaped runtime
// value, which makes the text dynamic.
type Text struct {
	base
	segments []segment
}

// segment is either literal markup or an interpolated expression.
type segment struct {
	lit  string
	expr *Expression
}

func newText(parent Node, line source.LineInfo, s string) (*Text, error) {
	t := &Text{base: base{parent: parent, line: line}}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{lit: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); {
		if s[i] == '\\' && strings.HasPrefix(s[i+1:], "#{") {
			lit.WriteString("#{")
			i += 3
			continue
		}
		if !strings.HasPrefix(s[i:], "#{") {
			lit.WriteByte(s[i])
			i++
			continue
		}
		end := closingBrace(s, i+2)
		if end < 0 {
			return nil, source.Syntaxf(line, "unterminated interpolation")
		}
		expr, err := newExpression(t, line, s[i+2:end], false)
		if err != nil {
			return nil, err
		}
		flush()
		t.segments = append(t.segments, segment{expr: expr})
		i = end + 1
	}
	flush()
	return t, nil
}

// closingBrace returns the index of the '}' that closes an interpolation whose
// body starts at i, skipping braces inside Go string and rune literals.
func closingBrace(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '"', '\'', '`':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' && c != '`' {
					i++
				}
			}
			if i >= len(s) {
				return -1
			}
		}
	}
	return -1
}

// Literal returns the text with every interpolation left out.
func (t *Text) Literal() string {
	var b strings.Builder
	for _, s := range t.segments {
		b.WriteString(s.lit)
	}
	return b.String()
}

// Interpolations returns the expressions spliced into the text.
func (t *Text) Interpolations() []*Expression {
	var out []*Expression
	for _, s := range t.segments {
		if s.expr != nil {
			out = append(out, s.expr)
		}
	}
	return out
}

func (t *Text) classify() bool {
	t.static = true
	for _, s := range t.segments {
		if s.expr != nil {
			s.expr.classify()
			t.static = false
		}
	}
	return t.static
}

func (t *Text) ToHTML() (string, error) {
	if !t.static {
		return "", ErrNotStatic
	}
	return t.Literal(), nil
}

func (t *Text) ToCode(cs *CodeState, _, _ bool) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.expr == nil {
			b.WriteString(cs.Literal(s.lit))
			continue
		}
		code, err := s.expr.ToCode(cs, false, false)
		if err != nil {
			return "", err
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

// reserved are leading characters that never start literal text. A line that
// starts with one of them and is not claimed by another prototype is an
// unknown node.
const reserved = "%-=({&~:"

type textPrototype struct{}

func (textPrototype) CanHandle(token string, first bool) bool {
	return first && token != "" && !strings.ContainsRune(reserved, rune(token[0]))
}

func (textPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	s := line.Data[*offset:]
	if strings.HasPrefix(s, `\`) && !strings.HasPrefix(s, `\#{`) {
		s = s[1:]
	}
	t, err := newText(parent, line, s)
	if err != nil {
		return nil, err
	}
	*offset = len(line.Data)
	parent.addChild(t)
	return t, nil
}
