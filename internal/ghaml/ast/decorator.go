package ast

import (
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/gomponents"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Decorator contributes attributes to the anchor of its line. Decorators are
// never children of the anchor.
type Decorator interface {
	Node
	Attrs() []gomponents.Attr
}

// ID sets the id of its anchor. With several on one anchor the last one wins.
type ID struct {
	base
	Value string
}

// Class adds one class name to its anchor.
type Class struct {
	base
	Name string
}

// Attribute is one parenthesized attribute list, e.g. (href="/" rel=nofollow).
type Attribute struct {
	base
	Pairs []gomponents.Attr
}

func (d *ID) Attrs() []gomponents.Attr        { return []gomponents.Attr{{Key: "id", Value: d.Value}} }
func (d *Class) Attrs() []gomponents.Attr     { return []gomponents.Attr{{Key: "class", Value: d.Name}} }
func (d *Attribute) Attrs() []gomponents.Attr { return d.Pairs }

func (d *ID) classify() bool        { d.static = true; return true }
func (d *Class) classify() bool     { d.static = true; return true }
func (d *Attribute) classify() bool { d.static = true; return true }

func (d *ID) ToHTML() (string, error)        { return fragment(d.Attrs()), nil }
func (d *Class) ToHTML() (string, error)     { return fragment(d.Attrs()), nil }
func (d *Attribute) ToHTML() (string, error) { return fragment(d.Attrs()), nil }

func (d *ID) ToCode(cs *CodeState, _, _ bool) (string, error) {
	return cs.Literal(fragment(d.Attrs())), nil
}

func (d *Class) ToCode(cs *CodeState, _, _ bool) (string, error) {
	return cs.Literal(fragment(d.Attrs())), nil
}

func (d *Attribute) ToCode(cs *CodeState, _, _ bool) (string, error) {
	return cs.Literal(fragment(d.Attrs())), nil
}

// fragment renders attrs in the `key="value" ` form spliced into a start tag.
func fragment(attrs []gomponents.Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteString(`" `)
	}
	return b.String()
}

// attach hangs d on the anchor of line. When the line has no anchor yet, a
// DefaultTag element is created under parent and returned as the new anchor.
func attach(parent Node, line source.LineInfo, d Decorator, b *base) Node {
	b.line = line
	if el, ok := anchorOn(parent, line); ok {
		b.parent = el
		el.decorate(d)
		return d
	}
	el := newElement(parent, line, DefaultTag)
	parent.addChild(el)
	b.parent = el
	el.decorate(d)
	return el
}

func isNameDelim(c byte) bool {
	switch c {
	case ' ', '\t', '#', '.', '(', '=', '!', '/', '{':
		return true
	}
	return false
}

func scanName(data string, start int) int {
	end := start
	for end < len(data) && !isNameDelim(data[end]) {
		end++
	}
	return end
}

func shorthand(token string, trigger byte, first bool) bool {
	if token == "" || token[0] != trigger {
		return false
	}
	return !first || len(token) > 1 && !isNameDelim(token[1])
}

type idPrototype struct{}

// A bare '#' after an anchor is claimed so that Parse reports the empty name.
// At the start of a line it is left to text, which owns "#{".
func (idPrototype) CanHandle(token string, first bool) bool {
	return shorthand(token, '#', first)
}

func (idPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	data := line.Data
	if *offset >= len(data) || data[*offset] != '#' {
		return nil, source.Syntaxf(line, "not an id")
	}
	end := scanName(data, *offset+1)
	if end == *offset+1 {
		return nil, source.Syntaxf(line, "id is empty")
	}
	d := &ID{Value: data[*offset+1 : end]}
	*offset = end
	return attach(parent, line, d, &d.base), nil
}

type classPrototype struct{}

func (classPrototype) CanHandle(token string, first bool) bool {
	return shorthand(token, '.', first)
}

func (classPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	data := line.Data
	if *offset >= len(data) || data[*offset] != '.' {
		return nil, source.Syntaxf(line, "not a class")
	}
	end := scanName(data, *offset+1)
	if end == *offset+1 {
		return nil, source.Syntaxf(line, "class name is empty")
	}
	d := &Class{Name: data[*offset+1 : end]}
	*offset = end
	return attach(parent, line, d, &d.base), nil
}

type attributePrototype struct{}

func (attributePrototype) CanHandle(token string, first bool) bool {
	return !first && len(token) > 0 && token[0] == '('
}

func (attributePrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	data := line.Data
	if *offset >= len(data) || data[*offset] != '(' {
		return nil, source.Syntaxf(line, "not an attribute list")
	}
	if _, ok := anchorOn(parent, line); !ok {
		return nil, source.Syntaxf(line, "attribute list without an element")
	}
	pairs, end, err := parseAttrList(data, *offset+1)
	if err != nil {
		return nil, source.Syntaxf(line, "%v", err)
	}
	d := &Attribute{Pairs: pairs}
	*offset = end
	return attach(parent, line, d, &d.base), nil
}

type attrError string

func (e attrError) Error() string { return string(e) }

// parseAttrList reads `key=value` pairs starting right after '(' and returns
// the offset just past the closing ')'. Values are double or single quoted, or
// a bare word; a key alone means key="key".
func parseAttrList(data string, i int) ([]gomponents.Attr, int, error) {
	var pairs []gomponents.Attr
	for {
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		if i >= len(data) {
			return nil, 0, attrError("unterminated attribute list")
		}
		if data[i] == ')' {
			return pairs, i + 1, nil
		}

		start := i
		for i < len(data) && data[i] != '=' && data[i] != ')' && !isSpace(data[i]) {
			if data[i] == '"' || data[i] == '\'' {
				return nil, 0, attrError("unexpected quote in attribute name")
			}
			i++
		}
		key := data[start:i]
		if key == "" {
			return nil, 0, attrError("attribute name is empty")
		}
		if i >= len(data) || data[i] != '=' {
			pairs = append(pairs, gomponents.Attr{Key: key, Value: key})
			continue
		}
		i++

		if i >= len(data) {
			return nil, 0, attrError("unterminated attribute list")
		}
		switch q := data[i]; q {
		case '"', '\'':
			end := strings.IndexByte(data[i+1:], q)
			if end < 0 {
				return nil, 0, attrError("unterminated attribute value")
			}
			pairs = append(pairs, gomponents.Attr{Key: key, Value: data[i+1 : i+1+end]})
			i += end + 2
		default:
			start := i
			for i < len(data) && data[i] != ')' && !isSpace(data[i]) {
				i++
			}
			if i == start {
				return nil, 0, attrError("attribute " + key + " has no value")
			}
			pairs = append(pairs, gomponents.Attr{Key: key, Value: data[start:i]})
		}
	}
}
