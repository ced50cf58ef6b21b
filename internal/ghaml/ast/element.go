package ast

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/kilianc/ghaml/internal/ghaml/gomponents"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// DefaultTag is the element created when a line starts with an id or class.
const DefaultTag = "div"

// Element produces a tag. Decorators on its line contribute attributes; its
// children are rendered between the opening and closing tag.
type Element struct {
	base
	Tag string

	decorators []Decorator
	// inline is set when content follows the tag on its own line.
	inline bool
}

func newElement(parent Node, line source.LineInfo, tag string) *Element {
	return &Element{base: base{parent: parent, line: line}, Tag: tag}
}

// Decorators returns the attached decorators in source order.
func (e *Element) Decorators() []Decorator {
	return e.decorators
}

func (e *Element) decorate(d Decorator) {
	e.decorators = append(e.decorators, d)
}

// Attrs merges the decorators into the element's attributes. Keys keep the
// position of their first appearance. Class values accumulate in order; any
// other key, id included, takes its last value.
func (e *Element) Attrs() []gomponents.Attr {
	var out []gomponents.Attr
	index := map[string]int{}
	for _, d := range e.decorators {
		for _, a := range d.Attrs() {
			i, ok := index[a.Key]
			if !ok {
				index[a.Key] = len(out)
				out = append(out, a)
				continue
			}
			switch {
			case a.Key != "class":
				out[i].Value = a.Value
			case a.Value == "":
			case out[i].Value == "":
				out[i].Value = a.Value
			default:
				out[i].Value += " " + a.Value
			}
		}
	}
	return out
}

// ID returns the effective id, the last one given.
func (e *Element) ID() string {
	for _, a := range e.Attrs() {
		if a.Key == "id" {
			return a.Value
		}
	}
	return ""
}

// Classes returns every class name in the order given.
func (e *Element) Classes() []string {
	for _, a := range e.Attrs() {
		if a.Key == "class" {
			return strings.Fields(a.Value)
		}
	}
	return nil
}

func (e *Element) classify() bool {
	for _, d := range e.decorators {
		d.classify()
	}
	e.static = e.classifyChildren()
	return e.static
}

// attrs is the concatenation of the decorator fragments after merging.
func (e *Element) attrs() string {
	return fragment(e.Attrs())
}

// Void reports an element that can hold no content.
func (e *Element) Void() bool {
	return gomponents.IsVoid(e.Tag)
}

func (e *Element) shell() (open, close string, err error) {
	open, close, void, err := gomponents.Shell(e.Tag, e.attrs())
	if err != nil {
		return "", "", err
	}
	if void && len(e.children) > 0 {
		return "", "", source.Syntaxf(e.line, "void element %q cannot have content", e.Tag)
	}
	return open, close, nil
}

func (e *Element) ToHTML() (string, error) {
	if !e.static {
		return "", ErrNotStatic
	}
	if _, _, err := e.shell(); err != nil {
		return "", err
	}
	inner, err := childrenHTML(e.children)
	if err != nil {
		return "", err
	}
	return gomponents.Render(gomponents.LowerElement(e.Tag, e.attrs(), inner))
}

func (e *Element) ToCode(cs *CodeState, flat, flatIsDefault bool) (string, error) {
	if flatIsDefault {
		flat = e.static
	}
	if flat {
		html, err := e.ToHTML()
		if err != nil {
			return "", err
		}
		return cs.Literal(html), nil
	}

	open, close, err := e.shell()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(cs.Literal(open))
	body, err := childrenCode(cs, e.children)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	b.WriteString(cs.Literal(close))
	return b.String(), nil
}

type elementPrototype struct{}

func (elementPrototype) CanHandle(token string, first bool) bool {
	return first && strings.HasPrefix(token, "%")
}

func (elementPrototype) Parse(list *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	data := line.Data
	if *offset >= len(data) || data[*offset] != '%' {
		return nil, source.Syntaxf(line, "not an element")
	}
	start := *offset + 1
	end := start
	for end < len(data) && isTagChar(data[end]) {
		end++
	}
	if end == start {
		return nil, source.Syntaxf(line, "element name is empty")
	}
	tag := data[start:end]
	if list.StrictTags && !strings.Contains(tag, "-") && atom.Lookup([]byte(tag)) == 0 {
		return nil, source.Syntaxf(line, "unknown element %q", tag)
	}
	*offset = end

	el := newElement(parent, line, tag)
	parent.addChild(el)
	return el, nil
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':'
}
