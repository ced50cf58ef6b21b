package ast

import (
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/gomponents"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Comment is an HTML comment, either `/ text` on one line or `/` wrapping the
// lines nested under it.
type Comment struct {
	base
	Text string
}

func (c *Comment) classify() bool {
	c.static = c.classifyChildren()
	return c.static
}

func (c *Comment) ToHTML() (string, error) {
	if !c.static {
		return "", ErrNotStatic
	}
	if c.Text != "" {
		return "<!-- " + c.Text + " -->", nil
	}
	inner, err := childrenHTML(c.children)
	if err != nil {
		return "", err
	}
	return "<!--" + inner + "-->", nil
}

func (c *Comment) ToCode(cs *CodeState, flat, flatIsDefault bool) (string, error) {
	if flatIsDefault {
		flat = c.static
	}
	if flat {
		html, err := c.ToHTML()
		if err != nil {
			return "", err
		}
		return cs.Literal(html), nil
	}
	var b strings.Builder
	b.WriteString(cs.Literal("<!--"))
	body, err := childrenCode(cs, c.children)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	b.WriteString(cs.Literal("-->"))
	return b.String(), nil
}

type commentPrototype struct{}

func (commentPrototype) CanHandle(token string, first bool) bool {
	return first && strings.HasPrefix(token, "/")
}

func (commentPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	if !strings.HasPrefix(line.Data[*offset:], "/") {
		return nil, source.Syntaxf(line, "not a comment")
	}
	c := &Comment{
		base: base{parent: parent, line: line},
		Text: strings.TrimSpace(line.Data[*offset+1:]),
	}
	*offset = len(line.Data)
	parent.addChild(c)
	return c, nil
}

// SilentComment (`-#`) emits nothing, and neither does anything nested under
// it.
type SilentComment struct {
	base
}

func (s *SilentComment) addChild(Node) {}

func (s *SilentComment) classify() bool {
	s.static = true
	return true
}

func (s *SilentComment) ToHTML() (string, error) { return "", nil }

func (s *SilentComment) ToCode(*CodeState, bool, bool) (string, error) { return "", nil }

type silentCommentPrototype struct{}

func (silentCommentPrototype) CanHandle(token string, first bool) bool {
	return first && strings.HasPrefix(token, "-#")
}

func (silentCommentPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	if !strings.HasPrefix(line.Data[*offset:], "-#") {
		return nil, source.Syntaxf(line, "not a silent comment")
	}
	s := &SilentComment{base: base{parent: parent, line: line}}
	*offset = len(line.Data)
	parent.addChild(s)
	return s, nil
}

// Doctype is `!!!`, the HTML5 doctype.
type Doctype struct {
	base
}

func (d *Doctype) classify() bool {
	d.static = true
	return true
}

func (d *Doctype) ToHTML() (string, error) {
	return gomponents.Doctype(), nil
}

func (d *Doctype) ToCode(cs *CodeState, _, _ bool) (string, error) {
	return cs.Literal(gomponents.Doctype()), nil
}

type doctypePrototype struct{}

func (doctypePrototype) CanHandle(token string, first bool) bool {
	return first && strings.HasPrefix(token, "!!!")
}

func (doctypePrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	s := line.Data[*offset:]
	if !strings.HasPrefix(s, "!!!") {
		return nil, source.Syntaxf(line, "not a doctype")
	}
	switch kind := strings.ToLower(strings.TrimSpace(s[3:])); kind {
	case "", "5", "html":
	default:
		return nil, source.Syntaxf(line, "unsupported doctype %q", kind)
	}
	d := &Doctype{base: base{parent: parent, line: line}}
	*offset = len(line.Data)
	parent.addChild(d)
	return d, nil
}
