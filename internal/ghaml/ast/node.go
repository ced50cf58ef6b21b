// Package ast is the syntax tree of a ghaml template: the node variants, the
// prototypes that parse them, and the dispatcher that chains prototypes over a
// line.
//
// Every node can emit itself in two ways. ToHTML returns the final markup and
// is only valid for static subtrees. ToCode returns a fragment of the body of a
// generated Go render function that appends markup to a local strings.Builder.
package ast

import (
	"errors"
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// ErrNotStatic is returned by ToHTML on a node whose output depends on render
// time data.
var ErrNotStatic = errors.New("ast: node is not static")

// Node is implemented by every tree node.
type Node interface {
	Parent() Node
	Children() []Node
	Line() source.LineInfo

	// Static reports the classification computed by Classify.
	Static() bool
	ToHTML() (string, error)
	// ToCode emits render code. flat asks for the subtree to be emitted as one
	// literal chunk; when flatIsDefault is set the node ignores flat and decides
	// from its own classification.
	ToCode(cs *CodeState, flat, flatIsDefault bool) (string, error)

	addChild(Node)
	classify() bool
}

// Prototype parses one node variant. Prototypes hold no state.
type Prototype interface {
	// CanHandle reports whether token, the rest of the line at the cursor,
	// starts with this variant's trigger. It must not have side effects.
	CanHandle(token string, first bool) bool
	// Parse consumes the variant's syntax at *offset, attaches the new node to
	// parent and advances *offset. parent is the structural parent for the
	// first node of a line and the line's anchor afterwards.
	Parse(list *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error)
}

type base struct {
	parent   Node
	children []Node
	line     source.LineInfo
	static   bool
}

func (b *base) Parent() Node          { return b.parent }
func (b *base) Children() []Node      { return b.children }
func (b *base) Line() source.LineInfo { return b.line }
func (b *base) Static() bool          { return b.static }

func (b *base) addChild(n Node) {
	b.children = append(b.children, n)
}

// classifyChildren classifies every child, even after a dynamic one is found.
func (b *base) classifyChildren() bool {
	static := true
	for _, c := range b.children {
		if !c.classify() {
			static = false
		}
	}
	return static
}

// Classify computes the static classification of n and its whole subtree,
// bottom-up, and reports whether n is static.
func Classify(n Node) bool {
	return n.classify()
}

// Document is the root of a parsed template.
type Document struct {
	base
}

func NewDocument() *Document {
	return &Document{}
}

func (d *Document) classify() bool {
	d.static = d.classifyChildren()
	return d.static
}

func (d *Document) ToHTML() (string, error) {
	if !d.static {
		return "", ErrNotStatic
	}
	return childrenHTML(d.children)
}

func (d *Document) ToCode(cs *CodeState, flat, flatIsDefault bool) (string, error) {
	if flatIsDefault {
		flat = d.static
	}
	if flat {
		html, err := d.ToHTML()
		if err != nil {
			return "", err
		}
		return cs.Literal(html), nil
	}
	return childrenCode(cs, d.children)
}

// flows reports nodes whose output is running text. Adjacent ones are joined
// with a single space.
func flows(n Node) bool {
	switch n.(type) {
	case *Text, *Expression:
		return true
	}
	return false
}

// joiner tracks whether the last child that produced output was running text.
// Silent comments produce nothing and are looked through.
type joiner struct {
	prev bool
}

func (j *joiner) next(n Node) bool {
	if _, ok := n.(*SilentComment); ok {
		return false
	}
	join := j.prev && flows(n)
	j.prev = flows(n)
	return join
}

func childrenHTML(children []Node) (string, error) {
	var b strings.Builder
	var j joiner
	for _, c := range children {
		if j.next(c) {
			b.WriteByte(' ')
		}
		h, err := c.ToHTML()
		if err != nil {
			return "", err
		}
		b.WriteString(h)
	}
	return b.String(), nil
}

func childrenCode(cs *CodeState, children []Node) (string, error) {
	var b strings.Builder
	var j joiner
	for _, c := range children {
		if j.next(c) {
			b.WriteString(cs.Literal(" "))
		}
		code, err := c.ToCode(cs, false, true)
		if err != nil {
			return "", err
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

func voidContent(el *Element, line source.LineInfo) error {
	return source.Syntaxf(line, "void element %q cannot have content", el.Tag)
}

// nestable checks that parent may hold the lines indented under it.
func nestable(parent Node, line source.LineInfo) error {
	switch p := parent.(type) {
	case *Document, *Control, *SilentComment:
		return nil
	case *Element:
		if p.Void() {
			return voidContent(p, line)
		}
		if p.inline {
			return source.Syntaxf(line, "content can't be both given on the same line as %%%s and nested within it", p.Tag)
		}
		return nil
	case *Comment:
		if p.Text != "" {
			return source.Syntaxf(line, "illegal nesting: nesting within a tag that already has content is illegal")
		}
		return nil
	case *Text:
		return source.Syntaxf(line, "illegal nesting: nesting within plain text is illegal")
	case *Expression:
		return source.Syntaxf(line, "illegal nesting: nesting within an expression line is illegal")
	default:
		return source.Syntaxf(line, "illegal nesting: %T cannot have nested content", parent)
	}
}
