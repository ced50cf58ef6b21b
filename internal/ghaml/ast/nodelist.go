package ast

import (
	"strings"

	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// NodeList is the ordered prototype registry. More specific triggers come
// first; literal text is the last resort.
type NodeList struct {
	prototypes []Prototype

	// StrictTags rejects element names that are not known HTML tags. Custom
	// element names (containing '-') are always accepted.
	StrictTags bool
}

var defaultPrototypes = []Prototype{
	elementPrototype{},
	idPrototype{},
	classPrototype{},
	attributePrototype{},
	expressionPrototype{},
	silentCommentPrototype{},
	controlPrototype{},
	commentPrototype{},
	doctypePrototype{},
	textPrototype{},
}

// DefaultNodeList returns a NodeList with every built-in node variant.
func DefaultNodeList() *NodeList {
	return NewNodeList(defaultPrototypes...)
}

func NewNodeList(prototypes ...Prototype) *NodeList {
	return &NodeList{prototypes: prototypes}
}

// Prototype returns the first prototype that can handle token.
func (l *NodeList) Prototype(token string, first bool) Prototype {
	for _, p := range l.prototypes {
		if p.CanHandle(token, first) {
			return p
		}
	}
	return nil
}

// Parse parses one line whose nodes belong under parent and returns the line's
// anchor, the node later lines nest under. Prototypes are chained from left to
// right until the line is consumed: `%a#top.nav(href="/") Home` yields one
// element decorated three times with a trailing text child.
func (l *NodeList) Parse(parent Node, line source.LineInfo) (Node, error) {
	if err := nestable(parent, line); err != nil {
		return nil, err
	}

	data := line.Data
	var anchor Node
	for offset := 0; offset < len(data); {
		first := anchor == nil

		if !first && isSpace(data[offset]) {
			rest := strings.TrimSpace(data[offset:])
			offset = len(data)
			if rest == "" {
				break
			}
			if err := l.trailingText(anchor, line, rest); err != nil {
				return nil, err
			}
			break
		}

		token := data[offset:]
		p := l.Prototype(token, first)
		if p == nil {
			if first {
				return nil, unknownNode(line, token)
			}
			if err := l.trailingText(anchor, line, token); err != nil {
				return nil, err
			}
			break
		}

		target := parent
		if !first {
			target = anchor
		}
		start := offset
		n, err := p.Parse(l, target, line, &offset)
		if err != nil {
			return nil, err
		}
		if offset <= start {
			return nil, source.Syntaxf(line, "no progress parsing column %d", start+1)
		}

		if first {
			anchor = n
			continue
		}
		if _, ok := n.(Decorator); !ok {
			if err := markInline(anchor, line); err != nil {
				return nil, err
			}
		}
	}
	return anchor, nil
}

func (l *NodeList) trailingText(anchor Node, line source.LineInfo, text string) error {
	el, ok := anchor.(*Element)
	if !ok {
		return source.Syntaxf(line, "unexpected content %q", text)
	}
	if el.Void() {
		return voidContent(el, line)
	}
	t, err := newText(el, line, text)
	if err != nil {
		return err
	}
	el.addChild(t)
	el.inline = true
	return nil
}

func markInline(anchor Node, line source.LineInfo) error {
	el, ok := anchor.(*Element)
	if !ok {
		return nil
	}
	if el.Void() {
		return voidContent(el, line)
	}
	el.inline = true
	return nil
}

func unknownNode(line source.LineInfo, token string) error {
	word := token
	if i := strings.IndexFunc(word, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		word = word[:i]
	}
	if strings.HasPrefix(token, "-") {
		kw := controlKeyword(token)
		if s := suggestKeyword(kw); s != "" {
			return source.Errorf(source.KindUnknownNode, line, "unknown control keyword %q, did you mean %q?", kw, s)
		}
		if kw != "" {
			return source.Errorf(source.KindUnknownNode, line, "unknown control keyword %q", kw)
		}
	}
	return source.Errorf(source.KindUnknownNode, line, "no node type handles %q", word)
}

// anchorOn returns parent as an element when it is the anchor of line, that
// is when it was created while parsing that same line.
func anchorOn(parent Node, line source.LineInfo) (*Element, bool) {
	el, ok := parent.(*Element)
	if !ok || el.line.Number != line.Number {
		return nil, false
	}
	return el, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
