package gomponents

import (
	"fmt"
	"io"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Attr is one attribute of a start tag. The value is written verbatim; the
// template author owns its markup.
type Attr struct {
	Key   string
	Value string
}

// attrList is a run of attributes already in the `key="value" ` form the
// decorators produce, placed inside a start tag as one attribute node.
type attrList string

func (a attrList) Render(w io.Writer) error {
	s := strings.TrimRight(string(a), " ")
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, " "+s)
	return err
}

func (attrList) Type() g.NodeType {
	return g.AttributeType
}

// hole marks where an element's content goes when its shell is rendered.
const hole = "\x00ghaml-content\x00"

// LowerElement lowers a tag with its attribute fragment and already rendered
// inner markup to a single gomponents node.
func LowerElement(tag, attrs, inner string) g.Node {
	args := []g.Node{attrList(attrs)}
	if inner != "" {
		args = append(args, g.Raw(inner))
	}
	return g.El(tag, args...)
}

// Shell renders the element once with a placeholder child and splits the
// markup around it. void reports an element that renders no content and no
// closing tag.
func Shell(tag, attrs string) (open, close string, void bool, err error) {
	s, err := Render(LowerElement(tag, attrs, hole))
	if err != nil {
		return "", "", false, err
	}
	i := strings.Index(s, hole)
	if i < 0 {
		return s, "", true, nil
	}
	return s[:i], s[i+len(hole):], false, nil
}

// IsVoid reports whether tag renders without content or a closing tag.
func IsVoid(tag string) bool {
	_, _, void, err := Shell(tag, "")
	return err == nil && void
}

// Doctype is the HTML5 doctype as gomponents renders it.
func Doctype() string {
	s, err := Render(h.Doctype(g.Group(nil)))
	if err != nil {
		panic(fmt.Sprintf("gomponents: rendering doctype: %v", err))
	}
	return s
}

// Render renders n to a string.
func Render(n g.Node) (string, error) {
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
