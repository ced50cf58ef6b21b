package ast

import (
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kilianc/ghaml/internal/ghaml/source"
)

type ControlKind int

const (
	If ControlKind = iota
	ElseIf
	Else
	For
)

var controlKeywords = []string{"if", "else", "for"}

// Control is a conditional or a loop. Its children are rendered once per
// iteration, or when its condition holds. else and else if branches hang off
// the if they follow rather than being children of their parent.
type Control struct {
	base
	Kind   ControlKind
	Clause string
	Else   *Control
}

func (c *Control) head() string {
	switch c.Kind {
	case If:
		return "if " + c.Clause + " {"
	case ElseIf:
		return "else if " + c.Clause + " {"
	case Else:
		return "else {"
	default:
		return "for " + c.Clause + " {"
	}
}

func (c *Control) classify() bool {
	c.classifyChildren()
	if c.Else != nil {
		c.Else.classify()
	}
	c.static = false
	return false
}

func (c *Control) ToHTML() (string, error) {
	return "", ErrNotStatic
}

func (c *Control) ToCode(cs *CodeState, _, _ bool) (string, error) {
	var b strings.Builder
	b.WriteString(cs.Splice(c.head()))
	body, err := childrenCode(cs, c.children)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	for e := c.Else; e != nil; e = e.Else {
		b.WriteString(cs.Splice("} " + e.head()))
		body, err := childrenCode(cs, e.children)
		if err != nil {
			return "", err
		}
		b.WriteString(body)
	}
	b.WriteString(cs.Splice("}"))
	return b.String(), nil
}

// controlKeyword returns the word after the leading '-' of token.
func controlKeyword(token string) string {
	fields := strings.Fields(strings.TrimPrefix(token, "-"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// suggestKeyword returns the control keyword closest to word, if any is close.
func suggestKeyword(word string) string {
	if word == "" {
		return ""
	}
	if ranks := fuzzy.RankFindFold(word, controlKeywords); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, dist := "", 3
	for _, kw := range controlKeywords {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(word), kw); d < dist {
			best, dist = kw, d
		}
	}
	return best
}

type controlPrototype struct{}

func (controlPrototype) CanHandle(token string, first bool) bool {
	if !first || !strings.HasPrefix(token, "-") || strings.HasPrefix(token, "-#") {
		return false
	}
	switch controlKeyword(token) {
	case "if", "else", "for":
		return true
	}
	return false
}

func (controlPrototype) Parse(_ *NodeList, parent Node, line source.LineInfo, offset *int) (Node, error) {
	s := line.Data[*offset:]
	if !strings.HasPrefix(s, "-") {
		return nil, source.Syntaxf(line, "not a control line")
	}
	kw := controlKeyword(s)
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s[1:]), kw))
	c := &Control{base: base{parent: parent, line: line}}

	switch kw {
	case "if":
		c.Kind = If
	case "for":
		c.Kind = For
	case "else":
		c.Kind = Else
		if next := controlKeyword("-" + rest); next == "if" {
			c.Kind = ElseIf
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "if"))
		} else if rest != "" {
			return nil, source.Syntaxf(line, "unexpected %q after else", rest)
		}
	default:
		return nil, source.Syntaxf(line, "unknown control keyword %q", kw)
	}
	c.Clause = rest

	if err := checkClause(c, line); err != nil {
		return nil, err
	}
	*offset = len(line.Data)

	if c.Kind == Else || c.Kind == ElseIf {
		tail, err := openIf(parent, line)
		if err != nil {
			return nil, err
		}
		tail.Else = c
		return c, nil
	}
	parent.addChild(c)
	return c, nil
}

// openIf returns the last branch of the if chain an else on line continues.
func openIf(parent Node, line source.LineInfo) (*Control, error) {
	children := parent.Children()
	if len(children) == 0 {
		return nil, source.Syntaxf(line, "else without a preceding if")
	}
	c, ok := children[len(children)-1].(*Control)
	if !ok || c.Kind != If {
		return nil, source.Syntaxf(line, "else without a preceding if")
	}
	for c.Else != nil {
		c = c.Else
	}
	if c.Kind == Else {
		return nil, source.Syntaxf(line, "else after else")
	}
	return c, nil
}

func checkClause(c *Control, line source.LineInfo) error {
	switch c.Kind {
	case Else:
		return nil
	case For:
		if c.Clause == "" {
			return source.Syntaxf(line, "missing for clause")
		}
		src := "package p\nfunc _() {\nfor " + c.Clause + " {\n}\n}\n"
		if _, err := parser.ParseFile(token.NewFileSet(), "", src, parser.SkipObjectResolution); err != nil {
			return source.Syntaxf(line, "invalid for clause %q: %v", c.Clause, err)
		}
		return nil
	default:
		if c.Clause == "" {
			return source.Syntaxf(line, "missing condition")
		}
		if _, err := parser.ParseExpr(c.Clause); err != nil {
			return source.Syntaxf(line, "invalid condition %q: %v", c.Clause, err)
		}
		return nil
	}
}
