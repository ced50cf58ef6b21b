package ast

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kilianc/ghaml/internal/ghaml/escape"
	"github.com/kilianc/ghaml/internal/ghaml/gomponents"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

func lineAt(n int, data string) source.LineInfo {
	return source.LineInfo{Number: n, Raw: data, Data: data}
}

// parseLines parses single-depth lines under one document.
func parseLines(t *testing.T, data ...string) *Document {
	t.Helper()
	doc := NewDocument()
	list := DefaultNodeList()
	for i, d := range data {
		if _, err := list.Parse(doc, lineAt(i+1, d)); err != nil {
			t.Fatalf("Parse(%q): %v", d, err)
		}
	}
	Classify(doc)
	return doc
}

func html(t *testing.T, n Node) string {
	t.Helper()
	s, err := n.ToHTML()
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	return s
}

func TestEmptyElement(t *testing.T) {
	doc := parseLines(t, "%div")
	if len(doc.Children()) != 1 {
		t.Fatalf("expected one node, got %d", len(doc.Children()))
	}
	el, ok := doc.Children()[0].(*Element)
	if !ok || el.Tag != "div" {
		t.Fatalf("expected a div element, got %#v", doc.Children()[0])
	}
	if got := html(t, el); got != "<div></div>" {
		t.Fatalf("got %q", got)
	}
}

func TestChainedLine(t *testing.T) {
	doc := parseLines(t, `%a#top.nav.main(href="/" rel=nofollow) Home page`)
	el := doc.Children()[0].(*Element)

	if got := len(el.Decorators()); got != 4 {
		t.Fatalf("expected 4 decorators, got %d", got)
	}
	want := []gomponents.Attr{
		{Key: "id", Value: "top"},
		{Key: "class", Value: "nav main"},
		{Key: "href", Value: "/"},
		{Key: "rel", Value: "nofollow"},
	}
	if diff := cmp.Diff(want, el.Attrs()); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if len(el.Children()) != 1 {
		t.Fatalf("expected one text child, got %d", len(el.Children()))
	}
	for _, d := range el.Decorators() {
		if d.Parent() != el {
			t.Errorf("decorator %T not attached to anchor", d)
		}
	}
	if got, want := html(t, el), `<a id="top" class="nav main" href="/" rel="nofollow">Home page</a>`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIDShorthand(t *testing.T) {
	doc := parseLines(t, "#main")
	el := doc.Children()[0].(*Element)
	if el.Tag != DefaultTag {
		t.Fatalf("expected default tag, got %q", el.Tag)
	}
	got := html(t, doc)
	if strings.Count(got, `id="main"`) != 1 {
		t.Fatalf("expected id exactly once in %q", got)
	}
	if got != `<div id="main"></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestClassShorthandAccumulates(t *testing.T) {
	doc := parseLines(t, ".a.b.a(class=c)")
	el := doc.Children()[0].(*Element)
	if diff := cmp.Diff([]string{"a", "b", "a", "c"}, el.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if got := html(t, el); got != `<div class="a b a c"></div>` {
		t.Fatalf("got %q", got)
	}
}

func TestIDLastWins(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var b strings.Builder
		b.WriteString("%section")
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, "#id%d", i)
		}
		doc := parseLines(t, b.String())
		el := doc.Children()[0].(*Element)
		if got, want := el.ID(), fmt.Sprintf("id%d", n); got != want {
			t.Errorf("n=%d: ID() = %q, want %q", n, got, want)
		}
		if got := html(t, el); strings.Count(got, "id=") != 1 {
			t.Errorf("n=%d: expected a single id in %q", n, got)
		}
	}
}

func TestIDAttributeTakesPart(t *testing.T) {
	doc := parseLines(t, `%p#a(id="b")`)
	if got := doc.Children()[0].(*Element).ID(); got != "b" {
		t.Fatalf("ID() = %q, want b", got)
	}
}

func TestDecoratorCodeQuoting(t *testing.T) {
	for k := 0; k <= 5; k++ {
		value := strings.Repeat(`x"`, k)
		doc := parseLines(t, `%p(title='`+value+`')`)
		el := doc.Children()[0].(*Element)
		d := el.Decorators()[0]

		frag, err := d.ToHTML()
		if err != nil {
			t.Fatal(err)
		}
		if want := `title="` + value + `" `; frag != want {
			t.Fatalf("k=%d: fragment %q, want %q", k, frag, want)
		}

		code, err := d.ToCode(&CodeState{InString: true}, false, true)
		if err != nil {
			t.Fatal(err)
		}
		if want := `title=\"` + strings.Repeat(`x\"`, k) + `\" `; code != want {
			t.Fatalf("k=%d: code %q, want %q", k, code, want)
		}
		if got := strings.Count(code, `\"`); got != k+2 {
			t.Errorf("k=%d: %d escaped quotes, want %d", k, got, k+2)
		}
		if got := len(code) - len(frag); got != k+2 {
			t.Errorf("k=%d: escaping added %d characters, want %d", k, got, k+2)
		}
	}
}

func TestDecoratorCodeOpensLiteral(t *testing.T) {
	doc := parseLines(t, "%p#x")
	d := doc.Children()[0].(*Element).Decorators()[0]
	cs := &CodeState{}
	code, err := d.ToCode(cs, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := Buffer + `.WriteString("id=\"x\" `; code != want {
		t.Fatalf("got %q, want %q", code, want)
	}
	if !cs.InString {
		t.Fatalf("literal should be left open")
	}
}

func TestPrototypeOrder(t *testing.T) {
	list := DefaultNodeList()
	for _, tc := range []struct {
		token string
		first bool
		want  Prototype
	}{
		{"%p", true, elementPrototype{}},
		{"#x", true, idPrototype{}},
		{"#x", false, idPrototype{}},
		{"#{x} y", true, textPrototype{}},
		{".c", false, classPrototype{}},
		{"(a=b)", false, attributePrototype{}},
		{"(a=b)", true, nil},
		{"= x", true, expressionPrototype{}},
		{"!= x", false, expressionPrototype{}},
		{"-# x", true, silentCommentPrototype{}},
		{"- if x", true, controlPrototype{}},
		{"- frob x", true, nil},
		{"/ c", true, commentPrototype{}},
		{"!!!", true, doctypePrototype{}},
		{"hello", true, textPrototype{}},
		{"%", true, elementPrototype{}},
		{"% x", true, elementPrototype{}},
		{"%p", false, nil},
		{"hello", false, nil},
		{"#", false, idPrototype{}},
		{"#", true, textPrototype{}},
		{".", true, textPrototype{}},
	} {
		if got := list.Prototype(tc.token, tc.first); got != tc.want {
			t.Errorf("Prototype(%q, %v) = %T, want %T", tc.token, tc.first, got, tc.want)
		}
	}
}

func TestUnknownNode(t *testing.T) {
	for _, tc := range []struct {
		data    string
		lineNo  int
		message string
	}{
		{"(href=x)", 9, `no node type handles "(href=x)"`},
		{"- frob item", 2, `did you mean "for"`},
		{"- iff x", 3, `did you mean "if"`},
		{"- els", 1, `did you mean "else"`},
	} {
		_, err := DefaultNodeList().Parse(NewDocument(), lineAt(tc.lineNo, tc.data))
		if !errors.Is(err, source.ErrUnknownNode) {
			t.Fatalf("%q: expected unknown node error, got %v", tc.data, err)
		}
		var se *source.Error
		if !errors.As(err, &se) || se.Line != tc.lineNo || se.Raw != tc.data {
			t.Fatalf("%q: bad error location %#v", tc.data, err)
		}
		if !strings.Contains(se.Msg, tc.message) {
			t.Errorf("%q: message %q does not contain %q", tc.data, se.Msg, tc.message)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	for _, data := range []string{
		`%a(href="x"`,
		`%a(href="x)`,
		`%a(="x")`,
		`%a(href=)`,
		`=`,
		`= 1 +`,
		`%p= `,
		`- if`,
		`- if x ==`,
		`- for`,
		`- for i := 0; i <; i++`,
		`- else`,
		`%p hi #{name`,
		`%p #{}`,
		`!!! XML`,
		`%p#`,
		`%p.`,
		`%p#.x`,
		`.a.`,
		`%`,
		`% x`,
		`%br text`,
		`%br= x`,
		`%img(src=a.png) caption`,
	} {
		_, err := DefaultNodeList().Parse(NewDocument(), lineAt(5, data))
		if !errors.Is(err, source.ErrSyntax) {
			t.Errorf("%q: expected syntax error, got %v", data, err)
			continue
		}
		if se := (*source.Error)(nil); errors.As(err, &se) && se.Line != 5 {
			t.Errorf("%q: error on line %d", data, se.Line)
		}
	}
}

func TestTextInterpolation(t *testing.T) {
	doc := parseLines(t, `%p Hello #{data.Name}, \#{kept} #{fmt.Sprint("}")}`)
	el := doc.Children()[0].(*Element)
	if el.Static() || doc.Static() {
		t.Fatalf("interpolated text must be dynamic")
	}
	text := el.Children()[0].(*Text)
	var srcs []string
	for _, e := range text.Interpolations() {
		srcs = append(srcs, e.Src)
	}
	if diff := cmp.Diff([]string{"data.Name", `fmt.Sprint("}")`}, srcs); diff != "" {
		t.Fatalf("interpolations mismatch (-want +got):\n%s", diff)
	}
	if got, want := text.Literal(), "Hello , #{kept} "; got != want {
		t.Fatalf("Literal() = %q, want %q", got, want)
	}
	if _, err := el.ToHTML(); !errors.Is(err, ErrNotStatic) {
		t.Fatalf("expected ErrNotStatic, got %v", err)
	}
}

func TestEscapedText(t *testing.T) {
	doc := parseLines(t, `\= not code`, `\%p not a tag`)
	if got := html(t, doc); got != "= not code %p not a tag" {
		t.Fatalf("got %q", got)
	}
}

func TestClassification(t *testing.T) {
	for _, tc := range []struct {
		data   string
		static bool
	}{
		{"%p text", true},
		{"%p= data.X", false},
		{"%p!= data.X", false},
		{"%p a #{b}", false},
		{"- if data.X", false},
		{"/ note", true},
		{"!!!", true},
	} {
		doc := parseLines(t, tc.data)
		if doc.Static() != tc.static {
			t.Errorf("%q: Static() = %v, want %v", tc.data, doc.Static(), tc.static)
		}
	}
}

func TestExpressionCode(t *testing.T) {
	doc := parseLines(t, "= data.Title", "!= data.Body")
	cs := &CodeState{}
	code, err := doc.ToCode(cs, false, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "ghamlsb.WriteString(ghamlhtml.EscapeString(ghamlfmt.Sprint(data.Title)))\n" +
		`ghamlsb.WriteString(" ")` + "\n" +
		"ghamlsb.WriteString(ghamlfmt.Sprint(data.Body))\n"
	if code+cs.Close() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", code+cs.Close(), want)
	}
}

func TestElseChain(t *testing.T) {
	doc := NewDocument()
	list := DefaultNodeList()
	parse := func(parent Node, n int, data string) Node {
		t.Helper()
		node, err := list.Parse(parent, lineAt(n, data))
		if err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		return node
	}
	ifNode := parse(doc, 1, "- if data.A").(*Control)
	parse(ifNode, 2, "%p a")
	elseIf := parse(doc, 3, "- else if data.B").(*Control)
	parse(elseIf, 4, "%p b")
	elseNode := parse(doc, 5, "- else").(*Control)
	parse(elseNode, 6, "= data.C")
	Classify(doc)

	if len(doc.Children()) != 1 {
		t.Fatalf("else branches must not be children, got %d children", len(doc.Children()))
	}
	if ifNode.Else != elseIf || elseIf.Else != elseNode || elseIf.Kind != ElseIf || elseNode.Kind != Else {
		t.Fatalf("bad chain")
	}

	cs := &CodeState{}
	code, err := doc.ToCode(cs, false, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "if data.A {\n" +
		`ghamlsb.WriteString("<p>a</p>")` + "\n" +
		"} else if data.B {\n" +
		`ghamlsb.WriteString("<p>b</p>")` + "\n" +
		"} else {\n" +
		"ghamlsb.WriteString(ghamlhtml.EscapeString(ghamlfmt.Sprint(data.C)))\n" +
		"}\n"
	if code != want {
		t.Fatalf("got:\n%s\nwant:\n%s", code, want)
	}

	if _, err := list.Parse(doc, lineAt(7, "- else")); !errors.Is(err, source.ErrSyntax) {
		t.Fatalf("else after else: expected syntax error, got %v", err)
	}
}

func TestNestingRules(t *testing.T) {
	list := DefaultNodeList()
	doc := NewDocument()
	p, err := list.Parse(doc, lineAt(1, "%p inline"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := list.Parse(p, lineAt(2, "%span")); !errors.Is(err, source.ErrSyntax) {
		t.Fatalf("nesting under inline content: expected syntax error, got %v", err)
	}
	text, err := list.Parse(doc, lineAt(3, "plain"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := list.Parse(text, lineAt(4, "%span")); !errors.Is(err, source.ErrSyntax) {
		t.Fatalf("nesting under text: expected syntax error, got %v", err)
	}
}

func TestStrictTags(t *testing.T) {
	list := DefaultNodeList()
	list.StrictTags = true
	if _, err := list.Parse(NewDocument(), lineAt(1, "%dvi")); !errors.Is(err, source.ErrSyntax) {
		t.Fatalf("expected unknown element error, got %v", err)
	}
	for _, ok := range []string{"%div", "%my-widget", "%svg"} {
		if _, err := list.Parse(NewDocument(), lineAt(1, ok)); err != nil {
			t.Errorf("%q: %v", ok, err)
		}
	}
}

func TestVoidElementWithContent(t *testing.T) {
	list := DefaultNodeList()
	doc := NewDocument()
	br, err := list.Parse(doc, lineAt(1, "%br"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = list.Parse(br, lineAt(2, "text"))
	if !errors.Is(err, source.ErrSyntax) {
		t.Fatalf("nesting under a void element: expected syntax error, got %v", err)
	}
	if se := (*source.Error)(nil); !errors.As(err, &se) || se.Line != 2 {
		t.Fatalf("error should point at the nested line, got %v", err)
	}

	doc = parseLines(t, "%img(src=a.png)")
	if got := html(t, doc); got != `<img src="a.png">` {
		t.Fatalf("got %q", got)
	}
}

func TestSilentCommentKeepsJoin(t *testing.T) {
	list := DefaultNodeList()
	doc := NewDocument()
	p, err := list.Parse(doc, lineAt(1, "%p"))
	if err != nil {
		t.Fatal(err)
	}
	for i, data := range []string{"a", "-# note", "b"} {
		if _, err := list.Parse(p, lineAt(i+2, data)); err != nil {
			t.Fatalf("%q: %v", data, err)
		}
	}
	Classify(doc)
	if got := html(t, doc); got != "<p>a b</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeState(t *testing.T) {
	cs := &CodeState{}
	var b strings.Builder
	b.WriteString(cs.Literal(""))
	b.WriteString(cs.Literal(`<a href="`))
	b.WriteString(cs.Literal(`/">`))
	b.WriteString(cs.Splice("x++"))
	b.WriteString(cs.Splice("y++"))
	b.WriteString(cs.Literal("</a>"))
	b.WriteString(cs.Close())
	b.WriteString(cs.Close())
	want := Buffer + `.WriteString("` + escape.GoString(`<a href="/">`) + "\")\nx++\ny++\n" + Buffer + ".WriteString(\"</a>\")\n"
	if b.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}
