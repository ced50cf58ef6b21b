package source

type open[T any] struct {
	depth int
	value T
}

// Tracker keeps the currently open node for every depth above the line being
// parsed.
type Tracker[T any] struct {
	stack []open[T]
}

func NewTracker[T any]() *Tracker[T] {
	return &Tracker[T]{}
}

// Parent closes every entry at or below line's depth and returns the one left on
// top. ok is false when the line belongs at the root. Jumping more than one
// level past the nearest open ancestor is an indentation error.
func (t *Tracker[T]) Parent(line LineInfo) (parent T, ok bool, err error) {
	for len(t.stack) > 0 && t.stack[len(t.stack)-1].depth >= line.Depth {
		t.stack = t.stack[:len(t.stack)-1]
	}

	want := 0
	if len(t.stack) > 0 {
		want = t.stack[len(t.stack)-1].depth + 1
	}
	if line.Depth > want {
		return parent, false, Indentationf(line, "indented %d levels, expected at most %d", line.Depth, want)
	}
	if len(t.stack) == 0 {
		return parent, false, nil
	}
	return t.stack[len(t.stack)-1].value, true, nil
}

// Push opens v at depth.
func (t *Tracker[T]) Push(depth int, v T) {
	t.stack = append(t.stack, open[T]{depth: depth, value: v})
}

// Depth is the number of open entries.
func (t *Tracker[T]) Depth() int {
	return len(t.stack)
}
