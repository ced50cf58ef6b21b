package source

import (
	"errors"
	"fmt"
)

// Kind classifies a compile failure.
type Kind int

const (
	// KindSyntax: a trigger matched but its body is malformed.
	KindSyntax Kind = iota
	// KindUnknownNode: nothing claimed the leading token of a line.
	KindUnknownNode
	// KindIndentation: malformed nesting depth.
	KindIndentation
)

var (
	ErrSyntax      = errors.New("syntax error")
	ErrUnknownNode = errors.New("unknown node")
	ErrIndentation = errors.New("indentation error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindSyntax:
		return ErrSyntax
	case KindUnknownNode:
		return ErrUnknownNode
	case KindIndentation:
		return ErrIndentation
	default:
		return nil
	}
}

func (k Kind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single failure a compile reports. It carries the 1-based line
// number and the raw text of the line that caused it.
type Error struct {
	Kind Kind
	Line int
	Raw  string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s: %s: %q", e.Line, e.Kind, e.Msg, e.Raw)
}

// Is lets errors.Is match an *Error against ErrSyntax, ErrUnknownNode and
// ErrIndentation.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Errorf builds an *Error of the given kind for line.
func Errorf(kind Kind, line LineInfo, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Line: line.Number,
		Raw:  line.Raw,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func Syntaxf(line LineInfo, format string, args ...any) *Error {
	return Errorf(KindSyntax, line, format, args...)
}

func Indentationf(line LineInfo, format string, args ...any) *Error {
	return Errorf(KindIndentation, line, format, args...)
}
