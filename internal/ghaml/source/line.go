// Package source turns template text into numbered lines with a nesting depth,
// tracks the open node per depth while a tree is built, and defines the error
// every compile failure is reported as.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultIndentWidth is the number of spaces per nesting level.
const DefaultIndentWidth = 2

// LineInfo is one physical source line.
type LineInfo struct {
	// Number is 1-based.
	Number int
	// Raw is the line as written, without the line terminator.
	Raw string
	// Depth is the nesting level derived from the leading spaces.
	Depth int
	// Data is Raw with its indentation removed and trailing whitespace trimmed.
	Data string
}

// Blank reports whether the line holds nothing but whitespace.
func (l LineInfo) Blank() bool {
	return l.Data == ""
}

// Scanner reads lines one at a time, so a malformed indent is reported only
// when its line is reached.
type Scanner struct {
	sc    *bufio.Scanner
	width int
	n     int
}

// NewScanner returns a Scanner over r using width spaces per level.
func NewScanner(r io.Reader, width int) *Scanner {
	if width <= 0 {
		width = DefaultIndentWidth
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	return &Scanner{sc: sc, width: width}
}

// MaxLineLength is the longest line a Scanner accepts, in bytes.
const MaxLineLength = 1024 * 1024

// Next returns the next line, or io.EOF after the last one. Tabs in leading
// whitespace are rejected, as are indents that are not a multiple of the width.
func (s *Scanner) Next() (LineInfo, error) {
	if !s.sc.Scan() {
		err := s.sc.Err()
		switch {
		case err == nil:
			return LineInfo{}, io.EOF
		case errors.Is(err, bufio.ErrTooLong):
			return LineInfo{}, Errorf(KindSyntax, LineInfo{Number: s.n + 1}, "line longer than %d bytes", MaxLineLength)
		default:
			return LineInfo{}, fmt.Errorf("reading line %d: %w", s.n+1, err)
		}
	}
	s.n++
	raw := strings.TrimSuffix(s.sc.Text(), "\r")
	if s.n == 1 {
		raw = strings.TrimPrefix(raw, "\ufeff")
	}
	return newLine(s.n, raw, s.width)
}

func newLine(n int, raw string, width int) (LineInfo, error) {
	line := LineInfo{Number: n, Raw: raw}
	body := strings.TrimLeft(raw, " \t")
	line.Data = strings.TrimRight(body, " \t")
	if line.Data == "" {
		return line, nil
	}

	lead := raw[:len(raw)-len(body)]
	if strings.ContainsRune(lead, '\t') {
		return line, Indentationf(line, "tab in indentation, use %d spaces per level", width)
	}
	if len(lead)%width != 0 {
		return line, Indentationf(line, "indent of %d spaces is not a multiple of %d", len(lead), width)
	}
	line.Depth = len(lead) / width
	return line, nil
}
