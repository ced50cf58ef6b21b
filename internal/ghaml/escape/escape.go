// Package escape holds the one quoting rule used when markup text is placed
// inside a string literal of generated Go code.
package escape

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// GoString returns s escaped for the inside of a Go interpreted string literal,
// without the surrounding quotes. Every '"' becomes `\"` and every '\' becomes
// `\\`; control characters use Go escapes and bytes that are not valid UTF-8
// become \x escapes, so the literal holds exactly the bytes of s. Printable
// text, including non-ASCII, is kept as is.
func GoString(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r == utf8.RuneError && size == 1:
				fmt.Fprintf(&b, `\x%02x`, s[i-1])
			case r < 0x20 || r == 0x7f:
				q := strconv.QuoteRuneToASCII(r)
				b.WriteString(q[1 : len(q)-1])
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Quote is GoString with the delimiting quotes added.
func Quote(s string) string {
	return `"` + GoString(s) + `"`
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 || c == 0x7f || c >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
