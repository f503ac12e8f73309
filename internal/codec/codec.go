// Package codec implements the injective branch-name encoding used to turn
// arbitrary Git branch names into tokens safe as a single filesystem path
// component and a single ref path component.
package codec

import (
	"fmt"
	"strconv"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

func isSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '_' || c == '-':
		return true
	}
	return false
}

// Encode maps a branch name to a filename- and ref-safe token. It is
// injective: Decode(Encode(s)) == s for every s.
//
// A literal '-' stays bare only when neither neighbour is '-' or '/';
// every other '-' is escaped to %2D. A bare '-' therefore never touches
// another bare '-' in the output, so every unescaped "--" run Decode sees
// came from '/' substitution and the blind "--" -> "/" replace in Decode
// can never mis-pair a dash sitting next to a slash (e.g. "a-/b" vs "a/-b").
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '/':
			b.WriteString("--")
		case c == '-':
			if (i > 0 && (s[i-1] == '-' || s[i-1] == '/')) || (i+1 < len(s) && (s[i+1] == '-' || s[i+1] == '/')) {
				b.WriteString("%2D")
			} else {
				b.WriteByte('-')
			}
		case isSafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}

	out := b.String()
	out = strings.ReplaceAll(out, "..", ".%2E")
	if strings.HasPrefix(out, ".") {
		out = "%2E" + out[1:]
	}
	return out
}

// Decode reverses Encode. It returns an error if s is not well-formed
// encoded output (a malformed %-escape).
func Decode(s string) (string, error) {
	replaced := strings.ReplaceAll(s, "--", "/")

	var b strings.Builder
	b.Grow(len(replaced))

	for i := 0; i < len(replaced); {
		if replaced[i] == '%' {
			if i+2 >= len(replaced) {
				return "", fmt.Errorf("codec: truncated escape at offset %d in %q", i, s)
			}
			v, err := strconv.ParseUint(replaced[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("codec: invalid escape %q in %q: %w", replaced[i:i+3], s, err)
			}
			b.WriteByte(byte(v))
			i += 3
			continue
		}
		b.WriteByte(replaced[i])
		i++
	}
	return b.String(), nil
}
