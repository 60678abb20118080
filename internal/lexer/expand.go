// SPDX-License-Identifier: MPL-2.0

package lexer

import "strings"

// Environ is the read-only environment view the expander consults. It is
// satisfied by session.Session; the lexer itself never touches process
// globals, so expansion stays deterministic under test.
type Environ interface {
	// Getenv returns the value of name and whether it is set.
	Getenv(name string) (string, bool)
	// HomeDir returns the invoking user's home directory.
	HomeDir() string
}

// Expand applies variable and tilde expansion to one raw token. Tokens that
// start with a single quote are returned verbatim, quote characters included.
// Everywhere else a backslash makes the next byte literal, $NAME is replaced
// with the value of NAME (or left as the literal text $NAME when unset), and
// ~ is replaced with the home directory.
func Expand(token string, env Environ) string {
	if strings.HasPrefix(token, "'") {
		return token
	}

	var buf strings.Builder
	buf.Grow(len(token) * 2)

	for i := 0; i < len(token); {
		switch token[i] {
		case '\\':
			i++
			if i < len(token) {
				buf.WriteByte(token[i])
				i++
			}
		case '$':
			i++
			j := i
			for j < len(token) && isNameByte(token[j]) {
				j++
			}
			name := token[i:j]
			if v, ok := env.Getenv(name); ok && name != "" {
				buf.WriteString(v)
			} else {
				buf.WriteByte('$')
				buf.WriteString(name)
			}
			i = j
		case '~':
			buf.WriteString(env.HomeDir())
			i++
		default:
			buf.WriteByte(token[i])
			i++
		}
	}

	return buf.String()
}

// ExpandAll expands every token in order.
func ExpandAll(tokens []string, env Environ) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Expand(t, env)
	}
	return out
}

// isNameByte reports whether b may appear in a variable name ([A-Za-z0-9_]).
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	}
	return false
}
