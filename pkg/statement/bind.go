package statement

import (
	"strings"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/dialect"
)

// Bind rewrites the named ":name" markers in stmt into the dialect's
// positional placeholder style and returns the rewritten statement together
// with the argument slice in marker order. Markers inside single-quoted
// string literals and double-quoted identifiers are left untouched, as is
// the "::" cast operator.
//
// Binding fails with the invalid input kind when a marker has no entry in
// params. Unused params are not an error: a statement may reference only a
// subset of a shared parameter map.
func Bind(stmt string, params map[string]any, d *dialect.Dialect) (string, []any, error) {
	var (
		out  strings.Builder
		args []any
	)
	out.Grow(len(stmt))

	i := 0
	for i < len(stmt) {
		c := stmt[i]
		switch {
		case c == '\'' || c == '"':
			end := skipQuoted(stmt, i)
			out.WriteString(stmt[i:end])
			i = end
		case c == ':':
			if i+1 < len(stmt) && stmt[i+1] == ':' {
				out.WriteString("::")
				i += 2
				continue
			}
			name := markerName(stmt[i+1:])
			if name == "" {
				out.WriteByte(c)
				i++
				continue
			}
			v, ok := params[name]
			if !ok {
				return "", nil, framesql.NewError(framesql.ErrInvalidInput,
					"no value bound for parameter :%s", name)
			}
			args = append(args, v)
			out.WriteString(d.Placeholder(len(args)))
			i += 1 + len(name)
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), args, nil
}

// skipQuoted returns the index just past the quoted region starting at
// stmt[start]. Doubled quote characters escape themselves per SQL rules.
func skipQuoted(stmt string, start int) int {
	quote := stmt[start]
	i := start + 1
	for i < len(stmt) {
		if stmt[i] == quote {
			if i+1 < len(stmt) && stmt[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// markerName returns the leading identifier of s, or "" when s does not
// start one.
func markerName(s string) string {
	n := 0
	for n < len(s) {
		c := s[n]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || n > 0 && c >= '0' && c <= '9' {
			n++
			continue
		}
		break
	}
	return s[:n]
}
