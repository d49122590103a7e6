// Package statement contains the statement-construction engine of framesql:
// placeholder resolution for variable-length IN clauses, parametrized
// INSERT/UPDATE/MERGE builders, the named-argument binder that rewrites
// generated text into a dialect's positional marker style, and an immutable
// container for named SQL templates.
//
// Builders emit named ":column" markers and never interpolate values into
// statement text; identifiers are interpolated only after validation.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/framesql/framesql"
)

// Placeholder pairs a named marker in a SQL template with its replacement
// values. A marker is always prefixed by a colon, e.g. ":item_ids".
type Placeholder struct {
	// Key is the marker to replace, including the leading colon.
	Key string

	// Values holds one or more replacement values. Multiple values expand
	// the marker into a comma-joined list, one fresh marker per value,
	// preserving order. Values must be scalars: string, bool, integer or
	// float types, time.Time or nil.
	Values []any

	// NewKey controls whether the replacement markers are reported in the
	// parameter map for binding. When false the values are substituted as
	// literal text instead, e.g. for an ORDER BY expression.
	NewKey bool
}

// New returns a Placeholder with NewKey set to true.
func New(key string, values ...any) Placeholder {
	return Placeholder{Key: key, Values: values, NewKey: true}
}

// Literal returns a Placeholder whose values are substituted as literal
// text and not reported for parameter binding.
func Literal(key string, values ...any) Placeholder {
	return Placeholder{Key: key, Values: values}
}

// Resolve replaces every placeholder's key in stmt with freshly minted
// markers named v0, v1, ... and returns the rewritten statement together
// with the parameter map from marker name to value. The counter is
// monotonic across the whole call, so markers never collide even when
// several placeholders are resolved together. The input statement is never
// mutated.
//
// Resolution fails with the invalid input kind when a placeholder has no
// values or its key does not occur in the statement text.
func Resolve(stmt string, placeholders ...Placeholder) (string, map[string]any, error) {
	params := make(map[string]any)
	counter := 0

	for _, p := range placeholders {
		if len(p.Values) == 0 {
			return "", nil, framesql.NewError(framesql.ErrInvalidInput,
				"placeholder %s has no replacement values", p.Key)
		}
		if !strings.Contains(stmt, p.Key) {
			return "", nil, framesql.NewError(framesql.ErrInvalidInput,
				"placeholder %s does not occur in the statement", p.Key)
		}

		parts := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			if err := validateReplacementValue(v); err != nil {
				return "", nil, err
			}
			if p.NewKey {
				marker := fmt.Sprintf("v%d", counter)
				counter++
				parts = append(parts, ":"+marker)
				params[marker] = v
			} else {
				parts = append(parts, fmt.Sprint(v))
			}
		}
		stmt = strings.ReplaceAll(stmt, p.Key, strings.Join(parts, ", "))
	}
	return stmt, params, nil
}

func validateReplacementValue(v any) error {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time:
		return nil
	default:
		return framesql.NewError(framesql.ErrInvalidInput,
			"placeholder replacement values must be scalars, got %T (%v)", v, v)
	}
}
