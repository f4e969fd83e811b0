// Package sqlgen renders Go values as SQL literals and assembles multi-row
// INSERT statements meant to be executed later by hand.
//
// Escaping only doubles single quotes. Backslashes and other dialect-specific
// escapes are passed through untouched, which is correct for Postgres with
// standard_conforming_strings on.
package sqlgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a single SQL literal.
type Value interface {
	Literal() string
}

type literal string

func (l literal) Literal() string { return string(l) }

// Null is the unquoted NULL literal.
var Null Value = literal("NULL")

// Quote wraps s in single quotes, doubling every embedded single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Unquote reverses Quote.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", fmt.Errorf("not a quoted literal: %s", lit)
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\'' {
			b.WriteByte(inner[i])
			continue
		}
		if i+1 >= len(inner) || inner[i+1] != '\'' {
			return "", fmt.Errorf("unescaped quote at offset %d in %s", i+1, lit)
		}
		b.WriteByte('\'')
		i++
	}
	return b.String(), nil
}

// Text is a quoted string literal. The empty string stays a quoted literal.
func Text(s string) Value {
	return literal(Quote(s))
}

// OptionalText renders nil as NULL and anything else as Text.
func OptionalText(s *string) Value {
	if s == nil {
		return Null
	}
	return Text(*s)
}

// NullableText renders the empty string as NULL. Used for resolved asset
// URLs, where "no asset" is represented by an empty URL.
func NullableText(s string) Value {
	if s == "" {
		return Null
	}
	return Text(s)
}

// Bool renders true/false unquoted.
func Bool(b bool) Value {
	return literal(strconv.FormatBool(b))
}

// Int renders a bare integer.
func Int(n int) Value {
	return literal(strconv.Itoa(n))
}

// JSONArray renders items as a quoted JSON array cast to jsonb.
// A nil or empty slice becomes '[]'::jsonb, never NULL.
func JSONArray(items []string) Value {
	if len(items) == 0 {
		return literal("'[]'::jsonb")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(items)
	return literal(Quote(strings.TrimRight(buf.String(), "\n")) + "::jsonb")
}
