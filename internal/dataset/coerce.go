// SPDX-License-Identifier: MIT
package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// toNumber converts a decoded JSON value to float64 using loose numeric
// rules: numbers pass through, numeric strings are parsed after trimming
// (blank strings are 0), booleans are 0/1 and null is 0. An array converts
// through its comma-joined text, so [] is 0, [7] and ["7"] are 7, while
// [true] and [1,2] are NaN. Everything else is NaN.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return parseNumber(x)
	case []any:
		return parseNumber(joinText(x))
	}
	return math.NaN()
}

// joinText renders an array the way it reads when used as text: elements
// joined by commas, null as empty, nested arrays flattened the same way and
// objects as an opaque non-numeric token.
func joinText(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case nil:
		case []any:
			parts[i] = joinText(x)
		case map[string]any:
			parts[i] = "[object Object]"
		default:
			parts[i] = stringify(x)
		}
	}
	return strings.Join(parts, ",")
}

// parseNumber parses a text field. Blank text is 0; unparseable text is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Unsigned integer literals with a radix prefix.
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(u)
		}
	}

	// strconv accepts forms (underscores, "inf", hex floats) that plain
	// decimal text never uses; reject them up front.
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			if s == "Infinity" || s == "+Infinity" {
				return math.Inf(1)
			}
			if s == "-Infinity" {
				return math.Inf(-1)
			}
			return math.NaN()
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// truthyString returns a string form of v when v would count as "set": a
// non-empty string, a non-zero number or true.
func truthyString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case json.Number:
		f := toNumber(x)
		if f == 0 || math.IsNaN(f) {
			return "", false
		}
		return x.String(), true
	case float64:
		if x == 0 || math.IsNaN(x) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return "true", x
	case []any, map[string]any:
		// Objects and arrays are always set; there is no sensible text form,
		// so callers fall back to their default.
		return "", false
	}
	return "", false
}

// isTruthy reports whether v would count as "set" for defaulting purposes.
func isTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case []any, map[string]any:
		return true
	default:
		_, ok := truthyString(x)
		return ok
	}
}

// stringify renders a label element as text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
