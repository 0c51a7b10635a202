package csvjson

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// Kind is the JSON type a column is rendered as.
type Kind int

const (
	// KindString is rendered as a JSON string.
	KindString Kind = iota
	// KindNumber is rendered as a JSON number.
	KindNumber
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a classified column.
type Value struct {
	// Kind is the JSON type of the column.
	Kind Kind
	// Raw is the column text as it appeared in the logical row.
	Raw string
	// Number is the normalized number literal. Empty for strings.
	Number string
}

// Classify decides whether a raw column is a number or a string.
//
// A column is a number only if all of it matches
//
//	[+-]? ( digits ( "." digits? )? | "." digits )
//
// with ASCII digits. Anything else, including "42abc", " 1" or "1,000", is a
// string. Numbers are normalized: a '+' sign and leading zeros are dropped,
// an empty integer part becomes 0, an empty fraction drops the point and
// negative zero loses its sign. Fraction digits are kept as written.
func Classify(raw string) Value {
	if n, ok := normalizeNumber(raw); ok {
		return Value{Kind: KindNumber, Raw: raw, Number: n}
	}
	return Value{Kind: KindString, Raw: raw}
}

// JSON returns the value as JSON text.
func (v Value) JSON() string {
	if v.Kind == KindNumber {
		return v.Number
	}
	b, _ := jsontext.AppendQuote(nil, v.Raw) // invalid UTF-8 is replaced, not fatal
	return string(b)
}

func normalizeNumber(s string) (string, bool) {
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return "", false
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return "", false
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	n := intPart
	if hasPoint && fracPart != "" {
		n += "." + fracPart
	}
	if negative && strings.Trim(n, "0.") != "" {
		n = "-" + n
	}
	return n, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
