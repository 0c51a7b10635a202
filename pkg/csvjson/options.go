// Package csvjson provides configurable options for conversion.
package csvjson

import (
	"unicode/utf8"
)

// DefaultDelimiter is the column separator used when none is configured.
const DefaultDelimiter = ','

// Options configures a conversion. Options are passed by value, so concurrent
// conversions never share configuration.
type Options struct {
	// Delimiter is the column separator.
	// It must be a valid rune and not 0, '"', '\r', '\n' or the Unicode
	// replacement character (0xFFFD).
	// Default: ','
	Delimiter rune

	// Header treats the first logical row as field names and renders every
	// following row as an object keyed by those names.
	// Default: false
	Header bool
}

// DefaultOptions returns the default conversion configuration.
func DefaultOptions() Options {
	return Options{
		Delimiter: DefaultDelimiter,
		Header:    false,
	}
}

// validDelim reports whether r is a valid column delimiter.
func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if !validDelim(o.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csvjson: invalid " + e.Field + ": " + e.Message
}
