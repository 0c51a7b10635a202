// Package csvjson provides error types for conversion.
package csvjson

import (
	"errors"
	"fmt"
)

// Common conversion errors
var (
	// ErrNilInput indicates that no input was supplied.
	ErrNilInput = errors.New("nil input")

	// ErrFieldCount indicates a data record whose column count differs from the header's.
	ErrFieldCount = errors.New("wrong number of fields")
)

// ArgumentError reports a missing or unusable argument. It is returned before
// any parsing starts.
type ArgumentError struct {
	// Param is the name of the offending parameter.
	Param string
	// Err is the underlying error.
	Err error
}

// Error returns a message naming the parameter.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("csvjson: invalid argument '%s': %v", e.Param, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// HeaderMismatchError reports a data record whose column count does not match
// the header in header mode. No output is produced when it occurs.
type HeaderMismatchError struct {
	// Record is the 1-based position of the logical row, counting the header as 1.
	Record int
	// Columns is the number of columns in the record.
	Columns int
	// Headers is the number of header names.
	Headers int
}

// Error returns a formatted error message with position information.
func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("csvjson: record %d has %d columns, header has %d: "+
		"number of columns must match number of headers otherwise data can be lost",
		e.Record, e.Columns, e.Headers)
}

// Unwrap returns ErrFieldCount so callers can match with errors.Is.
func (e *HeaderMismatchError) Unwrap() error {
	return ErrFieldCount
}
