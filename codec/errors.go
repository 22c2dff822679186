package codec

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when the input ends in the middle of a token.
var ErrTruncated = errors.New("codec: truncated input")

// TypeMismatchError reports that the next token in the stream was not of
// the kind the decoder asked for.
type TypeMismatchError struct {
	Expected Kind
	Found    Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("codec: expected %s, found %s", e.Expected, e.Found)
}

// MissingFieldError reports that a required struct field never appeared in
// the input, in either layout. Index is the field's wire position.
type MissingFieldError struct {
	Struct string
	Field  string
	Index  int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %s.%s (#%d)", e.Struct, e.Field, e.Index)
}

// FieldError wraps a decode failure inside a nested value with the enclosing
// struct and field, so the message names the full path to the failure.
type FieldError struct {
	Struct string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("decoding %s.%s: %v", e.Struct, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
