// Package codecerr defines the typed errors raised by the key, value and
// query codecs.
//
// All codec failures are synchronous and deterministic: the same input always
// produces the same error. Nothing in this module retries.
package codecerr

import (
	"errors"
	"fmt"
)

// Error represents a conversion failure detected by one of the codecs.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Value is the offending input, kept for diagnostics. May be nil.
	Value any
}

// Code categorizes codec errors.
type Code string

const (
	// ErrCodeMalformedKey indicates a key with a missing or non-string kind,
	// or an ancestor without an identifier.
	ErrCodeMalformedKey Code = "MALFORMED_KEY"

	// ErrCodeUnsupportedValue indicates a native value of unrecognized shape.
	ErrCodeUnsupportedValue Code = "UNSUPPORTED_VALUE"

	// ErrCodeUnsupportedOperator indicates an unknown filter operator or
	// order direction.
	ErrCodeUnsupportedOperator Code = "UNSUPPORTED_OPERATOR"

	// ErrCodeInvalidCursor indicates a cursor string that is not base64.
	ErrCodeInvalidCursor Code = "INVALID_CURSOR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (value=%#v)", e.Code, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MalformedKey creates an Error for a structurally invalid key.
func MalformedKey(format string, args ...any) *Error {
	return &Error{Code: ErrCodeMalformedKey, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedValue creates an Error carrying the value that could not be encoded.
func UnsupportedValue(v any, format string, args ...any) *Error {
	return &Error{Code: ErrCodeUnsupportedValue, Message: fmt.Sprintf(format, args...), Value: v}
}

// UnsupportedOperator creates an Error for an operator missing from the lookup table.
func UnsupportedOperator(op string) *Error {
	return &Error{Code: ErrCodeUnsupportedOperator, Message: fmt.Sprintf("unsupported operator %q", op), Value: op}
}

// InvalidCursor creates an Error for a cursor that failed base64 decoding.
func InvalidCursor(cursor string, err error) *Error {
	return &Error{Code: ErrCodeInvalidCursor, Message: fmt.Sprintf("cursor is not base64: %v", err), Value: cursor}
}

// CodeOf returns the Code of err, or "" when err is not a codec error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsMalformedKey returns true if err is a malformed key error.
func IsMalformedKey(err error) bool {
	return CodeOf(err) == ErrCodeMalformedKey
}

// IsUnsupportedValue returns true if err is an unsupported value error.
func IsUnsupportedValue(err error) bool {
	return CodeOf(err) == ErrCodeUnsupportedValue
}

// IsUnsupportedOperator returns true if err is an unsupported operator error.
func IsUnsupportedOperator(err error) bool {
	return CodeOf(err) == ErrCodeUnsupportedOperator
}

// IsInvalidCursor returns true if err is an invalid cursor error.
func IsInvalidCursor(err error) bool {
	return CodeOf(err) == ErrCodeInvalidCursor
}
