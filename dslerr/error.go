// Package dslerr defines the error type raised by surface-string processing
// and parsing: malformed quoting, unbalanced brackets, and grammar violations.
package dslerr

import "fmt"

// SyntaxError reports a failure to split, quote, or parse DSL source text.
// Offset is a byte position into the string that was being processed, when
// one could be identified; it is -1 otherwise.
type SyntaxError struct {
	Message string
	Offset  int
}

// New constructs a SyntaxError with no known offset.
func New(message string) *SyntaxError {
	return &SyntaxError{Message: message, Offset: -1}
}

// Newf formats a SyntaxError with no known offset.
func Newf(format string, args ...any) *SyntaxError {
	return New(fmt.Sprintf(format, args...))
}

// At constructs a SyntaxError anchored to a byte offset.
func At(offset int, message string) *SyntaxError {
	return &SyntaxError{Message: message, Offset: offset}
}

// Atf formats a SyntaxError anchored to a byte offset.
func Atf(offset int, format string, args ...any) *SyntaxError {
	return At(offset, fmt.Sprintf(format, args...))
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("dsl: syntax error: %s", e.Message)
	}
	return fmt.Sprintf("dsl: syntax error at offset %d: %s", e.Offset, e.Message)
}
