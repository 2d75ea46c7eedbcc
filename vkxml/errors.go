package vkxml

import "fmt"

// SourceError is a grammar or attribute violation at a document position.
type SourceError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// NewSourceErrorf creates a SourceError with a formatted message.
func NewSourceErrorf(line, column int, format string, args ...interface{}) *SourceError {
	return &SourceError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}
