// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import "fmt"

// ErrorKind categorizes Rust emission errors.
type ErrorKind uint8

const (
	// ErrInvalidConstant indicates a constant whose literal cannot be translated.
	ErrInvalidConstant ErrorKind = iota

	// ErrInvalidDefine indicates a hand-mapped define with an unreadable payload.
	ErrInvalidDefine

	// ErrReservedName indicates an identifier that is a Rust keyword and has
	// no substitution.
	ErrReservedName

	// ErrUnsupportedType indicates a field shape that has no Rust rendering.
	ErrUnsupportedType
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidConstant:
		return "InvalidConstant"
	case ErrInvalidDefine:
		return "InvalidDefine"
	case ErrReservedName:
		return "ReservedName"
	case ErrUnsupportedType:
		return "UnsupportedType"
	default:
		return "Unknown"
	}
}

// Error represents a Rust emission error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("rust %s: %s", e.Kind, e.Message)
}

// newErrorf creates a new Rust emission error with a formatted message.
func newErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
