package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("invalid expression syntax")
	// ErrOutOfRange is wrapped by every RangeError.
	ErrOutOfRange = errors.New("segment index out of range")
)

// SyntaxError reports malformed expression text.
type SyntaxError struct {
	Input  string
	Index  int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax in expression %q at index %d: %s", e.Input, e.Index, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxError(input string, index int, reason string) *SyntaxError {
	return &SyntaxError{Input: input, Index: index, Reason: reason}
}

// RangeError reports an access outside the chain or past its cursor.
type RangeError struct {
	Index     int
	Offset    int
	Fulfilled int
	Length    int
	Relative  bool
}

func (e *RangeError) Error() string {
	if e.Relative {
		return fmt.Sprintf("chain has %d segments, requested segment %d (offset=%d; fulfilled=%d)", e.Length, e.Index, e.Offset, e.Fulfilled)
	}
	return fmt.Sprintf("chain has %d segments, requested segment %d", e.Length, e.Index)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
