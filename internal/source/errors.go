package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for unrecoverable source conditions.
var (
	// ErrOutOfBounds indicates a position outside [0, Len()] or behind the
	// retained part of a non-seekable stream.
	ErrOutOfBounds = errors.New("buffer out of bounds access")

	// ErrBadBOM indicates a stream starting with 0xEF that is not followed
	// by the rest of the UTF-8 byte order mark.
	ErrBadBOM = errors.New("illegal byte order mark")

	// ErrUnreadable indicates the underlying reader failed.
	ErrUnreadable = errors.New("source unreadable")
)

// FatalError is returned for conditions that abort the analysis of a unit.
// No token produced after a FatalError should be trusted.
type FatalError struct {
	Op  string // "seek", "read", "bom", "slice"
	Pos int
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s at position %d: %v", e.Op, e.Pos, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, pos int, err error) *FatalError {
	return &FatalError{Op: op, Pos: pos, Err: err}
}
