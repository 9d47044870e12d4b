package document

import (
	"errors"
	"fmt"
)

// Errors returned by document commands.
var (
	// ErrOutOfRange indicates an offset or range outside the document.
	ErrOutOfRange = errors.New("range out of bounds")

	// ErrSplitsRune indicates an offset inside a multi-byte UTF-8 sequence.
	ErrSplitsRune = errors.New("offset splits a UTF-8 sequence")

	// ErrConflict indicates the text under an edit is not what it expects.
	ErrConflict = errors.New("edit conflicts with document")

	// ErrNotApplied indicates Invert on a command that was never applied.
	ErrNotApplied = errors.New("command not applied")
)

// RangeError reports a range outside the document.
type RangeError struct {
	Range Range
	Len   ByteOffset
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) out of bounds for length %d", e.Range.Start, e.Range.End, e.Len)
}

// Is allows errors.Is to match RangeError with ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ConflictError reports that the text under an edit has changed.
type ConflictError struct {
	Range Range
	Want  string
	Got   string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("edit at [%d, %d) expected %q, found %q", e.Range.Start, e.Range.End, e.Want, e.Got)
}

// Is allows errors.Is to match ConflictError with ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
