package ram

import (
	"errors"
	"fmt"
)

// Domain errors for memory bank operations.
var (
	// ErrInvalidRow indicates a row string of the wrong length or with characters other than '0' and '1'.
	ErrInvalidRow = errors.New("ram: invalid row")

	// ErrRowIndex indicates a row index outside the bank.
	ErrRowIndex = errors.New("ram: row index out of range")

	// ErrRowCount indicates a source that supplied a different number of rows than the bank holds.
	ErrRowCount = errors.New("ram: row count mismatch")

	// ErrDimensions indicates a non-positive row or column count.
	ErrDimensions = errors.New("ram: rows and cols must be positive")
)

// RowError wraps a rejected row with the input that caused it.
type RowError struct {
	Row     int
	Input   string
	Cols    int
	Wrapped error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid input %q for row %d: want a binary string of length %d", e.Input, e.Row, e.Cols)
}

func (e *RowError) Unwrap() error {
	return e.Wrapped
}
