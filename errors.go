package pixhuff

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there are no pixels to estimate.
	ErrEmptyInput = errors.New("pixhuff: empty pixel buffer")

	// ErrBadRaster is returned when a Raster's buffer does not hold exactly
	// Width*Height RGBA pixels.
	ErrBadRaster = errors.New("pixhuff: malformed raster")

	// ErrCodeTooLong is returned when a root-to-leaf path needs more than
	// MaxCodeSize bits.
	ErrCodeTooLong = errors.New("pixhuff: codeword exceeds maximum size")

	// ErrUnknownSymbol is returned when a pixel's color has no codeword.
	ErrUnknownSymbol = errors.New("pixhuff: symbol missing from code table")

	// ErrCancelled is returned by a Task that was stopped by its host.
	ErrCancelled = errors.New("pixhuff: task cancelled")
)

// TaskError reports an unexpected failure inside a background task, such as
// a failed invariant or resource exhaustion.
type TaskError struct {
	Value interface{}
}

// Error fulfills the error interface.
func (err TaskError) Error() string {
	return fmt.Sprintf("pixhuff: task failed: %v", err.Value)
}

// Unwrap returns the recovered value if it is itself an error.
func (err TaskError) Unwrap() error {
	if inner, ok := err.Value.(error); ok {
		return inner
	}
	return nil
}

var _ error = TaskError{}
