package lsh

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration is returned when the model config or the construction source is unusable
	ErrInvalidConfiguration = errors.New("invalid lsh model configuration")
	// ErrMalformedTrainingData is returned when the sample corpus is too short or has wrong dimensionality
	ErrMalformedTrainingData = errors.New("malformed training data")
	// ErrDimensionMismatch is returned when a query vector length differs from the configured dimensions
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrModelShapeMismatch is returned when loaded blobs disagree with the configured shape
	ErrModelShapeMismatch = errors.New("model shape mismatch")
)

// DimensionError holds the expected and the actual vector length
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", ErrDimensionMismatch, e.Expected, e.Actual)
}

// Unwrap makes errors.Is(err, ErrDimensionMismatch) work
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }
