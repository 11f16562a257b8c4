package biometric

import (
	"errors"
	"fmt"
)

// VectorLen is the embedding size produced by the face model.
const VectorLen = 128

// Vector is a fixed-length face embedding. It is produced once per
// capture and consumed exactly once by the sealer.
type Vector []float64

var ErrVectorLength = errors.New("biometric: vector must have exactly 128 elements")

func (v Vector) Validate() error {
	if len(v) != VectorLen {
		return fmt.Errorf("%w (got %d)", ErrVectorLength, len(v))
	}
	return nil
}
