package layers

import (
	"errors"
	"fmt"

	"github.com/born-ml/layerkit/internal/tensor"
)

// Configuration, shape and lifecycle errors reported by batches.
var (
	ErrMissingInput    = errors.New("required input is missing")
	ErrAbsentParameter = errors.New("layer has no parameter")
	ErrLayerMismatch   = errors.New("layer data was produced by a different layer")
	ErrNilResult       = errors.New("result is nil")
	ErrDTypeMismatch   = errors.New("dtype mismatch")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrNotAllocated    = errors.New("result is not allocated")
)

// CheckError reports which slot failed validation.
type CheckError struct {
	Layer   Kind   // Layer being validated
	Slot    string // Input or result slot, e.g. "inputFromForward"
	Details string // Additional details
	Err     error  // One of the sentinel errors above
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %v: %s", e.Layer, e.Slot, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %s: %v", e.Layer, e.Slot, e.Err)
}

// Unwrap returns the sentinel error.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// CheckTensor validates that t is present, has dtype, and, when dims is not
// nil, has exactly that shape.
func CheckTensor(kind Kind, slot string, t *tensor.Tensor, dtype tensor.DataType, dims tensor.Shape) error {
	if t == nil {
		return &CheckError{Layer: kind, Slot: slot, Err: ErrMissingInput}
	}
	if t.DType() != dtype {
		return &CheckError{
			Layer:   kind,
			Slot:    slot,
			Details: fmt.Sprintf("got %s, want %s", t.DType(), dtype),
			Err:     ErrDTypeMismatch,
		}
	}
	if dims != nil && !t.Shape().Equal(dims) {
		return &CheckError{
			Layer:   kind,
			Slot:    slot,
			Details: fmt.Sprintf("got %v, want %v", t.Shape(), dims),
			Err:     ErrShapeMismatch,
		}
	}
	return nil
}
