// Package backward implements the backward pass of a layer: an Input holding
// the incoming gradient and the layer data of the matching forward pass, a
// Result holding the propagated gradient, and the Batch that orchestrates them.
package backward

import (
	"fmt"

	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/tensor"
)

// InputID identifies a backward input slot.
type InputID int

// Backward input slots.
const (
	InputGradient InputID = iota
	InputFromForward
)

// String returns the slot name.
func (id InputID) String() string {
	switch id {
	case InputGradient:
		return "inputGradient"
	case InputFromForward:
		return "inputFromForward"
	default:
		return "unknown"
	}
}

// ResultID identifies a backward result slot.
type ResultID int

// Backward result slots.
const (
	Gradient ResultID = iota
)

// String returns the slot name.
func (id ResultID) String() string {
	if id == Gradient {
		return "gradient"
	}
	return "unknown"
}

// Input holds the incoming gradient and the forward layer data.
type Input struct {
	gradient    *tensor.Tensor
	fromForward *layers.LayerData
}

// NewInput returns an empty input.
func NewInput() *Input {
	return &Input{}
}

// Gradient returns the inputGradient slot.
func (in *Input) Gradient() *tensor.Tensor {
	return in.gradient
}

// SetGradient stores the incoming gradient.
func (in *Input) SetGradient(t *tensor.Tensor) {
	in.gradient = t
}

// FromForward returns the inputFromForward bundle.
func (in *Input) FromForward() *layers.LayerData {
	return in.fromForward
}

// SetFromForward stores the layer data produced by a forward result.
func (in *Input) SetFromForward(d *layers.LayerData) {
	in.fromForward = d
}

// Aux returns one tensor of the inputFromForward bundle, or nil.
func (in *Input) Aux(id layers.LayerDataID) *tensor.Tensor {
	if in.fromForward == nil {
		return nil
	}
	return in.fromForward.Get(id)
}

// SetAux stores t in the inputFromForward bundle.
func (in *Input) SetAux(id layers.LayerDataID, t *tensor.Tensor) error {
	if in.fromForward == nil {
		return fmt.Errorf("%s: %w", InputFromForward, layers.ErrMissingInput)
	}
	in.fromForward.Set(id, t)
	return nil
}

func (in *Input) clone() *Input {
	c := &Input{gradient: in.gradient}
	if in.fromForward != nil {
		c.fromForward = in.fromForward.Clone()
	}
	return c
}

// Result holds the gradient propagated to the forward pass's input.
type Result struct {
	gradient      *tensor.Tensor
	gradientOwned bool // gradient was allocated by a batch, not supplied through Set
}

// NewResult returns an empty, unallocated result.
func NewResult() *Result {
	return &Result{}
}

// Get returns the tensor in slot id.
func (r *Result) Get(id ResultID) *tensor.Tensor {
	if id == Gradient {
		return r.gradient
	}
	return nil
}

// Set stores t in slot id. Callers use it to supply pre-allocated storage;
// a batch validates such storage strictly and never replaces it.
func (r *Result) Set(id ResultID, t *tensor.Tensor) {
	if id == Gradient {
		r.gradient = t
		r.gradientOwned = false
	}
}

// Container runs one (dtype, method, CPU) specialization of a backward pass.
// It holds no tensors between calls.
type Container interface {
	Compute(in *Input, res *Result, p *layers.Parameter) error
}

// Layer is the capability set every backward batch exposes, independent of
// its element type.
type Layer interface {
	Kind() layers.Kind
	Method() layers.Method
	State() layers.State
	LayerInput() *Input
	LayerParameter() (*layers.Parameter, bool)
	LayerResult() *Result
	SetResult(r *Result) error
	LinkForward(r *forward.Result) error
	AllocateResult() error
	Compute() error
	CloneLayer() Layer
}
