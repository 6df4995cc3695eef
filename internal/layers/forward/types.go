// Package forward implements the forward pass of a layer: an Input holding the
// data tensor, a Result holding the output value plus the layer data for the
// backward pass, and the Batch that orchestrates allocation and execution.
package forward

import (
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/tensor"
)

// InputID identifies a forward input slot.
type InputID int

// Forward input slots.
const (
	Data InputID = iota
)

// String returns the slot name.
func (id InputID) String() string {
	if id == Data {
		return "data"
	}
	return "unknown"
}

// ResultID identifies a forward result slot.
type ResultID int

// Forward result slots.
const (
	Value ResultID = iota
)

// String returns the slot name.
func (id ResultID) String() string {
	if id == Value {
		return "value"
	}
	return "unknown"
}

const resultForBackwardSlot = "resultForBackward"

// Input holds the tensors consumed by a forward pass.
type Input struct {
	data *tensor.Tensor
}

// NewInput returns an empty input.
func NewInput() *Input {
	return &Input{}
}

// Get returns the tensor in slot id.
func (in *Input) Get(id InputID) *tensor.Tensor {
	if id == Data {
		return in.data
	}
	return nil
}

// Set stores t in slot id.
func (in *Input) Set(id InputID, t *tensor.Tensor) {
	if id == Data {
		in.data = t
	}
}

// Check validates the input for a batch of the given layer and dtype.
func (in *Input) Check(kind layers.Kind, dtype tensor.DataType) error {
	return layers.CheckTensor(kind, Data.String(), in.data, dtype, nil)
}

func (in *Input) clone() *Input {
	return &Input{data: in.data}
}

// Result holds the outputs of a forward pass. A Result is shared by pointer:
// a backward batch may keep using its layer data after the forward batch is gone.
type Result struct {
	value       *tensor.Tensor
	valueOwned  bool // value was allocated by a batch, not supplied through Set
	forBackward *layers.LayerData
}

// NewResult returns an empty, unallocated result.
func NewResult() *Result {
	return &Result{}
}

// Get returns the tensor in slot id.
func (r *Result) Get(id ResultID) *tensor.Tensor {
	if id == Value {
		return r.value
	}
	return nil
}

// Set stores t in slot id. Callers use it to supply pre-allocated storage;
// a batch validates such storage strictly and never replaces it.
func (r *Result) Set(id ResultID, t *tensor.Tensor) {
	if id == Value {
		r.value = t
		r.valueOwned = false
	}
}

// ResultForBackward returns the layer data for the backward pass, or nil
// when the forward pass ran in prediction stage.
func (r *Result) ResultForBackward() *layers.LayerData {
	return r.forBackward
}

// SetResultForBackward replaces the layer data bundle.
func (r *Result) SetResultForBackward(d *layers.LayerData) {
	r.forBackward = d
}

// Container runs one (dtype, method, CPU) specialization of a forward pass.
// It holds no tensors between calls.
type Container interface {
	Compute(in *Input, res *Result, p *layers.Parameter) error
}

// Layer is the capability set every forward batch exposes, independent of
// its element type.
type Layer interface {
	Kind() layers.Kind
	Method() layers.Method
	State() layers.State
	LayerInput() *Input
	LayerParameter() (*layers.Parameter, bool)
	LayerResult() *Result
	SetResult(r *Result) error
	AllocateResult() error
	Compute() error
	CloneLayer() Layer
}
