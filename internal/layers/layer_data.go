package layers

import (
	"maps"
	"slices"

	"github.com/born-ml/layerkit/internal/tensor"
)

// LayerDataID names one auxiliary tensor inside a LayerData bundle.
// Each layer defines its own ids.
type LayerDataID int

// LayerData is the bundle of auxiliary tensors a forward pass persists for
// the matching backward pass. It records which layer and method produced it
// so that a backward batch can reject a bundle from another layer.
type LayerData struct {
	kind    Kind
	method  Method
	tensors map[LayerDataID]*tensor.Tensor
}

// NewLayerData creates an empty bundle produced by kind/method.
func NewLayerData(kind Kind, method Method) *LayerData {
	return &LayerData{
		kind:    kind,
		method:  method,
		tensors: make(map[LayerDataID]*tensor.Tensor),
	}
}

// Kind returns the producing layer kind.
func (d *LayerData) Kind() Kind {
	return d.kind
}

// Method returns the producing method.
func (d *LayerData) Method() Method {
	return d.method
}

// Get returns the tensor stored under id, or nil.
func (d *LayerData) Get(id LayerDataID) *tensor.Tensor {
	return d.tensors[id]
}

// Set stores t under id. A nil t removes the entry.
func (d *LayerData) Set(id LayerDataID, t *tensor.Tensor) {
	if t == nil {
		delete(d.tensors, id)
		return
	}
	d.tensors[id] = t
}

// Len returns the number of stored tensors.
func (d *LayerData) Len() int {
	return len(d.tensors)
}

// IDs returns the stored ids in ascending order.
func (d *LayerData) IDs() []LayerDataID {
	return slices.Sorted(maps.Keys(d.tensors))
}

// Clone returns a new bundle referring to the same tensors.
func (d *LayerData) Clone() *LayerData {
	return &LayerData{
		kind:    d.kind,
		method:  d.method,
		tensors: maps.Clone(d.tensors),
	}
}
