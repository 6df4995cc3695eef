// Package relu implements the rectified linear unit layer.
//
// Forward: y = max(x, 0). The forward input x is kept as layer data (AuxData).
// Backward: dx = g where x > 0 and 0 elsewhere, including at x == 0.
package relu

import (
	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/elementwise"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/tensor"
)

// AuxData is the layer-data id of the forward input.
const AuxData layers.LayerDataID = 0

var (
	forwardContainers  = algorithm.NewRegistry[forward.Container]("relu forward")
	backwardContainers = algorithm.NewRegistry[backward.Container]("relu backward")
)

var (
	forwardSpec = forward.Spec{
		Kind:       layers.ReLU,
		AuxID:      AuxData,
		AuxSource:  forward.AuxFromInput,
		Containers: forwardContainers,
	}
	backwardSpec = backward.Spec{
		Kind:         layers.ReLU,
		AuxID:        AuxData,
		AuxName:      "auxData",
		HasParameter: true,
		Containers:   backwardContainers,
	}
)

func init() {
	elementwise.Register(forwardContainers, backwardContainers, layers.DefaultDense, AuxData, elementwise.Kernels[float32]{
		Forward:  forwardScalar[float32],
		Backward: backwardScalar[float32],
	})
	elementwise.Register(forwardContainers, backwardContainers, layers.DefaultDense, AuxData, elementwise.Kernels[float64]{
		Forward:        forwardScalar[float64],
		Backward:       backwardScalar[float64],
		BackwardVector: backwardVector64,
	})
}

// NewForward creates a forward relu batch.
func NewForward[T tensor.Float](opts ...layers.Option) (*forward.Batch[T], error) {
	return forward.NewBatch[T](forwardSpec, opts...)
}

// NewBackward creates a backward relu batch.
func NewBackward[T tensor.Float](opts ...layers.Option) (*backward.Batch[T], error) {
	return backward.NewBatch[T](backwardSpec, opts...)
}

// ForwardSpecializations lists the registered forward containers.
func ForwardSpecializations() []algorithm.Key {
	return forwardContainers.Keys()
}

// BackwardSpecializations lists the registered backward containers.
func BackwardSpecializations() []algorithm.Key {
	return backwardContainers.Keys()
}
