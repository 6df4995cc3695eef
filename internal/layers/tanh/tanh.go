// Package tanh implements the hyperbolic tangent layer.
//
// Forward: y = tanh(x). The output y is kept as layer data (AuxValue).
// Backward: dx = g * (1 - y²), computed from the stored output so the forward
// input is not needed.
package tanh

import (
	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/elementwise"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/tensor"
)

// AuxValue is the layer-data id of the forward output.
const AuxValue layers.LayerDataID = 0

var (
	forwardContainers  = algorithm.NewRegistry[forward.Container]("tanh forward")
	backwardContainers = algorithm.NewRegistry[backward.Container]("tanh backward")
)

var (
	forwardSpec = forward.Spec{
		Kind:       layers.Tanh,
		AuxID:      AuxValue,
		AuxSource:  forward.AuxFromValue,
		Containers: forwardContainers,
	}
	backwardSpec = backward.Spec{
		Kind:         layers.Tanh,
		AuxID:        AuxValue,
		AuxName:      "auxValue",
		HasParameter: true,
		Containers:   backwardContainers,
	}
)

func init() {
	elementwise.Register(forwardContainers, backwardContainers, layers.DefaultDense, AuxValue, elementwise.Kernels[float32]{
		Forward:  forwardScalar[float32],
		Backward: backwardScalar[float32],
	})
	elementwise.Register(forwardContainers, backwardContainers, layers.DefaultDense, AuxValue, elementwise.Kernels[float64]{
		Forward:        forwardScalar[float64],
		Backward:       backwardScalar[float64],
		BackwardVector: backwardVector64,
	})
}

// NewForward creates a forward tanh batch.
func NewForward[T tensor.Float](opts ...layers.Option) (*forward.Batch[T], error) {
	return forward.NewBatch[T](forwardSpec, opts...)
}

// NewBackward creates a backward tanh batch. Its parameter defaults to
// layers.DefaultParameter.
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
