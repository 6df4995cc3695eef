// Package abs implements the absolute value layer.
//
// Forward: y = |x|. The forward input x is kept as layer data (AuxData).
// Backward: dx = g * sign(x), with sign(0) defined as 0, so the gradient at
// x == 0 is 0 for any g, Inf and NaN included, on every CPU target. NaN
// inputs are treated like 0.
package abs

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
	forwardContainers  = algorithm.NewRegistry[forward.Container]("abs forward")
	backwardContainers = algorithm.NewRegistry[backward.Container]("abs backward")
)

var (
	forwardSpec = forward.Spec{
		Kind:       layers.Abs,
		AuxID:      AuxData,
		AuxSource:  forward.AuxFromInput,
		Containers: forwardContainers,
	}
	backwardSpec = backward.Spec{
		Kind:       layers.Abs,
		AuxID:      AuxData,
		AuxName:    "auxData",
		Containers: backwardContainers,
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

// NewForward creates a forward abs batch.
func NewForward[T tensor.Float](opts ...layers.Option) (*forward.Batch[T], error) {
	return forward.NewBatch[T](forwardSpec, opts...)
}

// NewBackward creates a backward abs batch. It takes no parameter:
// LayerParameter reports (nil, false) and layers.WithParameter is rejected.
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
