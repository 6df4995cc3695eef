// Package logistic implements the logistic (sigmoid) layer.
//
// Forward: y = 1 / (1 + exp(-x)). The output y is kept as layer data (AuxValue).
// Backward: dx = g * y * (1 - y).
package logistic

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
	forwardContainers  = algorithm.NewRegistry[forward.Container]("logistic forward")
	backwardContainers = algorithm.NewRegistry[backward.Container]("logistic backward")
)

var (
	forwardSpec = forward.Spec{
		Kind:       layers.Logistic,
		AuxID:      AuxValue,
		AuxSource:  forward.AuxFromValue,
		Containers: forwardContainers,
	}
	backwardSpec = backward.Spec{
		Kind:         layers.Logistic,
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

// NewForward creates a forward logistic batch.
func NewForward[T tensor.Float](opts ...layers.Option) (*forward.Batch[T], error) {
	return forward.NewBatch[T](forwardSpec, opts...)
}

// NewBackward creates a backward logistic batch.
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
