// Package catalog constructs any registered layer by kind, for callers that
// pick the layer at run time.
package catalog

import (
	"fmt"

	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/abs"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/layers/logistic"
	"github.com/born-ml/layerkit/internal/layers/relu"
	"github.com/born-ml/layerkit/internal/layers/tanh"
	"github.com/born-ml/layerkit/internal/tensor"
)

// NewForwardBatch creates the forward batch of kind k.
func NewForwardBatch[T tensor.Float](k layers.Kind, opts ...layers.Option) (*forward.Batch[T], error) {
	switch k {
	case layers.Abs:
		return abs.NewForward[T](opts...)
	case layers.Tanh:
		return tanh.NewForward[T](opts...)
	case layers.ReLU:
		return relu.NewForward[T](opts...)
	case layers.Logistic:
		return logistic.NewForward[T](opts...)
	default:
		return nil, fmt.Errorf("forward: unknown layer %s", k)
	}
}

// NewBackwardBatch creates the backward batch of kind k.
func NewBackwardBatch[T tensor.Float](k layers.Kind, opts ...layers.Option) (*backward.Batch[T], error) {
	switch k {
	case layers.Abs:
		return abs.NewBackward[T](opts...)
	case layers.Tanh:
		return tanh.NewBackward[T](opts...)
	case layers.ReLU:
		return relu.NewBackward[T](opts...)
	case layers.Logistic:
		return logistic.NewBackward[T](opts...)
	default:
		return nil, fmt.Errorf("backward: unknown layer %s", k)
	}
}

// NewForward is NewForwardBatch behind the forward.Layer interface.
func NewForward[T tensor.Float](k layers.Kind, opts ...layers.Option) (forward.Layer, error) {
	b, err := NewForwardBatch[T](k, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewBackward is NewBackwardBatch behind the backward.Layer interface.
func NewBackward[T tensor.Float](k layers.Kind, opts ...layers.Option) (backward.Layer, error) {
	b, err := NewBackwardBatch[T](k, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Pass names a direction of a layer.
type Pass string

// Layer passes.
const (
	Forward  Pass = "forward"
	Backward Pass = "backward"
)

// Specialization is one registered container.
type Specialization struct {
	Kind layers.Kind
	Pass Pass
	Key  algorithm.Key
}

// Specializations lists every registered container of every layer, ordered
// by kind, then pass, then key.
func Specializations() []Specialization {
	type lister struct {
		kind     layers.Kind
		forward  func() []algorithm.Key
		backward func() []algorithm.Key
	}
	listers := []lister{
		{layers.Abs, abs.ForwardSpecializations, abs.BackwardSpecializations},
		{layers.Tanh, tanh.ForwardSpecializations, tanh.BackwardSpecializations},
		{layers.ReLU, relu.ForwardSpecializations, relu.BackwardSpecializations},
		{layers.Logistic, logistic.ForwardSpecializations, logistic.BackwardSpecializations},
	}

	var out []Specialization
	for _, l := range listers {
		for _, k := range l.forward() {
			out = append(out, Specialization{Kind: l.kind, Pass: Forward, Key: k})
		}
		for _, k := range l.backward() {
			out = append(out, Specialization{Kind: l.kind, Pass: Backward, Key: k})
		}
	}
	return out
}
