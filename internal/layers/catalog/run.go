package catalog

import (
	"fmt"
	"slices"

	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/tensor"
)

// Step holds the outcome of one forward and backward pass.
//
// Gradient is nil when the backward parameter has PropagateGradient unset:
// the backward batch then allocates and computes nothing.
type Step struct {
	Value    *tensor.Tensor // forward output
	Gradient *tensor.Tensor // gradient with respect to the forward input, or nil
}

// Train runs the forward pass of kind k on x, then the backward pass with
// incoming gradient g, linked through the forward layer data.
func Train[T tensor.Float](k layers.Kind, x, g *tensor.Tensor, opts ...layers.Option) (Step, error) {
	fwd, err := NewForwardBatch[T](k, opts...)
	if err != nil {
		return Step{}, err
	}
	fwd.LayerInput().Set(forward.Data, x)
	if err := fwd.AllocateResult(); err != nil {
		return Step{}, err
	}
	if err := fwd.Compute(); err != nil {
		return Step{}, err
	}

	bwd, err := NewBackwardBatch[T](k, backwardOptions(k, opts)...)
	if err != nil {
		return Step{}, err
	}
	bwd.LayerInput().SetGradient(g)
	if err := bwd.LinkForward(fwd.Result()); err != nil {
		return Step{}, err
	}
	if err := bwd.AllocateResult(); err != nil {
		return Step{}, err
	}
	if err := bwd.Compute(); err != nil {
		return Step{}, err
	}

	return Step{
		Value:    fwd.Result().Get(forward.Value),
		Gradient: bwd.Result().Get(backward.Gradient),
	}, nil
}

// Predict runs only the forward pass of kind k in prediction stage.
func Predict[T tensor.Float](k layers.Kind, x *tensor.Tensor, opts ...layers.Option) (*tensor.Tensor, error) {
	opts = append(slices.Clip(opts), layers.WithParameter(layers.Parameter{PredictionStage: true}))
	fwd, err := NewForwardBatch[T](k, opts...)
	if err != nil {
		return nil, err
	}
	fwd.LayerInput().Set(forward.Data, x)
	if err := fwd.AllocateResult(); err != nil {
		return nil, err
	}
	if err := fwd.Compute(); err != nil {
		return nil, fmt.Errorf("predict %s: %w", k, err)
	}
	return fwd.Result().Get(forward.Value), nil
}

// backwardOptions drops a forward parameter for layers whose backward pass
// takes none, so Train accepts the same options for every kind.
func backwardOptions(k layers.Kind, opts []layers.Option) []layers.Option {
	if d, ok := layers.Describe(k); ok && d.BackwardParameter {
		return opts
	}
	resolved := layers.ApplyOptions(opts...)
	return []layers.Option{layers.WithEnvironment(resolved.Env), layers.WithMethod(resolved.Method)}
}
