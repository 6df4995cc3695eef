// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layers

import (
	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/catalog"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/tensor"
)

// Type aliases for public API

// Kind identifies a layer family.
type Kind = layers.Kind

// Layer kinds.
const (
	Abs      Kind = layers.Abs
	Tanh     Kind = layers.Tanh
	ReLU     Kind = layers.ReLU
	Logistic Kind = layers.Logistic
)

// Method selects the computation variant of a layer.
type Method = layers.Method

// DefaultDense is the only method every layer supports.
const DefaultDense Method = layers.DefaultDense

// State is the lifecycle state of a batch.
type State = layers.State

// Batch states.
const (
	Constructed State = layers.Constructed
	Allocated   State = layers.Allocated
	Executed    State = layers.Executed
)

// Parameter is the configuration common to layer passes.
type Parameter = layers.Parameter

// LayerData is the bundle a forward result hands to a backward input.
type LayerData = layers.LayerData

// LayerDataID names one tensor inside a LayerData.
type LayerDataID = layers.LayerDataID

// Descriptor is the static identity of a layer.
type Descriptor = layers.Descriptor

// CheckError reports which slot failed validation.
type CheckError = layers.CheckError

// Option configures a batch at construction.
type Option = layers.Option

// ForwardBatch is a forward pass with element type T.
type ForwardBatch[T tensor.Float] = forward.Batch[T]

// BackwardBatch is a backward pass with element type T.
type BackwardBatch[T tensor.Float] = backward.Batch[T]

// ForwardLayer is a forward batch of any element type.
type ForwardLayer = forward.Layer

// BackwardLayer is a backward batch of any element type.
type BackwardLayer = backward.Layer

// ForwardResult holds the output value and the layer data of a forward pass.
type ForwardResult = forward.Result

// BackwardResult holds the gradient of a backward pass.
type BackwardResult = backward.Result

// Step holds the outcome of Train.
type Step = catalog.Step

// Slot ids.
const (
	Data     = forward.Data
	Value    = forward.Value
	Gradient = backward.Gradient
)

// Errors.
var (
	ErrMissingInput              = layers.ErrMissingInput
	ErrAbsentParameter           = layers.ErrAbsentParameter
	ErrLayerMismatch             = layers.ErrLayerMismatch
	ErrNilResult                 = layers.ErrNilResult
	ErrDTypeMismatch             = layers.ErrDTypeMismatch
	ErrShapeMismatch             = layers.ErrShapeMismatch
	ErrNotAllocated              = layers.ErrNotAllocated
	ErrUnsupportedSpecialization = algorithm.ErrUnsupportedSpecialization
)

// DefaultParameter returns a training-stage parameter that propagates gradients.
func DefaultParameter() Parameter {
	return layers.DefaultParameter()
}

// WithMethod selects the computation method.
func WithMethod(m Method) Option {
	return layers.WithMethod(m)
}

// WithParameter sets the layer parameter.
func WithParameter(p Parameter) Option {
	return layers.WithParameter(p)
}

// WithEnvironment binds the batch to an environment built by NewEnvironment.
func WithEnvironment(e *Environment) Option {
	return layers.WithEnvironment(e)
}

// Kinds lists every layer kind.
func Kinds() []Kind {
	return layers.Kinds()
}

// ParseKind looks a layer kind up by name.
func ParseKind(name string) (Kind, error) {
	return layers.ParseKind(name)
}

// Describe returns the descriptor of k.
func Describe(k Kind) (Descriptor, bool) {
	return layers.Describe(k)
}

// NewForward creates the forward batch of layer k.
func NewForward[T tensor.Float](k Kind, opts ...Option) (*ForwardBatch[T], error) {
	return catalog.NewForwardBatch[T](k, opts...)
}

// NewBackward creates the backward batch of layer k.
func NewBackward[T tensor.Float](k Kind, opts ...Option) (*BackwardBatch[T], error) {
	return catalog.NewBackwardBatch[T](k, opts...)
}

// Train runs the forward pass of k on x and the backward pass with gradient g.
func Train[T tensor.Float](k Kind, x, g *tensor.Tensor, opts ...Option) (Step, error) {
	return catalog.Train[T](k, x, g, opts...)
}

// Predict runs the forward pass of k on x without keeping layer data.
func Predict[T tensor.Float](k Kind, x *tensor.Tensor, opts ...Option) (*tensor.Tensor, error) {
	return catalog.Predict[T](k, x, opts...)
}

// Environment is the CPU target, parallelism and logger a batch is bound to.
type Environment = env.Environment

// EnvOption configures an Environment.
type EnvOption = env.Option

// CPU is a kernel target.
type CPU = env.CPU

// CPU targets.
const (
	Scalar CPU = env.Scalar
	SSE2   CPU = env.SSE2
	AVX2   CPU = env.AVX2
	AVX512 CPU = env.AVX512
	NEON   CPU = env.NEON
	SVE    CPU = env.SVE
)

// NewEnvironment creates an environment for the detected CPU.
func NewEnvironment(opts ...EnvOption) *Environment {
	return env.New(opts...)
}

// WithCPU pins the CPU target.
func WithCPU(c CPU) EnvOption {
	return env.WithCPU(c)
}
