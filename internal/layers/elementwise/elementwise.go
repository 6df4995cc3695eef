// Package elementwise provides forward and backward containers for layers
// whose kernels map each element independently. A layer supplies a scalar and
// a vector kernel; the kernel is chosen from the CPU key when the container is
// registered, so Compute itself never branches on the CPU. A layer without a
// vector kernel leaves it nil and runs the scalar kernel everywhere.
package elementwise

import (
	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/parallel"
	"github.com/born-ml/layerkit/internal/tensor"
)

// UnaryKernel computes dst[i] = f(src[i]). len(src) == len(dst).
type UnaryKernel[T tensor.Float] func(src, dst []T)

// GradientKernel computes dst[i] = grad[i] * f'(aux[i]). All slices share a length.
type GradientKernel[T tensor.Float] func(grad, aux, dst []T)

// Kernels is the set of kernels one layer provides for element type T.
// ForwardVector and BackwardVector may be nil.
type Kernels[T tensor.Float] struct {
	Forward        UnaryKernel[T]
	ForwardVector  UnaryKernel[T]
	Backward       GradientKernel[T]
	BackwardVector GradientKernel[T]
}

type forwardContainer[T tensor.Float] struct {
	kernel UnaryKernel[T]
	par    parallel.Config
}

// Compute applies the kernel to the data slot, writing the value slot.
func (c *forwardContainer[T]) Compute(in *forward.Input, res *forward.Result, _ *layers.Parameter) error {
	src := tensor.Data[T](in.Get(forward.Data))
	dst := tensor.Data[T](res.Get(forward.Value))
	parallel.For(len(dst), func(start, end int) {
		c.kernel(src[start:end], dst[start:end])
	}, c.par)
	return nil
}

type backwardContainer[T tensor.Float] struct {
	auxID  layers.LayerDataID
	kernel GradientKernel[T]
	par    parallel.Config
}

// Compute combines the incoming gradient with the forward layer data.
func (c *backwardContainer[T]) Compute(in *backward.Input, res *backward.Result, _ *layers.Parameter) error {
	grad := tensor.Data[T](in.Gradient())
	aux := tensor.Data[T](in.Aux(c.auxID))
	dst := tensor.Data[T](res.Get(backward.Gradient))
	parallel.For(len(dst), func(start, end int) {
		c.kernel(grad[start:end], aux[start:end], dst[start:end])
	}, c.par)
	return nil
}

// Register adds forward and backward containers for element type T and
// method m on every known CPU target.
func Register[T tensor.Float](
	fwd *algorithm.Registry[forward.Container],
	bwd *algorithm.Registry[backward.Container],
	m layers.Method,
	auxID layers.LayerDataID,
	k Kernels[T],
) {
	dtype := tensor.DTypeOf[T]()
	for _, cpu := range env.CPUs() {
		key := algorithm.Key{DType: dtype, Method: int(m), CPU: cpu}

		fk, bk := k.Forward, k.Backward
		if cpu.Vector() {
			if k.ForwardVector != nil {
				fk = k.ForwardVector
			}
			if k.BackwardVector != nil {
				bk = k.BackwardVector
			}
		}

		fwd.Register(key, func(e *env.Environment) forward.Container {
			return &forwardContainer[T]{kernel: fk, par: e.Parallel()}
		})
		bwd.Register(key, func(e *env.Environment) backward.Container {
			return &backwardContainer[T]{auxID: auxID, kernel: bk, par: e.Parallel()}
		})
	}
}
