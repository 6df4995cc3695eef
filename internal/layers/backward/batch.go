package backward

import (
	"fmt"

	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/tensor"
)

// Spec describes a layer's backward pass to the generic Batch.
type Spec struct {
	Kind         layers.Kind
	AuxID        layers.LayerDataID
	AuxName      string // used in error messages, e.g. "auxData"
	HasParameter bool
	Containers   *algorithm.Registry[Container]
}

// Batch is a configured, executable backward pass with element type T.
//
// The gradient result is shaped like the auxiliary tensor of the forward
// pass, which is the shape of the forward input for every elementwise layer.
type Batch[T tensor.Float] struct {
	spec      Spec
	method    layers.Method
	env       *env.Environment
	input     *Input
	param     *layers.Parameter
	result    *Result
	container Container
	state     layers.State
}

// NewBatch binds the container for (T, method, CPU of the environment).
// Supplying a parameter to a layer whose backward pass has none fails with
// layers.ErrAbsentParameter.
func NewBatch[T tensor.Float](spec Spec, opts ...layers.Option) (*Batch[T], error) {
	o := layers.ApplyOptions(opts...)

	var param *layers.Parameter
	switch {
	case spec.HasParameter && o.Parameter != nil:
		p := *o.Parameter
		param = &p
	case spec.HasParameter:
		p := layers.DefaultParameter()
		param = &p
	case o.Parameter != nil:
		return nil, &layers.CheckError{Layer: spec.Kind, Slot: "parameter", Err: layers.ErrAbsentParameter}
	}

	key := algorithm.Key{DType: tensor.DTypeOf[T](), Method: int(o.Method), CPU: o.Env.CPU()}
	container, err := spec.Containers.Bind(key, o.Env)
	if err != nil {
		return nil, err
	}

	o.Env.Logger().Debug("bound layer container",
		"layer", spec.Kind, "pass", "backward", "specialization", key)

	return &Batch[T]{
		spec:      spec,
		method:    o.Method,
		env:       o.Env,
		input:     NewInput(),
		param:     param,
		result:    NewResult(),
		container: container,
		state:     layers.Constructed,
	}, nil
}

// Kind returns the layer kind.
func (b *Batch[T]) Kind() layers.Kind {
	return b.spec.Kind
}

// Method returns the bound method.
func (b *Batch[T]) Method() layers.Method {
	return b.method
}

// State returns the lifecycle state.
func (b *Batch[T]) State() layers.State {
	return b.state
}

// Environment returns the environment the container was bound to.
func (b *Batch[T]) Environment() *env.Environment {
	return b.env
}

// LayerInput returns the owned input.
func (b *Batch[T]) LayerInput() *Input {
	return b.input
}

// LayerParameter returns the parameter, or (nil, false) for layers whose
// backward pass takes none.
func (b *Batch[T]) LayerParameter() (*layers.Parameter, bool) {
	return b.param, b.param != nil
}

// Result returns the current result.
func (b *Batch[T]) Result() *Result {
	return b.result
}

// LayerResult returns the current result.
func (b *Batch[T]) LayerResult() *Result {
	return b.result
}

// SetResult replaces the result with a caller-supplied one. The next
// AllocateResult populates r instead of creating tensors elsewhere.
func (b *Batch[T]) SetResult(r *Result) error {
	if r == nil {
		return &layers.CheckError{Layer: b.spec.Kind, Slot: "result", Err: layers.ErrNilResult}
	}
	b.result = r
	b.state = layers.Constructed
	return nil
}

// LinkForward wires the layer data of a forward result into inputFromForward.
func (b *Batch[T]) LinkForward(r *forward.Result) error {
	if r == nil {
		return &layers.CheckError{Layer: b.spec.Kind, Slot: InputFromForward.String(), Err: layers.ErrNilResult}
	}
	ld := r.ResultForBackward()
	if ld == nil {
		return &layers.CheckError{
			Layer:   b.spec.Kind,
			Slot:    InputFromForward.String(),
			Details: "forward result has no layer data (prediction stage?)",
			Err:     layers.ErrMissingInput,
		}
	}
	b.input.SetFromForward(ld)
	return nil
}

func (b *Batch[T]) propagates() bool {
	return b.param == nil || b.param.PropagateGradient
}

// checkInput validates both input slots and returns the auxiliary tensor.
func (b *Batch[T]) checkInput() (*tensor.Tensor, error) {
	kind := b.spec.Kind
	dtype := tensor.DTypeOf[T]()

	if err := layers.CheckTensor(kind, InputGradient.String(), b.input.gradient, dtype, nil); err != nil {
		return nil, err
	}

	ld := b.input.fromForward
	if ld == nil {
		return nil, &layers.CheckError{Layer: kind, Slot: InputFromForward.String(), Err: layers.ErrMissingInput}
	}
	if ld.Kind() != kind || ld.Method() != b.method {
		return nil, &layers.CheckError{
			Layer:   kind,
			Slot:    InputFromForward.String(),
			Details: fmt.Sprintf("got %s/%s, want %s/%s", ld.Kind(), ld.Method(), kind, b.method),
			Err:     layers.ErrLayerMismatch,
		}
	}

	aux := ld.Get(b.spec.AuxID)
	slot := InputFromForward.String() + "." + b.spec.AuxName
	if err := layers.CheckTensor(kind, slot, aux, dtype, b.input.gradient.Shape()); err != nil {
		return nil, err
	}
	return aux, nil
}

// AllocateResult sizes the gradient slot from the forward layer data. A
// gradient of the right dtype and shape is kept, so repeated calls are
// idempotent. A gradient the batch allocated earlier is replaced when the
// shape changed; one supplied through Result.Set must match. On error the
// result is left untouched and the batch returns to layers.Constructed. When
// the parameter disables gradient propagation nothing is allocated.
func (b *Batch[T]) AllocateResult() error {
	if !b.propagates() {
		b.state = layers.Allocated
		return nil
	}

	aux, err := b.checkInput()
	if err != nil {
		b.state = layers.Constructed
		return err
	}

	dtype := tensor.DTypeOf[T]()
	shape := aux.Shape()

	grad, owned := b.result.gradient, b.result.gradientOwned
	if grad == nil || (owned && (grad.DType() != dtype || !grad.Shape().Equal(shape))) {
		if grad, err = tensor.New(shape, dtype); err != nil {
			b.state = layers.Constructed
			return fmt.Errorf("%s backward: allocate gradient: %w", b.spec.Kind, err)
		}
		owned = true
	} else if err := layers.CheckTensor(b.spec.Kind, Gradient.String(), grad, dtype, shape); err != nil {
		b.state = layers.Constructed
		return err
	}

	b.result.gradient = grad
	b.result.gradientOwned = owned
	b.state = layers.Allocated

	b.env.Logger().Debug("allocated layer result",
		"layer", b.spec.Kind, "pass", "backward", "shape", shape)
	return nil
}

// Compute runs the bound container over the current input and result.
func (b *Batch[T]) Compute() error {
	if b.state == layers.Constructed {
		return &layers.CheckError{Layer: b.spec.Kind, Slot: "result", Err: layers.ErrNotAllocated}
	}
	if !b.propagates() {
		b.state = layers.Executed
		return nil
	}

	aux, err := b.checkInput()
	if err != nil {
		return err
	}
	if err := layers.CheckTensor(b.spec.Kind, Gradient.String(), b.result.gradient, tensor.DTypeOf[T](), aux.Shape()); err != nil {
		return err
	}

	if err := b.container.Compute(b.input, b.result, b.param); err != nil {
		return fmt.Errorf("%s backward: %w", b.spec.Kind, err)
	}
	b.state = layers.Executed
	return nil
}

// Clone returns a batch with the same method, parameter and input tensors,
// a fresh unallocated result, and the same container specialization. The
// clone gets its own copy of the layer-data bundle.
func (b *Batch[T]) Clone() *Batch[T] {
	var param *layers.Parameter
	if b.param != nil {
		p := *b.param
		param = &p
	}
	return &Batch[T]{
		spec:      b.spec,
		method:    b.method,
		env:       b.env,
		input:     b.input.clone(),
		param:     param,
		result:    NewResult(),
		container: b.container,
		state:     layers.Constructed,
	}
}

// CloneLayer is Clone behind the Layer interface.
func (b *Batch[T]) CloneLayer() Layer {
	return b.Clone()
}
