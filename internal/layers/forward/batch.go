package forward

import (
	"fmt"

	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/tensor"
)

// AuxSource says which tensor a layer persists as layer data.
type AuxSource int

const (
	// AuxFromInput persists the forward input (abs, relu).
	AuxFromInput AuxSource = iota

	// AuxFromValue persists the forward output (tanh, logistic).
	AuxFromValue
)

// Spec describes a layer's forward pass to the generic Batch.
type Spec struct {
	Kind       layers.Kind
	AuxID      layers.LayerDataID
	AuxSource  AuxSource
	Containers *algorithm.Registry[Container]
}

// Batch is a configured, executable forward pass with element type T.
//
// Lifecycle: NewBatch -> set input -> AllocateResult -> Compute. Compute on a
// batch whose result was never allocated fails with layers.ErrNotAllocated.
type Batch[T tensor.Float] struct {
	spec      Spec
	method    layers.Method
	env       *env.Environment
	input     *Input
	param     layers.Parameter
	result    *Result
	container Container
	state     layers.State
}

// NewBatch binds the container for (T, method, CPU of the environment).
// An unregistered combination fails here rather than at Compute.
func NewBatch[T tensor.Float](spec Spec, opts ...layers.Option) (*Batch[T], error) {
	o := layers.ApplyOptions(opts...)

	key := algorithm.Key{DType: tensor.DTypeOf[T](), Method: int(o.Method), CPU: o.Env.CPU()}
	container, err := spec.Containers.Bind(key, o.Env)
	if err != nil {
		return nil, err
	}

	param := layers.DefaultParameter()
	if o.Parameter != nil {
		param = *o.Parameter
	}

	o.Env.Logger().Debug("bound layer container",
		"layer", spec.Kind, "pass", "forward", "specialization", key)

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

// LayerParameter returns the owned parameter. Forward passes always have one.
func (b *Batch[T]) LayerParameter() (*layers.Parameter, bool) {
	return &b.param, true
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

// AllocateResult sizes every result slot from the input shape. Slots that
// already hold a tensor of the right dtype and shape are kept, so repeated
// calls are idempotent. A slot the batch allocated earlier is replaced when
// the input shape changed; storage supplied through Result.Set must match.
// On error the result is left untouched and the batch returns to
// layers.Constructed.
func (b *Batch[T]) AllocateResult() error {
	dtype := tensor.DTypeOf[T]()
	if err := b.input.Check(b.spec.Kind, dtype); err != nil {
		b.state = layers.Constructed
		return err
	}
	data := b.input.Get(Data)
	shape := data.Shape()

	value, owned := b.result.value, b.result.valueOwned
	if value == nil || (owned && !fits(value, dtype, shape)) {
		var err error
		if value, err = tensor.New(shape, dtype); err != nil {
			b.state = layers.Constructed
			return fmt.Errorf("%s forward: allocate value: %w", b.spec.Kind, err)
		}
		owned = true
	} else if err := layers.CheckTensor(b.spec.Kind, Value.String(), value, dtype, shape); err != nil {
		b.state = layers.Constructed
		return err
	}

	var ld *layers.LayerData
	if !b.param.PredictionStage {
		ld = b.result.forBackward
		if ld == nil || ld.Kind() != b.spec.Kind || ld.Method() != b.method {
			ld = layers.NewLayerData(b.spec.Kind, b.method)
		}
	}

	b.result.value = value
	b.result.valueOwned = owned
	b.result.forBackward = ld
	b.publishLayerData()
	b.state = layers.Allocated

	b.env.Logger().Debug("allocated layer result",
		"layer", b.spec.Kind, "pass", "forward", "shape", shape)
	return nil
}

// Compute runs the bound container over the current input and result.
func (b *Batch[T]) Compute() error {
	if b.state == layers.Constructed {
		return &layers.CheckError{Layer: b.spec.Kind, Slot: "result", Err: layers.ErrNotAllocated}
	}
	if err := b.checkResult(); err != nil {
		return err
	}
	if err := b.container.Compute(b.input, b.result, &b.param); err != nil {
		return fmt.Errorf("%s forward: %w", b.spec.Kind, err)
	}
	b.publishLayerData()
	b.state = layers.Executed
	return nil
}

func (b *Batch[T]) checkResult() error {
	dtype := tensor.DTypeOf[T]()
	if err := b.input.Check(b.spec.Kind, dtype); err != nil {
		return err
	}
	shape := b.input.Get(Data).Shape()
	if err := layers.CheckTensor(b.spec.Kind, Value.String(), b.result.value, dtype, shape); err != nil {
		return err
	}
	if !b.param.PredictionStage && b.result.forBackward == nil {
		return &layers.CheckError{Layer: b.spec.Kind, Slot: resultForBackwardSlot, Err: layers.ErrNotAllocated}
	}
	return nil
}

// publishLayerData points the auxiliary slot at the tensor the backward pass
// needs. It runs again after Compute so a swapped input is picked up.
func (b *Batch[T]) publishLayerData() {
	ld := b.result.forBackward
	if ld == nil {
		return
	}
	switch b.spec.AuxSource {
	case AuxFromInput:
		ld.Set(b.spec.AuxID, b.input.Get(Data))
	case AuxFromValue:
		ld.Set(b.spec.AuxID, b.result.value)
	}
}

// Clone returns a batch with the same method, parameter and input tensors,
// a fresh unallocated result, and the same container specialization.
// Containers hold no per-call state, so the clone shares it.
func (b *Batch[T]) Clone() *Batch[T] {
	return &Batch[T]{
		spec:      b.spec,
		method:    b.method,
		env:       b.env,
		input:     b.input.clone(),
		param:     b.param,
		result:    NewResult(),
		container: b.container,
		state:     layers.Constructed,
	}
}

// CloneLayer is Clone behind the Layer interface.
func (b *Batch[T]) CloneLayer() Layer {
	return b.Clone()
}

// fits reports whether t can hold a result of dtype and shape.
func fits(t *tensor.Tensor, dtype tensor.DataType, shape tensor.Shape) bool {
	return t.DType() == dtype && t.Shape().Equal(shape)
}
