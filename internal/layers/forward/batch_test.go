package forward

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/born-ml/layerkit/internal/algorithm"
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/parallel"
	"github.com/born-ml/layerkit/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const auxID layers.LayerDataID = 3

var errBoom = errors.New("boom")

// doubler writes 2*x and counts its calls.
type doubler struct {
	calls *int
	fail  bool
}

func (d *doubler) Compute(in *Input, res *Result, _ *layers.Parameter) error {
	*d.calls++
	if d.fail {
		return errBoom
	}
	x := in.Get(Data).AsFloat32()
	y := res.Get(Value).AsFloat32()
	for i := range x {
		y[i] = 2 * x[i]
	}
	return nil
}

func testSpec(source AuxSource, fail bool) (Spec, *int) {
	calls := new(int)
	r := algorithm.NewRegistry[Container]("double forward")
	r.Register(algorithm.Key{DType: tensor.Float32, CPU: env.Scalar}, func(*env.Environment) Container {
		return &doubler{calls: calls, fail: fail}
	})
	return Spec{Kind: layers.Tanh, AuxID: auxID, AuxSource: source, Containers: r}, calls
}

func testEnv() *env.Environment {
	return env.New(
		env.WithCPU(env.Scalar),
		env.WithParallel(parallel.Sequential()),
		env.WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func input(t *testing.T, data ...float32) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	return x
}

func TestNewBatch_Unsupported(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)

	_, err := NewBatch[float64](spec, layers.WithEnvironment(testEnv()))
	require.ErrorIs(t, err, algorithm.ErrUnsupportedSpecialization)

	_, err = NewBatch[float32](spec, layers.WithEnvironment(env.New(env.WithCPU(env.AVX2))))
	require.ErrorIs(t, err, algorithm.ErrUnsupportedSpecialization)
}

func TestBatch_AuxFromInput(t *testing.T) {
	spec, calls := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	var l Layer = b
	assert.Equal(t, layers.Tanh, l.Kind())

	x := input(t, 1, -2)
	b.LayerInput().Set(Data, x)
	require.NoError(t, b.AllocateResult())

	ld := b.Result().ResultForBackward()
	require.NotNil(t, ld)
	assert.Equal(t, layers.Tanh, ld.Kind())
	assert.Same(t, x, ld.Get(auxID), "aux is published at allocation")

	require.NoError(t, b.Compute())
	assert.Equal(t, 1, *calls)
	assert.Equal(t, []float32{2, -4}, b.Result().Get(Value).AsFloat32())
	assert.Equal(t, layers.Executed, b.State())
}

func TestBatch_AuxFromValue(t *testing.T) {
	spec, _ := testSpec(AuxFromValue, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	b.LayerInput().Set(Data, input(t, 3))
	require.NoError(t, b.AllocateResult())
	require.NoError(t, b.Compute())

	value := b.Result().Get(Value)
	assert.Same(t, value, b.Result().ResultForBackward().Get(auxID))
	assert.Equal(t, []float32{6}, value.AsFloat32())
}

func TestBatch_AllocateKeepsMatchingStorage(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)
	b.LayerInput().Set(Data, input(t, 1, 2, 3))

	require.NoError(t, b.AllocateResult())
	value := b.Result().Get(Value)
	ld := b.Result().ResultForBackward()

	require.NoError(t, b.AllocateResult())
	assert.Same(t, value, b.Result().Get(Value))
	assert.Same(t, ld, b.Result().ResultForBackward())
}

func TestBatch_ReallocatesOwnedValue(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	b.LayerInput().Set(Data, input(t, 1, 2))
	require.NoError(t, b.AllocateResult())
	require.NoError(t, b.Compute())
	old := b.Result().Get(Value)
	ld := b.Result().ResultForBackward()

	x := input(t, 1, 2, 3)
	b.LayerInput().Set(Data, x)
	require.NoError(t, b.AllocateResult())
	assert.Equal(t, layers.Allocated, b.State())
	assert.Equal(t, tensor.Shape{3}, b.Result().Get(Value).Shape())
	assert.Equal(t, tensor.Shape{2}, old.Shape())
	assert.Same(t, ld, b.Result().ResultForBackward())
	assert.Same(t, x, ld.Get(auxID))

	require.NoError(t, b.Compute())
	assert.Equal(t, []float32{2, 4, 6}, b.Result().Get(Value).AsFloat32())
}

func TestBatch_SuppliedValueIsNotReplaced(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	b.LayerInput().Set(Data, input(t, 1, 2))
	require.NoError(t, b.AllocateResult())

	// Storage handed over through Set is the caller's, even on a result
	// the batch allocated before.
	supplied := input(t, 0, 0)
	b.Result().Set(Value, supplied)
	b.LayerInput().Set(Data, input(t, 1, 2, 3))

	require.ErrorIs(t, b.AllocateResult(), layers.ErrShapeMismatch)
	assert.Same(t, supplied, b.Result().Get(Value))
	assert.Equal(t, layers.Constructed, b.State())
}

func TestBatch_AllocateReplacesForeignLayerData(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	res := NewResult()
	foreign := layers.NewLayerData(layers.ReLU, layers.DefaultDense)
	res.SetResultForBackward(foreign)
	require.NoError(t, b.SetResult(res))

	b.LayerInput().Set(Data, input(t, 1))
	require.NoError(t, b.AllocateResult())
	assert.NotSame(t, foreign, res.ResultForBackward())
	assert.Equal(t, layers.Tanh, res.ResultForBackward().Kind())
}

func TestBatch_AllocateFailureLeavesResult(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	wrong, err := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	require.NoError(t, err)
	b.LayerInput().Set(Data, wrong)

	require.ErrorIs(t, b.AllocateResult(), layers.ErrDTypeMismatch)
	assert.Nil(t, b.Result().Get(Value))
	assert.Nil(t, b.Result().ResultForBackward())
	assert.Equal(t, layers.Constructed, b.State())
}

func TestBatch_ComputeChecks(t *testing.T) {
	spec, calls := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	require.ErrorIs(t, b.Compute(), layers.ErrNotAllocated)

	b.LayerInput().Set(Data, input(t, 1, 2))
	require.NoError(t, b.AllocateResult())

	// Input swapped for another shape after allocation.
	b.LayerInput().Set(Data, input(t, 1, 2, 3))
	require.ErrorIs(t, b.Compute(), layers.ErrShapeMismatch)

	// Layer data dropped by the caller.
	b.LayerInput().Set(Data, input(t, 1, 2))
	b.Result().SetResultForBackward(nil)
	require.ErrorIs(t, b.Compute(), layers.ErrNotAllocated)
	assert.Zero(t, *calls)
}

func TestBatch_ContainerError(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, true)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)
	b.LayerInput().Set(Data, input(t, 1))
	require.NoError(t, b.AllocateResult())

	err = b.Compute()
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "tanh forward")
	assert.Equal(t, layers.Allocated, b.State())
}

func TestBatch_PredictionStage(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec,
		layers.WithEnvironment(testEnv()),
		layers.WithParameter(layers.Parameter{PredictionStage: true}),
	)
	require.NoError(t, err)

	p, ok := b.LayerParameter()
	require.True(t, ok)
	assert.True(t, p.PredictionStage)

	b.LayerInput().Set(Data, input(t, 5))
	require.NoError(t, b.AllocateResult())
	require.NoError(t, b.Compute())
	assert.Nil(t, b.Result().ResultForBackward())
	assert.Equal(t, []float32{10}, b.Result().Get(Value).AsFloat32())
}

func TestBatch_ParameterIsMutable(t *testing.T) {
	spec, _ := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)

	p, _ := b.LayerParameter()
	p.PredictionStage = true
	b.LayerInput().Set(Data, input(t, 1))
	require.NoError(t, b.AllocateResult())
	assert.Nil(t, b.Result().ResultForBackward())
}

func TestBatch_Clone(t *testing.T) {
	spec, calls := testSpec(AuxFromInput, false)
	b, err := NewBatch[float32](spec, layers.WithEnvironment(testEnv()))
	require.NoError(t, err)
	x := input(t, 4)
	b.LayerInput().Set(Data, x)
	require.NoError(t, b.AllocateResult())

	c := b.Clone()
	assert.Equal(t, layers.Constructed, c.State())
	assert.Same(t, x, c.LayerInput().Get(Data))
	assert.NotSame(t, b.LayerInput(), c.LayerInput())
	assert.Nil(t, c.Result().Get(Value))
	assert.Same(t, b.Environment(), c.Environment())

	require.NoError(t, c.AllocateResult())
	require.NoError(t, c.Compute())
	assert.Equal(t, 1, *calls, "clone runs the same container specialization")
	assert.Equal(t, layers.Allocated, b.State())

	cl := b.CloneLayer()
	assert.Equal(t, b.Method(), cl.Method())
}

func TestSlotNames(t *testing.T) {
	assert.Equal(t, "data", Data.String())
	assert.Equal(t, "value", Value.String())
	assert.Equal(t, "unknown", InputID(5).String())
	assert.Equal(t, "unknown", ResultID(5).String())

	in := NewInput()
	in.Set(InputID(5), input(t, 1))
	assert.Nil(t, in.Get(InputID(5)))
}
