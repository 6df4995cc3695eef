package logistic

import (
	"log/slog"
	"math"
	"testing"

	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/backward"
	"github.com/born-ml/layerkit/internal/layers/forward"
	"github.com/born-ml/layerkit/internal/parallel"
	"github.com/born-ml/layerkit/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(cpu env.CPU) *env.Environment {
	return env.New(
		env.WithCPU(cpu),
		env.WithParallel(parallel.Sequential()),
		env.WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, sigmoid(0))
	assert.InDelta(t, 1/(1+math.Exp(-3)), sigmoid(3), 1e-15)
	assert.InDelta(t, 1/(1+math.Exp(3)), sigmoid(-3), 1e-15)
	assert.Equal(t, 1.0, sigmoid(800))
	assert.Equal(t, 0.0, sigmoid(-800))
	assert.False(t, math.IsNaN(sigmoid(-800)))
}

func TestLogistic_ForwardBackward(t *testing.T) {
	xs := []float64{-4, -1, 0, 1, 4}
	for _, cpu := range []env.CPU{env.Scalar, env.AVX512} {
		t.Run(cpu.String(), func(t *testing.T) {
			e := testEnv(cpu)
			x, err := tensor.FromSlice(xs, tensor.Shape{5})
			require.NoError(t, err)

			fwd, err := NewForward[float64](layers.WithEnvironment(e))
			require.NoError(t, err)
			fwd.LayerInput().Set(forward.Data, x)
			require.NoError(t, fwd.AllocateResult())
			require.NoError(t, fwd.Compute())

			y := fwd.Result().Get(forward.Value).AsFloat64()
			assert.Equal(t, 0.5, y[2])

			g, err := tensor.FromSlice([]float64{1, 1, 1, 1, 2}, tensor.Shape{5})
			require.NoError(t, err)
			bwd, err := NewBackward[float64](layers.WithEnvironment(e))
			require.NoError(t, err)
			bwd.LayerInput().SetGradient(g)
			require.NoError(t, bwd.LinkForward(fwd.Result()))
			require.NoError(t, bwd.AllocateResult())
			require.NoError(t, bwd.Compute())

			dx := bwd.Result().Get(backward.Gradient).AsFloat64()
			assert.Equal(t, 0.25, dx[2])
			assert.InDelta(t, dx[1], dx[3], 1e-15, "derivative is symmetric")
			assert.InDelta(t, 2*y[4]*(1-y[4]), dx[4], 1e-15)
		})
	}
}

func TestLogistic_Float32(t *testing.T) {
	e := testEnv(env.SVE)
	x, err := tensor.FromSlice([]float32{0, 0, 0, 0, 0}, tensor.Shape{5})
	require.NoError(t, err)

	fwd, err := NewForward[float32](layers.WithEnvironment(e))
	require.NoError(t, err)
	fwd.LayerInput().Set(forward.Data, x)
	require.NoError(t, fwd.AllocateResult())
	require.NoError(t, fwd.Compute())

	bwd, err := NewBackward[float32](layers.WithEnvironment(e))
	require.NoError(t, err)
	bwd.LayerInput().SetGradient(x)
	require.NoError(t, bwd.LinkForward(fwd.Result()))
	require.NoError(t, bwd.AllocateResult())
	require.NoError(t, bwd.Compute())

	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5, 0.5}, fwd.Result().Get(forward.Value).AsFloat32())
	assert.Equal(t, []float32{0, 0, 0, 0, 0}, bwd.Result().Get(backward.Gradient).AsFloat32())
}

func TestLogistic_KernelsAgree(t *testing.T) {
	y := []float64{0.1, 0.5, 0.9, 0.25, 0.75, 0.01}
	g := []float64{1, -2, 3, 0.5, 4, 10}

	ds := make([]float64, len(y))
	dv := make([]float64, len(y))
	backwardScalar(g, y, ds)
	backwardVector64(g, y, dv)
	assert.InDeltaSlice(t, ds, dv, 1e-15)

}

func TestLogisticBackward_NoPropagation(t *testing.T) {
	bwd, err := NewBackward[float32](
		layers.WithEnvironment(testEnv(env.Scalar)),
		layers.WithParameter(layers.Parameter{PredictionStage: true}),
	)
	require.NoError(t, err)
	require.NoError(t, bwd.AllocateResult())
	require.NoError(t, bwd.Compute())
	assert.Nil(t, bwd.Result().Get(backward.Gradient))
}
