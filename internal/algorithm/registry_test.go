package algorithm

import (
	"errors"
	"testing"

	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContainer struct {
	cpu env.CPU
}

func newStubRegistry() *Registry[*stubContainer] {
	r := NewRegistry[*stubContainer]("stub")
	for _, c := range []env.CPU{env.Scalar, env.AVX2} {
		r.Register(Key{DType: tensor.Float32, Method: 0, CPU: c}, func(e *env.Environment) *stubContainer {
			return &stubContainer{cpu: e.CPU()}
		})
	}
	return r
}

func TestRegistry_Bind(t *testing.T) {
	r := newStubRegistry()
	e := env.New(env.WithCPU(env.AVX2))

	c, err := r.Bind(Key{DType: tensor.Float32, CPU: env.AVX2}, e)
	require.NoError(t, err)
	assert.Equal(t, env.AVX2, c.cpu)
}

func TestRegistry_BindUnsupported(t *testing.T) {
	r := newStubRegistry()
	e := env.New()

	tests := []struct {
		name string
		key  Key
	}{
		{"dtype", Key{DType: tensor.Float64, CPU: env.Scalar}},
		{"method", Key{DType: tensor.Float32, Method: 3, CPU: env.Scalar}},
		{"cpu", Key{DType: tensor.Float32, CPU: env.AVX512}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := r.Bind(tt.key, e)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrUnsupportedSpecialization))

			var ue *UnsupportedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.key, ue.Key)
			assert.Contains(t, err.Error(), "stub")
		})
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := newStubRegistry()
	assert.Panics(t, func() {
		r.Register(Key{DType: tensor.Float32, CPU: env.Scalar}, func(*env.Environment) *stubContainer { return nil })
	})
}

func TestRegistry_KeysSorted(t *testing.T) {
	r := newStubRegistry()
	r.Register(Key{DType: tensor.Float64, CPU: env.Scalar}, func(*env.Environment) *stubContainer { return nil })

	keys := r.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, Key{DType: tensor.Float32, CPU: env.Scalar}, keys[0])
	assert.Equal(t, Key{DType: tensor.Float32, CPU: env.AVX2}, keys[1])
	assert.Equal(t, Key{DType: tensor.Float64, CPU: env.Scalar}, keys[2])

	assert.True(t, r.Supports(keys[2]))
	assert.Equal(t, "float64/0/scalar", keys[2].String())
}
