package tanh

import (
	"math"

	"github.com/born-ml/layerkit/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

func forwardScalar[T tensor.Float](x, y []T) {
	for i, v := range x {
		y[i] = T(math.Tanh(float64(v)))
	}
}

func backwardScalar[T tensor.Float](g, y, dx []T) {
	for i, v := range y {
		dx[i] = g[i] * (1 - v*v)
	}
}

// backwardVector64 builds 1 - y² in dx, then multiplies by g.
func backwardVector64(g, y, dx []float64) {
	floats.MulTo(dx, y, y)
	floats.Scale(-1, dx)
	floats.AddConst(1, dx)
	floats.Mul(dx, g)
}
