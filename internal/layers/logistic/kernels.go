package logistic

import (
	"math"

	"github.com/born-ml/layerkit/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// sigmoid never evaluates exp of a large positive argument.
func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

func forwardScalar[T tensor.Float](x, y []T) {
	for i, v := range x {
		y[i] = T(sigmoid(float64(v)))
	}
}

func backwardScalar[T tensor.Float](g, y, dx []T) {
	for i, v := range y {
		dx[i] = g[i] * v * (1 - v)
	}
}

// backwardVector64 builds 1 - y in dx, then multiplies by y and g.
func backwardVector64(g, y, dx []float64) {
	floats.ScaleTo(dx, -1, y)
	floats.AddConst(1, dx)
	floats.Mul(dx, y)
	floats.Mul(dx, g)
}
