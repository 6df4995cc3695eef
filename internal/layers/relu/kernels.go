package relu

import (
	"github.com/born-ml/layerkit/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// NaN inputs stay NaN; -0 maps to +0.
func forwardScalar[T tensor.Float](x, y []T) {
	for i, v := range x {
		y[i] = max(v, 0)
	}
}

func backwardScalar[T tensor.Float](g, x, dx []T) {
	for i, v := range x {
		if v > 0 {
			dx[i] = g[i]
		} else {
			dx[i] = 0
		}
	}
}

// backwardVector64 writes the x > 0 mask into dx, multiplies by g, then
// clears the masked entries again so an Inf or NaN gradient cannot leak.
func backwardVector64(g, x, dx []float64) {
	for i, v := range x {
		if v > 0 {
			dx[i] = 1
		} else {
			dx[i] = 0
		}
	}
	floats.Mul(dx, g)
	for i, v := range x {
		if !(v > 0) {
			dx[i] = 0
		}
	}
}
