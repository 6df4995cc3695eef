package abs

import (
	"github.com/born-ml/layerkit/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// max(v, -v) maps -0 to +0, unlike a v < 0 branch.
func forwardScalar[T tensor.Float](x, y []T) {
	for i, v := range x {
		y[i] = max(v, -v)
	}
}

func backwardScalar[T tensor.Float](g, x, dx []T) {
	for i, v := range x {
		switch {
		case v > 0:
			dx[i] = g[i]
		case v < 0:
			dx[i] = -g[i]
		default:
			dx[i] = 0
		}
	}
}

// backwardVector64 writes sign(x) into dx and multiplies by g with gonum's
// assembly-backed floats.Mul. Entries with x == 0 or NaN are zeroed again
// afterwards, since 0*Inf and 0*NaN are NaN.
func backwardVector64(g, x, dx []float64) {
	for i, v := range x {
		switch {
		case v > 0:
			dx[i] = 1
		case v < 0:
			dx[i] = -1
		default:
			dx[i] = 0
		}
	}
	floats.Mul(dx, g)
	for i, v := range x {
		if !(v > 0 || v < 0) {
			dx[i] = 0
		}
	}
}
