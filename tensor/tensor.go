// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/layerkit/internal/tensor"
)

// Type aliases for public API

// Float is the constraint for layer element types: float32 or float64.
type Float = tensor.Float

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a 2×3 matrix.
type Shape = tensor.Shape

// Tensor is a shaped, typed handle to numeric storage.
type Tensor = tensor.Tensor

// ErrInvalidShape is returned for shapes with a non-positive dimension.
var ErrInvalidShape = tensor.ErrInvalidShape

// New allocates a zero-filled tensor.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.New(shape, dtype)
}

// Zeros allocates a zero-filled tensor of element type T.
func Zeros[T Float](shape Shape) (*Tensor, error) {
	return tensor.Zeros[T](shape)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice[T Float](data []T, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Data returns a zero-copy view of t's elements. It panics if T does not
// match t's dtype.
func Data[T Float](t *Tensor) []T {
	return tensor.Data[T](t)
}

// ParseDataType looks a dtype up by name ("float32" or "float64").
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}
