// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor handle consumed and produced by layerkit layers.
//
// # Overview
//
// A Tensor is a dense, row-major block of float32 or float64 elements with a
// shape and a reference-counted buffer. Layers never copy their inputs: the
// forward pass of abs or relu keeps the very input tensor as layer data for
// the backward pass.
//
// # Basic Usage
//
//	x, err := tensor.FromSlice([]float32{-2, 0, 3}, tensor.Shape{1, 3})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(x.Shape(), tensor.Data[float32](x))
package tensor
