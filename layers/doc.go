// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides the public API for layerkit layer passes.
//
// # Overview
//
// Every layer has a forward and a backward batch. A batch is built for one
// element type, one method and the CPU of its environment; the matching
// container is bound at construction, so an unsupported combination fails
// early with ErrUnsupportedSpecialization.
//
// A batch goes through three steps: fill its input, AllocateResult, Compute.
// The forward result carries layer data that the backward batch reads through
// LinkForward.
//
// # Basic Usage
//
//	fwd, err := layers.NewForward[float32](layers.Abs)
//	if err != nil {
//	    return err
//	}
//	fwd.LayerInput().Set(layers.Data, x)
//	if err := fwd.AllocateResult(); err != nil {
//	    return err
//	}
//	if err := fwd.Compute(); err != nil {
//	    return err
//	}
//
//	bwd, err := layers.NewBackward[float32](layers.Abs)
//	if err != nil {
//	    return err
//	}
//	bwd.LayerInput().SetGradient(g)
//	if err := bwd.LinkForward(fwd.Result()); err != nil {
//	    return err
//	}
//	if err := bwd.AllocateResult(); err != nil {
//	    return err
//	}
//	if err := bwd.Compute(); err != nil {
//	    return err
//	}
//	dx := bwd.Result().Get(layers.Gradient)
//
// # Layers
//
// Abs: y = |x|, dx = g * sign(x) with sign(0) = 0. The backward pass has no
// parameter.
//
// Tanh, Logistic: the backward pass reads the forward output.
//
// ReLU: the backward pass reads the forward input; dx = 0 where x <= 0.
package layers
