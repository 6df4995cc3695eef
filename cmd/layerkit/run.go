package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/layerkit/internal/layers"
	"github.com/born-ml/layerkit/internal/layers/catalog"
	"github.com/born-ml/layerkit/internal/tensor"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type runOptions struct {
	layer   string
	dtype   string
	input   string
	grad    string
	shape   string
	predict bool
}

func newRunCmd(opts *cliOptions) *cobra.Command {
	ro := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a layer's forward pass, then its backward pass",
		Example: `  layerkit run --layer abs --input=-2,0,3 --grad 1,1,1 --shape 1,3
  layerkit run --layer tanh --dtype float64 --input 0.5,1 --predict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := layers.ParseKind(ro.layer)
			if err != nil {
				return err
			}
			dtype, ok := tensor.ParseDataType(ro.dtype)
			if !ok {
				return fmt.Errorf("unsupported dtype %q", ro.dtype)
			}

			xs, err := parseFloats(ro.input)
			if err != nil {
				return fmt.Errorf("--input: %w", err)
			}
			if len(xs) == 0 {
				return fmt.Errorf("--input: no values")
			}
			gs := lo.Times(len(xs), func(int) float64 { return 1 })
			if ro.grad != "" {
				if gs, err = parseFloats(ro.grad); err != nil {
					return fmt.Errorf("--grad: %w", err)
				}
			}
			shape := tensor.Shape{len(xs)}
			if ro.shape != "" {
				if shape, err = parseShape(ro.shape); err != nil {
					return fmt.Errorf("--shape: %w", err)
				}
			}

			switch dtype {
			case tensor.Float32:
				return runLayer[float32](cmd, opts, ro, kind, xs, gs, shape)
			case tensor.Float64:
				return runLayer[float64](cmd, opts, ro, kind, xs, gs, shape)
			default:
				return fmt.Errorf("layers do not support dtype %s", dtype)
			}
		},
	}

	cmd.Flags().StringVar(&ro.layer, "layer", "abs", "layer kind (abs, tanh, relu, logistic)")
	cmd.Flags().StringVar(&ro.dtype, "dtype", "float32", "element type (float32, float64)")
	cmd.Flags().StringVar(&ro.input, "input", "", "comma-separated input values")
	cmd.Flags().StringVar(&ro.grad, "grad", "", "comma-separated incoming gradient (default all ones)")
	cmd.Flags().StringVar(&ro.shape, "shape", "", "comma-separated dimensions (default 1-D)")
	cmd.Flags().BoolVar(&ro.predict, "predict", false, "run the forward pass only, in prediction stage")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runLayer[T tensor.Float](cmd *cobra.Command, opts *cliOptions, ro *runOptions, kind layers.Kind, xs, gs []float64, shape tensor.Shape) error {
	convert := func(v float64, _ int) T { return T(v) }

	x, err := tensor.FromSlice(lo.Map(xs, convert), shape)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	cmd.Printf("layer:    %s (%s, %s, cpu=%s)\n", kind, tensor.DTypeOf[T](), layers.DefaultDense, opts.env.CPU())

	if ro.predict {
		y, err := catalog.Predict[T](kind, x, layers.WithEnvironment(opts.env))
		if err != nil {
			return err
		}
		cmd.Printf("value:    %v\n", tensor.Data[T](y))
		return nil
	}

	g, err := tensor.FromSlice(lo.Map(gs, convert), shape)
	if err != nil {
		return fmt.Errorf("gradient: %w", err)
	}
	step, err := catalog.Train[T](kind, x, g, layers.WithEnvironment(opts.env))
	if err != nil {
		return err
	}
	cmd.Printf("value:    %v\n", tensor.Data[T](step.Value))
	cmd.Printf("gradient: %v\n", tensor.Data[T](step.Gradient))
	return nil
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(f string, _ int) string {
		return strings.TrimSpace(f)
	}))
}

func parseFloats(s string) ([]float64, error) {
	fields := splitList(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseShape(s string) (tensor.Shape, error) {
	fields := splitList(s)
	shape := make(tensor.Shape, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		shape = append(shape, d)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}
