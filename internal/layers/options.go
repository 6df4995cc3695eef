package layers

import "github.com/born-ml/layerkit/internal/env"

// Option configures a batch at construction.
type Option func(*Options)

// Options is the resolved construction config of a batch.
type Options struct {
	Env       *env.Environment
	Method    Method
	Parameter *Parameter // nil when the caller supplied none
}

// WithEnvironment binds the batch to e instead of env.Default().
func WithEnvironment(e *env.Environment) Option {
	return func(o *Options) {
		o.Env = e
	}
}

// WithMethod selects the computation method.
func WithMethod(m Method) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithParameter sets the layer parameter. Layers without a parameter reject it.
func WithParameter(p Parameter) Option {
	return func(o *Options) {
		o.Parameter = &p
	}
}

// ApplyOptions resolves opts over the defaults.
func ApplyOptions(opts ...Option) Options {
	o := Options{Method: DefaultDense}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Env == nil {
		o.Env = env.Default()
	}
	return o
}
