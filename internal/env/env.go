// Package env describes the execution environment a layer container is bound
// to: the CPU target that selects the kernel variant, the parallelism used
// inside one Compute call, and the logger.
package env

import (
	"log/slog"
	"sync"

	"github.com/born-ml/layerkit/internal/parallel"
)

// Environment is immutable after construction and safe to share between batches.
type Environment struct {
	cpu      CPU
	parallel parallel.Config
	logger   *slog.Logger
}

// Option configures an Environment.
type Option func(*Environment)

// WithCPU pins the CPU target instead of the detected one.
func WithCPU(c CPU) Option {
	return func(e *Environment) {
		e.cpu = c
	}
}

// WithParallel sets the intra-Compute parallelism.
func WithParallel(cfg parallel.Config) Option {
	return func(e *Environment) {
		e.parallel = cfg
	}
}

// WithLogger sets the logger used by batches bound to this environment.
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an environment for the detected CPU with default parallelism.
func New(opts ...Option) *Environment {
	e := &Environment{
		cpu:      Detected(),
		parallel: parallel.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig creates an environment from cfg; opts are applied last.
func FromConfig(cfg Config, opts ...Option) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base []Option
	switch {
	case cfg.NoSIMD:
		base = append(base, WithCPU(Scalar))
	case cfg.CPU != "":
		c, _ := ParseCPU(cfg.CPU)
		base = append(base, WithCPU(c))
	}

	pc := parallel.DefaultConfig()
	if cfg.NumWorkers > 0 {
		pc.NumWorkers = cfg.NumWorkers
		pc.Enabled = cfg.NumWorkers > 1
	}
	if cfg.MinChunkSize > 0 {
		pc.MinChunkSize = cfg.MinChunkSize
	}
	base = append(base, WithParallel(pc))

	if cfg.LogLevel != "" {
		level, _ := ParseLevel(cfg.LogLevel)
		base = append(base, WithLogger(NewLogger(level)))
	}

	return New(append(base, opts...)...), nil
}

var (
	defaultOnce sync.Once
	defaultEnv  *Environment
)

// Default returns the process-wide environment built from LoadConfig.
// An invalid configuration is logged and replaced by New().
func Default() *Environment {
	defaultOnce.Do(func() {
		cfg, err := LoadConfig()
		if err == nil {
			defaultEnv, err = FromConfig(cfg)
		}
		if err != nil {
			slog.Warn("ignoring invalid layerkit configuration", "error", err)
			defaultEnv = New()
		}
	})
	return defaultEnv
}

// CPU returns the target used to pick container specializations.
func (e *Environment) CPU() CPU {
	return e.cpu
}

// Parallel returns the parallelism config for kernels.
func (e *Environment) Parallel() parallel.Config {
	return e.parallel
}

// Logger returns the environment's logger.
func (e *Environment) Logger() *slog.Logger {
	return e.logger
}
