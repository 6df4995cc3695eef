package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/born-ml/layerkit/internal/env"
	"github.com/spf13/cobra"
)

// cliOptions holds the persistent flags shared by all subcommands.
type cliOptions struct {
	logLevel string
	cpu      string
	env      *env.Environment
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "layerkit",
		Short:         "Run and inspect neural-network layer passes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.environment(cmd)
			if err != nil {
				return err
			}
			opts.env = e
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides "+env.EnvLogLevel)
	root.PersistentFlags().StringVar(&opts.cpu, "cpu", "", "force the kernel target (scalar, sse2, avx2, avx512, neon, sve); overrides "+env.EnvCPU)

	root.AddCommand(newVersionCmd(), newTargetsCmd(opts), newRunCmd(opts))
	return root
}

// environment builds the execution environment from LAYERKIT_* variables,
// then applies the command-line overrides.
func (o *cliOptions) environment(cmd *cobra.Command) (*env.Environment, error) {
	cfg, err := env.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.cpu != "" {
		cfg.CPU = strings.ToLower(o.cpu)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.LogLevel != "" {
		level, _ = env.ParseLevel(cfg.LogLevel)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	e, err := env.FromConfig(cfg, env.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return e, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("layerkit %s\n", version)
		},
	}
}
