package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by LoadConfig.
const (
	EnvCPU        = "LAYERKIT_CPU"
	EnvNoSIMD     = "LAYERKIT_NO_SIMD"
	EnvNumWorkers = "LAYERKIT_NUM_WORKERS"
	EnvMinChunk   = "LAYERKIT_MIN_CHUNK"
	EnvLogLevel   = "LAYERKIT_LOG_LEVEL"
)

// Config is the user-facing configuration of an Environment.
// Zero values mean "use the default".
type Config struct {
	CPU          string // Forced target name; empty means detect.
	NoSIMD       bool   // Force the scalar target regardless of CPU.
	NumWorkers   int    // Worker goroutines per Compute call.
	MinChunkSize int    // Minimum elements per worker.
	LogLevel     string // debug, info, warn or error; empty keeps slog.Default.
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config

	if v, ok := lookup(EnvCPU); ok {
		cfg.CPU = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup(EnvNoSIMD); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvNoSIMD, err)
		}
		cfg.NoSIMD = b
	}

	var err error
	if cfg.NumWorkers, err = lookupInt(lookup, EnvNumWorkers); err != nil {
		return Config{}, err
	}
	if cfg.MinChunkSize, err = lookupInt(lookup, EnvMinChunk); err != nil {
		return Config{}, err
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = strings.TrimSpace(v)
	}

	return cfg, cfg.Validate()
}

func lookupInt(lookup func(string) (string, bool), key string) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Validate checks that every set field holds a usable value.
func (c Config) Validate() error {
	if c.CPU != "" {
		if _, err := ParseCPU(c.CPU); err != nil {
			return err
		}
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("num workers must be >= 0, got %d", c.NumWorkers)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("min chunk size must be >= 0, got %d", c.MinChunkSize)
	}
	if c.LogLevel != "" {
		if _, err := ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger returns a text logger on stderr at the given level.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
