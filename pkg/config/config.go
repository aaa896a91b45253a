package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// Config is the rhovm tool's runtime configuration, loaded from a TOML
// file the way the teacher's test cases are (pkg/test/testing.go's
// config struct), but describing how to run a module rather than how to
// check one.
type Config struct {
	// RSpaceBackend selects the RSpace implementation: "sequential" or
	// "concurrent" (spec §6.2).
	RSpaceBackend string `toml:"rspace_backend"`

	// Workers is the number of goroutines pkg/scheduler.RunReadyParallel
	// partitions ready processes across (spec §5). Ignored by the
	// single-threaded scheduler entry points.
	Workers int `toml:"workers"`

	// TraceExecution, when true, makes `rhovm run` execute through
	// Engine.ExecuteWithEvent and print the process's terminal event. The
	// engine itself does not trace individual instructions.
	TraceExecution bool `toml:"trace_execution"`
}

// Default returns the configuration rhovm runs with when no config file
// is given.
func Default() Config {
	return Config{
		RSpaceBackend:  "sequential",
		Workers:        1,
		TraceExecution: false,
	}
}

// Load reads and validates a Config from a TOML file at path. Fields left
// unset in the file keep Default's values.
func Load(path string) (Config, error) {
	cfg := Default()

	source, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.NewTool("reading config %s: %v", path, err)
	}
	if err := toml.Unmarshal(source, &cfg); err != nil {
		return Config{}, errs.NewTool("parsing config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errs.NewTool("config %s: %v", path, err)
	}
	return cfg, nil
}

// Validate reports whether every field of cfg holds a usable value.
func (cfg Config) Validate() error {
	if _, err := cfg.RSpaceType(); err != nil {
		return err
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return nil
}

// RSpaceType resolves RSpaceBackend to the rspace.Type the factory
// understands.
func (cfg Config) RSpaceType() (rspace.Type, error) {
	switch cfg.RSpaceBackend {
	case "sequential":
		return rspace.MemorySequentialType, nil
	case "concurrent":
		return rspace.MemoryConcurrentType, nil
	default:
		return 0, fmt.Errorf("unknown rspace backend %q (want \"sequential\" or \"concurrent\")", cfg.RSpaceBackend)
	}
}

// NewRSpace constructs the RSpace backend cfg selects.
func (cfg Config) NewRSpace() (rspace.RSpace, error) {
	t, err := cfg.RSpaceType()
	if err != nil {
		return nil, err
	}
	return rspace.New(t)
}
