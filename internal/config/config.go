// Package config loads optional engine tuning from a TOML file via
// github.com/BurntSushi/toml, mirroring the teacher's own config rail
// (its system/lib/config module loads bytecode-VM tuning the same way,
// CLI flags overriding file values). CLI flags in cmd/ecmalite take
// precedence over anything loaded here, the same flag-then-config
// precedence order cmd/dwscript/cmd/root.go uses.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the engine-wide tuning an embedder or the CLI can set
// ahead of constructing pkg/engine's Engine.
type Config struct {
	// MaxRecursionDepth bounds the evaluator's call stack before it raises
	// a runtime error instead of exhausting the Go stack (spec §4.10).
	MaxRecursionDepth int `toml:"max_recursion_depth"`

	// ExecutionTimeout bounds how long a Run call spends draining queued
	// tasks; zero means no timeout. Evaluate does not apply it. Expressed in
	// milliseconds in the file since TOML has no native duration type.
	ExecutionTimeoutMS int `toml:"execution_timeout_ms"`

	// EnableDebugStream is set by cmd/ecmalite's --trace. pkg/engine does
	// not read it, and its DebugMessages channel receives no snapshots.
	EnableDebugStream bool `toml:"enable_debug_stream"`
}

// Default returns the tuning the engine uses when no config file and no
// CLI flags are supplied.
func Default() Config {
	return Config{
		MaxRecursionDepth: 2000,
		ExecutionTimeoutMS: 0,
		EnableDebugStream:  false,
	}
}

// ExecutionTimeout returns the configured timeout as a time.Duration, or
// zero if none is set.
func (c Config) ExecutionTimeout() time.Duration {
	if c.ExecutionTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.ExecutionTimeoutMS) * time.Millisecond
}

// Load reads path and decodes it over Default(), so a partially specified
// file leaves the unspecified fields at their defaults rather than at
// TOML's own zero values.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
