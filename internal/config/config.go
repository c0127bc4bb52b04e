// Package config assembles the parameter set a caller needs to drive the
// parallel chunking driver and benchmark runner against a file: algorithm
// choice, size/seed/thread-count knobs, and a handful of named presets in
// the shape of the teacher's PipelineConfig.
package config

import (
	"fmt"
	"os"

	"github.com/FairForge/cdc/chunker"
	"gopkg.in/yaml.v3"
)

// Config controls one parallel chunking run.
type Config struct {
	Algorithm    chunker.Algorithm `yaml:"algorithm"`
	ExpectedSize int               `yaml:"expected_size"`
	Seed         uint64            `yaml:"seed"`
	ThreadCount  int               `yaml:"thread_count" default:"1"`
	BufferSize   int               `yaml:"buffer_size" default:"4096"`
}

// Validate checks structural constraints only (spec.md §6 parameter
// domains); it does not second-guess the caller's choice of algorithm or
// tuning.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case chunker.AlgorithmAE, chunker.AlgorithmRabin, chunker.AlgorithmFastCDC, chunker.AlgorithmFixed:
	default:
		return fmt.Errorf("config: unknown algorithm %q", c.Algorithm)
	}

	if c.Algorithm != chunker.AlgorithmFixed && c.ExpectedSize < 512 {
		return fmt.Errorf("config: expected_size must be >= 512, got %d", c.ExpectedSize)
	}
	if c.Algorithm == chunker.AlgorithmFixed && c.ExpectedSize <= 0 {
		return fmt.Errorf("config: expected_size (chunk size) must be positive, got %d", c.ExpectedSize)
	}
	if c.Algorithm == chunker.AlgorithmRabin && c.ExpectedSize/4 < 1 {
		return fmt.Errorf("config: expected_size %d too small for rabin: expected_size/4 must be >= 1", c.ExpectedSize)
	}
	if c.ThreadCount < 1 {
		return fmt.Errorf("config: thread_count must be >= 1, got %d", c.ThreadCount)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("config: buffer_size must be non-negative, got %d", c.BufferSize)
	}

	return nil
}

// Preset configurations for common use cases, mirroring the teacher's
// PipelineConfig presets (ConfigSmartStorage, ConfigArchive, ...).

// PresetBalanced targets general-purpose files with a moderate thread count.
var PresetBalanced = Config{
	Algorithm:    chunker.AlgorithmFastCDC,
	ExpectedSize: 8192,
	ThreadCount:  4,
	BufferSize:   4096,
}

// PresetLargeFiles favors bigger expected chunk sizes and more workers for
// multi-gigabyte inputs, where per-chunk overhead matters less than
// partition parallelism.
var PresetLargeFiles = Config{
	Algorithm:    chunker.AlgorithmFastCDC,
	ExpectedSize: 65536,
	ThreadCount:  8,
	BufferSize:   4096,
}

// PresetSmallFiles favors a small expected size and serial execution, where
// partitioning overhead would dominate actual chunking work.
var PresetSmallFiles = Config{
	Algorithm:    chunker.AlgorithmRabin,
	ExpectedSize: 1024,
	ThreadCount:  1,
	BufferSize:   4096,
}

// LoadFromFile reads a YAML-encoded Config from path. It does not call
// Validate; callers should validate after any env overlay is applied.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML, for persisting a tuned preset.
func SaveToFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// GetPreset returns a named preset configuration.
func GetPreset(name string) (Config, error) {
	switch name {
	case "balanced", "default":
		return PresetBalanced, nil
	case "large", "large-files":
		return PresetLargeFiles, nil
	case "small", "small-files":
		return PresetSmallFiles, nil
	default:
		return Config{}, fmt.Errorf("config: unknown preset %q", name)
	}
}
