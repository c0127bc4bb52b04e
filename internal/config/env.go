package config

import (
	"os"
	"strconv"

	"github.com/FairForge/cdc/chunker"
)

// LoadFromEnv overlays environment variables onto cfg, for callers that want
// to tweak a preset at deploy time without a config file.
func LoadFromEnv(cfg *Config) {
	if alg := os.Getenv("CDC_ALGORITHM"); alg != "" {
		cfg.Algorithm = chunker.Algorithm(alg)
	}
	if size := os.Getenv("CDC_EXPECTED_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.ExpectedSize = n
		}
	}
	if seed := os.Getenv("CDC_SEED"); seed != "" {
		if n, err := strconv.ParseUint(seed, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if threads := os.Getenv("CDC_THREAD_COUNT"); threads != "" {
		if n, err := strconv.Atoi(threads); err == nil {
			cfg.ThreadCount = n
		}
	}
}

// GetEnvOrDefault returns the environment variable's value, or defaultValue
// if it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
