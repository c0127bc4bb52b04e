// Package bench wraps the parallel chunking driver into the shape a main
// package would call: validate a config, chunk a file, return a result
// struct. No CLI ships in this module (spec.md §6); this is what one would
// be built on top of.
package bench

import (
	"fmt"
	"time"

	"github.com/FairForge/cdc/chunker/parallel"
	"github.com/FairForge/cdc/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result reports one benchmark run's outcome. RunID identifies the run in
// logs so repeated invocations against the same path can be told apart.
type Result struct {
	RunID        string
	Path         string
	Algorithm    string
	ThreadCount  int
	Elapsed      time.Duration
	DedupRatio   float64
	AvgChunkSize float64
}

// Run validates cfg, chunks the file at path with the configured algorithm
// and thread count, and returns the resulting statistics. If log is
// non-nil, it emits one structured line per run.
func Run(cfg config.Config, path string, log *zap.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("bench: %w", err)
	}

	elapsed, dedupRatio, avgChunkSize, err := parallel.ChunkFile(
		path, cfg.ThreadCount, cfg.Algorithm, cfg.ExpectedSize, cfg.Seed,
	)
	if err != nil {
		return Result{}, fmt.Errorf("bench: %w", err)
	}

	result := Result{
		RunID:        uuid.New().String(),
		Path:         path,
		Algorithm:    string(cfg.Algorithm),
		ThreadCount:  cfg.ThreadCount,
		Elapsed:      elapsed,
		DedupRatio:   dedupRatio,
		AvgChunkSize: avgChunkSize,
	}

	if log != nil {
		log.Info("chunking benchmark complete",
			zap.String("run_id", result.RunID),
			zap.String("path", result.Path),
			zap.String("algorithm", result.Algorithm),
			zap.Int("thread_count", result.ThreadCount),
			zap.Duration("elapsed", result.Elapsed),
			zap.Float64("dedup_ratio", result.DedupRatio),
			zap.Float64("avg_chunk_size", result.AvgChunkSize),
		)
	}

	return result, nil
}
