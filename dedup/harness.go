// Package dedup is the external deduplication collaborator referenced by
// spec.md §1/§2: it consumes chunks produced by the chunker package, hashes
// them with a process-local non-cryptographic hash, and reports
// deduplication ratio and average chunk size. It is deliberately separate
// from the chunker package, which never hashes or logs anything itself
// (spec.md §7).
package dedup

import (
	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Stats summarizes everything a Harness has observed so far.
type Stats struct {
	ChunkCount   int
	TotalBytes   int64
	UniqueBytes  int64
	DedupRatio   float64 // UniqueBytes / TotalBytes
	AvgChunkSize float64
}

// Harness tracks a seen-set of chunk hashes, in the spirit of the teacher's
// storage.Deduplicator, generalized from fixed-size blocks to arbitrary
// variable-length chunks.
type Harness struct {
	seen        map[uint64]bool
	chunkCount  int
	totalBytes  int64
	uniqueBytes int64

	metrics *metricsSet
	logger  *zap.Logger
}

// Option configures optional ambient observability on a Harness.
type Option func(*Harness)

// WithMetrics registers Prometheus collectors on reg and updates them on
// every Observe/Stats call. Not part of the chunking contract itself; purely
// a convenience for a long-lived process driving many chunking runs.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(h *Harness) {
		h.metrics = newMetricsSet(reg)
	}
}

// WithLogger emits one structured debug line per Observe and a summary line
// from Stats. The chunkers themselves never log; only this caller-side
// harness does.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// NewHarness constructs an empty Harness.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{seen: make(map[uint64]bool)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Observe records one chunk's bytes, hashing it with xxhash.Sum64 and
// updating the running seen-set and byte counters.
func (h *Harness) Observe(chunk []byte) {
	hash := xxhash.Sum64(chunk)
	size := int64(len(chunk))

	h.chunkCount++
	h.totalBytes += size
	if !h.seen[hash] {
		h.seen[hash] = true
		h.uniqueBytes += size
	}

	if h.metrics != nil {
		h.metrics.chunksTotal.Inc()
	}
	if h.logger != nil {
		h.logger.Debug("observed chunk", zap.Int("size", len(chunk)), zap.Uint64("hash", hash))
	}
}

// Reset clears all accumulated state, allowing the Harness (and any
// registered metrics/logger) to be reused across chunking runs.
func (h *Harness) Reset() {
	h.seen = make(map[uint64]bool)
	h.chunkCount = 0
	h.totalBytes = 0
	h.uniqueBytes = 0
}

// Stats reports the harness's current view. DedupRatio and AvgChunkSize are
// 0 when no chunks have been observed.
func (h *Harness) Stats() Stats {
	s := Stats{
		ChunkCount:  h.chunkCount,
		TotalBytes:  h.totalBytes,
		UniqueBytes: h.uniqueBytes,
	}
	if h.totalBytes > 0 {
		s.DedupRatio = float64(h.uniqueBytes) / float64(h.totalBytes)
	}
	if h.chunkCount > 0 {
		s.AvgChunkSize = float64(h.totalBytes) / float64(h.chunkCount)
	}

	if h.metrics != nil {
		h.metrics.uniqueBytesTotal.Set(float64(s.UniqueBytes))
		h.metrics.dedupRatio.Set(s.DedupRatio)
	}
	if h.logger != nil {
		h.logger.Info("dedup summary",
			zap.Int("chunk_count", s.ChunkCount),
			zap.Int64("total_bytes", s.TotalBytes),
			zap.Int64("unique_bytes", s.UniqueBytes),
			zap.Float64("dedup_ratio", s.DedupRatio),
			zap.Float64("avg_chunk_size", s.AvgChunkSize),
		)
	}
	return s
}

type metricsSet struct {
	chunksTotal      prometheus.Counter
	uniqueBytesTotal prometheus.Gauge
	dedupRatio       prometheus.Gauge
}

func newMetricsSet(reg *prometheus.Registry) *metricsSet {
	m := &metricsSet{
		chunksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdc_chunks_total",
			Help: "Total number of chunks observed by the dedup harness.",
		}),
		uniqueBytesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdc_unique_bytes_total",
			Help: "Total unique (non-duplicate) bytes observed by the dedup harness.",
		}),
		dedupRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdc_dedup_ratio",
			Help: "Unique bytes divided by total bytes observed by the dedup harness.",
		}),
	}
	reg.MustRegister(m.chunksTotal, m.uniqueBytesTotal, m.dedupRatio)
	return m
}
