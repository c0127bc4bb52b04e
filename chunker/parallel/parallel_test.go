package parallel

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/FairForge/cdc/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pseudorandom(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, n)
	rng.Read(data)
	return data
}

func assertWellFormed(t *testing.T, data []byte, bounds []int) {
	t.Helper()
	require.NotEmpty(t, bounds)
	assert.Equal(t, len(data), bounds[len(bounds)-1])

	prev := 0
	for _, b := range bounds {
		assert.Greater(t, b, prev)
		prev = b
	}
}

// S6: Strategy A (AE) must return an identical boundary list across
// T in {1, 2, 4, 8} over the same input.
func TestBoundaries_S6_AEThreadCountInvariance(t *testing.T) {
	data := pseudorandom(4*1024*1024, 21)

	var reference []int
	for i, threads := range []int{1, 2, 4, 8} {
		bounds, err := Boundaries(data, threads, chunker.AlgorithmAE, 4096, 0)
		require.NoError(t, err)
		assertWellFormed(t, data, bounds)

		if i == 0 {
			reference = bounds
			continue
		}
		assert.Equal(t, reference, bounds, "thread count %d diverged from serial", threads)
	}
}

func TestBoundaries_RabinOverlapScan_WellFormed(t *testing.T) {
	data := pseudorandom(2*1024*1024, 22)

	for _, threads := range []int{1, 2, 4, 8} {
		bounds, err := Boundaries(data, threads, chunker.AlgorithmRabin, 4096, 0)
		require.NoError(t, err)
		assertWellFormed(t, data, bounds)
	}
}

func TestBoundaries_FastCDCSeamStitch_WellFormed(t *testing.T) {
	data := pseudorandom(2*1024*1024, 23)

	for _, threads := range []int{1, 2, 3, 4, 8} {
		bounds, err := Boundaries(data, threads, chunker.AlgorithmFastCDC, 4096, 0)
		require.NoError(t, err)
		assertWellFormed(t, data, bounds)
	}
}

func TestBoundaries_SingleThreadMatchesSerial(t *testing.T) {
	data := pseudorandom(512*1024, 24)

	serial, err := chunker.New(chunker.AlgorithmFastCDC, 4096, 0)
	require.NoError(t, err)
	want, err := serial.Chunk(data)
	require.NoError(t, err)

	got, err := Boundaries(data, 1, chunker.AlgorithmFastCDC, 4096, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBoundaries_EmptyInput(t *testing.T) {
	bounds, err := Boundaries(nil, 4, chunker.AlgorithmAE, 4096, 0)
	require.NoError(t, err)
	assert.Empty(t, bounds)
}

func TestChunkFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	data := pseudorandom(1024*1024, 25)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	elapsed, dedupRatio, avgChunkSize, err := ChunkFile(path, 4, chunker.AlgorithmFastCDC, 4096, 1)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
	assert.Greater(t, avgChunkSize, 0.0)
	assert.Greater(t, dedupRatio, 0.0)
	assert.LessOrEqual(t, dedupRatio, 1.0)
}

func TestChunkFile_MissingFile(t *testing.T) {
	_, _, _, err := ChunkFile("/nonexistent/path/for/cdc/test", 2, chunker.AlgorithmAE, 4096, 0)
	assert.Error(t, err)
}
