package bench

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/FairForge/cdc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")

	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 512*1024)
	rng.Read(data)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := config.PresetBalanced
	cfg.ThreadCount = 2

	result, err := Run(cfg, path, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, string(cfg.Algorithm), result.Algorithm)
	assert.Equal(t, 2, result.ThreadCount)
	assert.Greater(t, result.AvgChunkSize, 0.0)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Config{Algorithm: "bogus", ExpectedSize: 4096, ThreadCount: 1}
	_, err := Run(cfg, "does-not-matter", nil)
	assert.Error(t, err)
}

func TestRun_MissingFile(t *testing.T) {
	cfg := config.PresetBalanced
	_, err := Run(cfg, "/nonexistent/path/for/cdc/bench/test", nil)
	assert.Error(t, err)
}

func TestRun_NilLoggerIsOptional(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")

	rng := rand.New(rand.NewSource(2))
	data := make([]byte, 64*1024)
	rng.Read(data)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := config.PresetSmallFiles
	_, err := Run(cfg, path, nil)
	assert.NoError(t, err)
}
