package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed_BasicSplit(t *testing.T) {
	c, err := NewFixed(1024)
	require.NoError(t, err)

	data := pseudorandom(3*1024, 6)
	bounds, err := c.Chunk(data)
	require.NoError(t, err)
	assert.Equal(t, []int{1024, 2048, 3072}, bounds)
}

func TestFixed_ShortFinalChunk(t *testing.T) {
	c, err := NewFixed(1024)
	require.NoError(t, err)

	data := pseudorandom(2500, 7)
	bounds, err := c.Chunk(data)
	require.NoError(t, err)
	assert.Equal(t, []int{1024, 2048, 2500}, bounds)
}

func TestFixed_InvalidParameter(t *testing.T) {
	_, err := NewFixed(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewFixed(-1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
