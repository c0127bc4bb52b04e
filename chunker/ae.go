package chunker

import (
	"fmt"
	"io"
	"math"
)

// AE implements the Asymmetric Extremum chunking algorithm: a chunk ends at
// the first position that sits exactly w bytes to the right of a strict
// local maximum byte within it. The boundary depends only on a local
// extremum and a fixed offset, which makes it stable under insertions and
// deletions that occur outside the window — the property that makes it
// useful for content-addressed deduplication.
//
// AE has no hard maximum chunk size; pathological strictly increasing
// sequences grow the current chunk until a byte value large enough to sit
// unbeaten for w more bytes appears.
type AE struct {
	w   int
	buf *streamBuf
}

// aeCore is the byte-at-a-time boundary detector shared by the streaming
// and in-memory AE paths so they can never diverge. Positions are tracked
// relative to the start of the current (unemitted) chunk: the chunk's first
// byte always seeds the running maximum and never triggers a cut.
type aeCore struct {
	w       int
	started bool
	maxv    byte
	maxp    int
	pos     int
}

func (c *aeCore) reset() {
	c.started = false
	c.maxv = 0
	c.maxp = 0
	c.pos = -1
}

// observe processes the next byte of the current chunk and reports whether
// a boundary belongs immediately after it (the byte is the chunk's last).
func (c *aeCore) observe(b byte) (cut bool) {
	c.pos++
	if !c.started {
		c.maxv = b
		c.maxp = c.pos
		c.started = true
		return false
	}
	if b > c.maxv {
		c.maxv = b
		c.maxp = c.pos
		return false
	}
	return c.pos == c.maxp+c.w
}

// aeWindow is the default window-size derivation from the AE paper:
// w = round(expectedSize / (e - 1)), which yields an expected chunk length
// of expectedSize.
func aeWindow(expectedSize int) int {
	return int(math.Round(float64(expectedSize) / (math.E - 1)))
}

// aeWindowLegacy is the ad-hoc window-size offset found alongside the paper
// formula in some call sites of the original source (spec.md §9's open
// question). It is kept as an explicit alternative constructor rather than
// folded into NewAE so the two are never conflated.
func aeWindowLegacy(expectedSize int) int {
	return expectedSize - 256
}

func newAE(expectedSize, w int) (*AE, error) {
	if expectedSize <= 0 {
		return nil, invalidParam("expected size must be positive, got %d", expectedSize)
	}
	if w < 1 {
		return nil, invalidParam("derived AE window must be at least 1, got %d (expected size %d)", w, expectedSize)
	}
	return &AE{w: w, buf: newStreamBuf(defaultBufSize)}, nil
}

// NewAE constructs an AE chunker using the paper's window-size derivation.
func NewAE(expectedSize int) (*AE, error) {
	return newAE(expectedSize, aeWindow(expectedSize))
}

// NewAELegacyWindow constructs an AE chunker using the ad-hoc
// expectedSize-256 window derivation, for callers that need output
// compatible with that variant.
func NewAELegacyWindow(expectedSize int) (*AE, error) {
	return newAE(expectedSize, aeWindowLegacy(expectedSize))
}

// Next implements Chunker.
func (a *AE) Next(r ByteReader, w ByteWriter) (Status, error) {
	var core aeCore
	core.w = a.w
	core.reset()

	scanned := 0 // how much of the buffer's current content has already been run through core
	for {
		avail, err := a.buf.fill(r)
		if err != nil && err != io.EOF {
			return Working, fmt.Errorf("chunker: ae: read: %w", err)
		}
		eof := err == io.EOF

		for scanned < avail {
			b := a.buf.buf[scanned]
			scanned++
			if core.observe(b) {
				if _, werr := w.Write(a.buf.buf[:scanned]); werr != nil {
					return Working, fmt.Errorf("chunker: ae: write: %w", werr)
				}
				a.buf.shift(scanned, avail)
				return Working, nil
			}
		}

		if eof {
			if avail == 0 {
				return Finished, nil
			}
			// Input exhausted mid-chunk: everything buffered is the
			// final chunk, with nothing held back.
			if _, werr := w.Write(a.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: ae: write: %w", werr)
			}
			a.buf.drain()
			return Working, nil
		}

		if avail == len(a.buf.buf) {
			// Buffer full with no boundary found yet: flush it as part
			// of the still-open chunk and keep scanning fresh bytes.
			if _, werr := w.Write(a.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: ae: write: %w", werr)
			}
			a.buf.drain()
			scanned = 0
		}
	}
}

// NextInMemory implements Chunker.
func (a *AE) NextInMemory(data []byte, start int) (int, error) {
	if start >= len(data) {
		return start, nil
	}

	var core aeCore
	core.w = a.w
	core.reset()

	for i := start; i < len(data); i++ {
		if core.observe(data[i]) {
			return i + 1, nil
		}
	}
	return len(data), nil
}

// Chunk implements Chunker.
func (a *AE) Chunk(data []byte) ([]int, error) {
	return chunkFromBoundaries(a, data)
}

// Window returns the window size w. The parallel package's overlap-scan
// strategy primes each worker's scan from w bytes before its slab to
// reproduce serial boundaries across slab seams.
func (a *AE) Window() int {
	return a.w
}
