package chunker

import (
	"fmt"
	"io"
)

const rabinAlpha uint32 = 1_664_525

// Rabin implements a polynomial-style rolling-hash chunker: an LCG
// multiplier (alpha) rolls a 32-bit hash over a sliding window of w bytes,
// with O(1) removal of the byte leaving the window via a precomputed power
// table. A boundary fires once the chunk has reached min_size and the
// window is full, whenever the hash XOR seed, masked to the low
// log2(nextPowerOfTwo(expectedSize)) bits, is zero; max_size forces a cut
// regardless.
type Rabin struct {
	w       int
	minSize int
	maxSize int
	mask    uint32
	seed    uint32
	table   [256]uint32 // table[b] = b * alpha^w mod 2^32
	buf     *streamBuf
}

// NewRabin constructs a Rabin chunker. seed perturbs the boundary test
// without changing the rolling hash itself, so two chunkers with different
// seeds over the same input cut at different (but each internally
// consistent) places.
func NewRabin(expectedSize int, seed uint32) (*Rabin, error) {
	if expectedSize <= 0 {
		return nil, invalidParam("expected size must be positive, got %d", expectedSize)
	}
	w := expectedSize/4 - 1
	if w < 1 {
		return nil, invalidParam("expected size %d too small: derived Rabin window %d must be at least 1", expectedSize, w)
	}
	minSize := expectedSize / 4
	maxSize := expectedSize * 4
	mask := uint32(nextPowerOfTwo(expectedSize) - 1)

	r := &Rabin{
		w:       w,
		minSize: minSize,
		maxSize: maxSize,
		mask:    mask,
		seed:    seed,
		buf:     newStreamBuf(defaultBufSize),
	}

	alphaPowW := modPow32(rabinAlpha, w)
	for i := 0; i < 256; i++ {
		r.table[i] = uint32(i) * alphaPowW
	}

	return r, nil
}

// rabinCore is the byte-at-a-time rolling-hash state shared by the
// streaming and in-memory paths.
type rabinCore struct {
	r *Rabin

	h          uint32
	window     []byte
	windowPos  int
	windowFull bool
	n          int // bytes consumed in the current chunk
}

func newRabinCore(r *Rabin) *rabinCore {
	return &rabinCore{r: r, window: make([]byte, r.w)}
}

func (c *rabinCore) reset() {
	c.h = 0
	c.windowPos = 0
	c.windowFull = false
	c.n = 0
	for i := range c.window {
		c.window[i] = 0
	}
}

// observe rolls byte b into the hash and reports whether a boundary should
// be placed immediately after (inclusive of) this byte.
func (c *rabinCore) observe(b byte) (cut bool) {
	r := c.r

	c.h = c.h*rabinAlpha + uint32(b)
	if c.windowFull {
		f := c.window[c.windowPos]
		c.h -= r.table[f]
	}
	c.window[c.windowPos] = b
	c.windowPos++
	if c.windowPos == len(c.window) {
		c.windowPos = 0
		c.windowFull = true
	}

	c.n++

	if c.n >= r.maxSize {
		return true
	}
	if c.n >= r.minSize && c.windowFull && (c.h^r.seed)&r.mask == 0 {
		return true
	}
	return false
}

// Next implements Chunker.
func (r *Rabin) Next(rd ByteReader, w ByteWriter) (Status, error) {
	core := newRabinCore(r)
	scanned := 0

	for {
		avail, err := r.buf.fill(rd)
		if err != nil && err != io.EOF {
			return Working, fmt.Errorf("chunker: rabin: read: %w", err)
		}
		eof := err == io.EOF

		for scanned < avail {
			b := r.buf.buf[scanned]
			scanned++
			if core.observe(b) {
				if _, werr := w.Write(r.buf.buf[:scanned]); werr != nil {
					return Working, fmt.Errorf("chunker: rabin: write: %w", werr)
				}
				r.buf.shift(scanned, avail)
				return Working, nil
			}
		}

		if eof {
			if avail == 0 {
				return Finished, nil
			}
			if _, werr := w.Write(r.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: rabin: write: %w", werr)
			}
			r.buf.drain()
			return Working, nil
		}

		if avail == len(r.buf.buf) {
			if _, werr := w.Write(r.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: rabin: write: %w", werr)
			}
			r.buf.drain()
			scanned = 0
		}
	}
}

// NextInMemory implements Chunker.
func (r *Rabin) NextInMemory(data []byte, start int) (int, error) {
	if start >= len(data) {
		return start, nil
	}

	core := newRabinCore(r)
	for i := start; i < len(data); i++ {
		if core.observe(data[i]) {
			return i + 1, nil
		}
	}
	return len(data), nil
}

// Chunk implements Chunker.
func (r *Rabin) Chunk(data []byte) ([]int, error) {
	return chunkFromBoundaries(r, data)
}

// Window returns the sliding window size w. The parallel package's
// overlap-scan strategy primes each worker's scan from w bytes before its
// slab to reproduce serial boundaries across slab seams.
func (r *Rabin) Window() int {
	return r.w
}

// nextPowerOfTwo returns the smallest power of two >= n (n > 0).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// modPow32 computes base^exp mod 2^32 using unsigned wraparound.
func modPow32(base uint32, exp int) uint32 {
	result := uint32(1)
	b := base
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			result *= b
		}
		b *= b
	}
	return result
}
