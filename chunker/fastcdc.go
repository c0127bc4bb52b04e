package chunker

import (
	"fmt"
	"io"
	"math/bits"
)

const (
	fastCDCLCGMul uint64 = 6364136223846793005
	fastCDCLCGInc uint64 = 1442695040888963407
)

// FastCDC implements gear-hash normalized chunking: each byte indexes a
// random 64-bit gear value that rolls into a hash by shift-and-add, and the
// boundary test switches between a stricter "short" mask and a laxer "long"
// mask as the chunk grows past expected_size, narrowing the chunk-size
// distribution relative to single-mask Rabin.
type FastCDC struct {
	minSize      int
	expectedSize int
	maxSize      int
	shortMask    uint64
	longMask     uint64
	gear         [256]uint64
	buf          *streamBuf
}

// NewFastCDC constructs a FastCDC chunker. seed determines both the gear
// table and the two masks, so two chunkers with different seeds cut the
// same input at different (but each internally consistent) boundaries.
func NewFastCDC(expectedSize int, seed uint64) (*FastCDC, error) {
	if expectedSize <= 0 {
		return nil, invalidParam("expected size must be positive, got %d", expectedSize)
	}

	f := &FastCDC{
		minSize:      expectedSize / 4,
		expectedSize: expectedSize,
		maxSize:      expectedSize * 8,
		buf:          newStreamBuf(defaultBufSize),
	}
	if f.minSize < 1 {
		return nil, invalidParam("expected size %d too small: derived FastCDC min size %d must be at least 1", expectedSize, f.minSize)
	}

	state := seed
	for i := range f.gear {
		state = state*fastCDCLCGMul + fastCDCLCGInc
		f.gear[i] = state
	}

	// The mask derivation restarts the LCG from the chunker's own seed; it
	// does not continue the stream left over from the gear table.
	bitCount := bits.OnesCount(uint(nextPowerOfTwo(expectedSize) - 1))
	f.shortMask, f.longMask = fastCDCMasks(bitCount, seed)

	return f, nil
}

// fastCDCMasks derives the short (stricter) and long (laxer) boundary masks
// for a target chunk size spanning bitCount bits, using an LCG seeded
// independently from the gear table. bitCount == 13 uses the paper's
// published constants directly.
func fastCDCMasks(bitCount int, seed uint64) (short, long uint64) {
	if bitCount == 13 {
		return 0x0003590703530000, 0x0000d90003530000
	}

	state := seed
	var mask uint64
	for bits.OnesCount64(mask) < bitCount-1 {
		state = state*fastCDCLCGMul + fastCDCLCGInc
		mask = bits.RotateLeft64(mask|1, int(state&0x3F))
	}
	long = mask
	for bits.OnesCount64(mask) < bitCount+1 {
		state = state*fastCDCLCGMul + fastCDCLCGInc
		mask = bits.RotateLeft64(mask|1, int(state&0x3F))
	}
	short = mask
	return short, long
}

// fastCDCCore is the byte-at-a-time gear-hash state shared by the streaming
// and in-memory paths.
type fastCDCCore struct {
	f *FastCDC
	h uint64
	n int
}

func newFastCDCCore(f *FastCDC) *fastCDCCore {
	return &fastCDCCore{f: f}
}

// observe rolls byte b into the gear hash and reports whether a boundary
// should be placed immediately after (inclusive of) this byte. n is the
// number of bytes already consumed by this chunk before b (0-indexed
// position of b itself); bytes before min_size never touch the hash.
func (c *fastCDCCore) observe(b byte) (cut bool) {
	f := c.f
	if c.n < f.minSize {
		c.n++
		return false
	}

	c.h = (c.h << 1) + f.gear[b]
	c.n++
	cut = (c.n < f.expectedSize && c.h&f.shortMask == 0) ||
		(c.n >= f.expectedSize && c.h&f.longMask == 0) ||
		c.n >= f.maxSize
	return cut
}

// Next implements Chunker.
func (f *FastCDC) Next(r ByteReader, w ByteWriter) (Status, error) {
	core := newFastCDCCore(f)
	scanned := 0

	for {
		avail, err := f.buf.fill(r)
		if err != nil && err != io.EOF {
			return Working, fmt.Errorf("chunker: fastcdc: read: %w", err)
		}
		eof := err == io.EOF

		for scanned < avail {
			b := f.buf.buf[scanned]
			scanned++
			if core.observe(b) {
				if _, werr := w.Write(f.buf.buf[:scanned]); werr != nil {
					return Working, fmt.Errorf("chunker: fastcdc: write: %w", werr)
				}
				f.buf.shift(scanned, avail)
				return Working, nil
			}
		}

		if eof {
			if avail == 0 {
				return Finished, nil
			}
			if _, werr := w.Write(f.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: fastcdc: write: %w", werr)
			}
			f.buf.drain()
			return Working, nil
		}

		if avail == len(f.buf.buf) {
			if _, werr := w.Write(f.buf.buf[:avail]); werr != nil {
				return Working, fmt.Errorf("chunker: fastcdc: write: %w", werr)
			}
			f.buf.drain()
			scanned = 0
		}
	}
}

// NextInMemory implements Chunker.
func (f *FastCDC) NextInMemory(data []byte, start int) (int, error) {
	if start >= len(data) {
		return start, nil
	}

	core := newFastCDCCore(f)
	for i := start; i < len(data); i++ {
		if core.observe(data[i]) {
			return i + 1, nil
		}
	}
	return len(data), nil
}

// Chunk implements Chunker.
func (f *FastCDC) Chunk(data []byte) ([]int, error) {
	return chunkFromBoundaries(f, data)
}
