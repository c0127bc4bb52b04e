// Package chunker implements content-defined chunking (CDC): splitting a
// byte stream into variable-length chunks whose boundaries depend on local
// content rather than fixed offsets. Identical regions embedded at shifted
// offsets in different inputs split at the same boundaries, which is what
// makes CDC the foundation of content-addressed deduplication.
//
// Three interchangeable algorithms are provided (AE, Rabin, FastCDC) plus a
// trivial fixed-size baseline, all behind the same streaming Chunker
// contract. A chunker is single-use: construct one per stream, drive it to
// Finished, then discard it. Reusing an instance across unrelated streams
// corrupts the next stream's boundaries because buffer and rolling-hash
// state carries over.
package chunker

import (
	"errors"
	"fmt"
)

// Status reports whether a Chunker has more work to do.
type Status int

const (
	// Working indicates a complete chunk was written and more input may remain.
	Working Status = iota
	// Finished indicates the input is exhausted; no further bytes remain.
	Finished
)

func (s Status) String() string {
	if s == Finished {
		return "Finished"
	}
	return "Working"
}

// Algorithm names one of the chunking strategies this package implements.
type Algorithm string

const (
	AlgorithmAE      Algorithm = "ae"
	AlgorithmRabin   Algorithm = "rabin"
	AlgorithmFastCDC Algorithm = "fastcdc"
	AlgorithmFixed   Algorithm = "fixed"
)

// ErrInvalidParameter is returned by a constructor when a parameter cannot
// produce a valid chunker (e.g. a non-positive expected size).
var ErrInvalidParameter = errors.New("chunker: invalid parameter")

// invalidParam wraps ErrInvalidParameter with a descriptive message while
// keeping it matchable with errors.Is.
func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// Chunker is the uniform streaming contract every algorithm in this package
// implements. A Chunker instance is mutable, stateful, and not safe for
// concurrent use.
type Chunker interface {
	// Next reads from r and writes exactly one complete chunk to w,
	// returning Working. Once r is exhausted and no further bytes remain
	// to emit, it returns Finished without writing anything. The
	// concatenation of all chunks written across repeated calls equals
	// the bytes read from r; no empty chunk is ever written.
	Next(r ByteReader, w ByteWriter) (Status, error)

	// NextInMemory behaves like Next but reads directly out of data
	// starting at start, returning the exclusive end offset of the
	// chunk it found. It does not copy; callers slice data[start:end]
	// themselves. end is always > start, or equals len(data) when the
	// chunker is exhausted with no bytes left to emit (in which case
	// end == start == len(data)).
	NextInMemory(data []byte, start int) (end int, err error)

	// Chunk splits data into a boundary list: a strictly increasing
	// sequence of exclusive end offsets whose last element is len(data).
	// It is built on top of NextInMemory and does not mutate data.
	Chunk(data []byte) ([]int, error)
}

// ByteReader is the minimal read contract a streaming Chunker needs. It is
// satisfied by io.Reader.
type ByteReader interface {
	Read(p []byte) (n int, err error)
}

// ByteWriter is the minimal write contract a streaming Chunker needs. It is
// satisfied by io.Writer.
type ByteWriter interface {
	Write(p []byte) (n int, err error)
}

// chunkFromBoundaries runs the in-memory boundary walk shared by every
// algorithm's Chunk method.
func chunkFromBoundaries(c Chunker, data []byte) ([]int, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var bounds []int
	start := 0
	for start < len(data) {
		end, err := c.NextInMemory(data, start)
		if err != nil {
			return nil, err
		}
		if end <= start {
			// Exhausted with nothing left to emit.
			break
		}
		bounds = append(bounds, end)
		start = end
	}
	return bounds, nil
}
