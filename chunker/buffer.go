package chunker

// defaultBufSize is the working buffer size used by the streaming variant
// of every algorithm in this package when reading from an io.Reader. Any
// size at least as large as the algorithm's max chunk size works; this
// mirrors the 4096-byte default used by the reference implementation this
// package's scenarios were seeded from.
const defaultBufSize = 4096

// streamBuf implements the scan/shift discipline spec.md §4.5 requires of
// every streaming chunker: a fixed buffer that is refilled, scanned for a
// boundary, and whose unemitted tail is shifted back to offset zero after
// each emission. buffered always equals the number of bytes currently held
// that have not yet been written to an output chunk.
type streamBuf struct {
	buf      []byte
	buffered int
}

func newStreamBuf(size int) *streamBuf {
	if size < defaultBufSize {
		size = defaultBufSize
	}
	return &streamBuf{buf: make([]byte, size)}
}

// fill reads as many additional bytes as the reader offers into the space
// after the already-buffered prefix, returning the total number of bytes
// now available to scan (buffered bytes plus newly read ones). End of input
// is reported by returning the reader's io.EOF alongside avail; avail == 0
// with io.EOF means nothing is left to emit.
func (b *streamBuf) fill(r ByteReader) (avail int, err error) {
	if b.buffered >= len(b.buf) {
		return b.buffered, nil
	}
	n, err := r.Read(b.buf[b.buffered:])
	if n > 0 {
		b.buffered += n
	}
	if err != nil {
		return b.buffered, err
	}
	return b.buffered, nil
}

// shift moves the unemitted tail buf[i:avail] down to offset zero after the
// chunk buf[:i] has been emitted (i is the exclusive end, i.e. the number of
// bytes emitted), and records the new buffered count.
func (b *streamBuf) shift(i, avail int) {
	tail := avail - i
	copy(b.buf[:tail], b.buf[i:avail])
	b.buffered = tail
}

// drain discards all currently buffered bytes, used when an entire fill's
// worth of bytes was scanned with no boundary found (spec.md §4.5 step 4).
func (b *streamBuf) drain() {
	b.buffered = 0
}
