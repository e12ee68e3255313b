package blob

import (
	"bytes"
	"io"
	"os"
)

// Source is the sealed-enum replacement for the reference implementation's
// dynamic bytes|path|file-like|iterable acceptance: one constructor per
// variant, a single interface method pair, no runtime name-probing (see
// Design Notes §9).
type Source interface {
	// Open returns a fresh readable stream over the source's content.
	Open() (io.ReadCloser, error)
	// SizeHint returns the source's byte length if known up front.
	SizeHint() (int64, bool)
}

type bytesSource struct{ data []byte }

// FromBytes wraps an in-memory byte slice.
func FromBytes(data []byte) Source { return bytesSource{data: data} }

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s bytesSource) SizeHint() (int64, bool) { return int64(len(s.data)), true }

type fileSource struct{ path string }

// FromFile wraps a filesystem path, opened lazily.
func FromFile(path string) Source { return fileSource{path: path} }

func (s fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

func (s fileSource) SizeHint() (int64, bool) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return 0, false
	}
	return fi.Size(), true
}

type readerSource struct{ r io.Reader }

// FromReader wraps an arbitrary reader with no known size.
func FromReader(r io.Reader) Source { return readerSource{r: r} }

func (s readerSource) Open() (io.ReadCloser, error) {
	if rc, ok := s.r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(s.r), nil
}

func (s readerSource) SizeHint() (int64, bool) { return 0, false }

type chunksSource struct{ chunks [][]byte }

// FromChunks wraps a sequence of byte chunks concatenated in order.
func FromChunks(chunks [][]byte) Source { return chunksSource{chunks: chunks} }

func (s chunksSource) Open() (io.ReadCloser, error) {
	readers := make([]io.Reader, len(s.chunks))
	for i, c := range s.chunks {
		readers[i] = bytes.NewReader(c)
	}
	return io.NopCloser(io.MultiReader(readers...)), nil
}

func (s chunksSource) SizeHint() (int64, bool) {
	var total int64
	for _, c := range s.chunks {
		total += int64(len(c))
	}
	return total, true
}
