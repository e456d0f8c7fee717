package stream

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single record; records carry whole declarations.
const maxLineSize = 64 << 20

var gzipMagic = []byte{0x1f, 0x8b}

// JSONLReader decodes one record per line, skipping blank lines and
// "#" header lines. Gzip input is detected from its magic bytes.
type JSONLReader[T any] struct {
	sc      *bufio.Scanner
	closers []io.Closer
	decode  DecoderFunc[T]
	lineNo  int
}

// NewJSONLReader opens path, or stdin when path is empty. A nil decode
// means json.Unmarshal.
func NewJSONLReader[T any](path string, decode DecoderFunc[T]) (Reader[T], error) {
	if path == "" {
		r, err := newReader(os.Stdin, nil, decode)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := newReader(f, []io.Closer{f}, decode)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// NewJSONLReaderFrom reads records from r; Close leaves r open.
func NewJSONLReaderFrom[T any](r io.Reader, decode DecoderFunc[T]) Reader[T] {
	jr, err := newReader(r, nil, decode)
	if err != nil {
		// only a corrupt gzip header gets here; surface it on the first Next
		return &failedReader[T]{err: err}
	}
	return jr
}

func newReader[T any](r io.Reader, closers []io.Closer, decode DecoderFunc[T]) (*JSONLReader[T], error) {
	if decode == nil {
		decode = func(b []byte) (T, error) {
			var v T
			err := json.Unmarshal(b, &v)
			return v, err
		}
	}
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, _ := br.Peek(len(gzipMagic)); bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		src = zr
		closers = append([]io.Closer{zr}, closers...)
	}
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONLReader[T]{sc: sc, closers: closers, decode: decode}, nil
}

func (r *JSONLReader[T]) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *JSONLReader[T]) Next() (T, bool, error) {
	var zero T
	for r.sc.Scan() {
		r.lineNo++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		v, err := r.decode(line)
		if err != nil {
			return zero, false, fmt.Errorf("line %d: %w", r.lineNo, err)
		}
		return v, true, nil
	}
	if err := r.sc.Err(); err != nil {
		return zero, false, fmt.Errorf("line %d: %w", r.lineNo+1, err)
	}
	return zero, false, nil
}

func (r *JSONLReader[T]) ReadAll() ([]T, error) {
	return readAll[T](r)
}

func readAll[T any](r Reader[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

type failedReader[T any] struct{ err error }

func (f *failedReader[T]) Next() (T, bool, error) {
	var zero T
	return zero, false, f.err
}

func (f *failedReader[T]) ReadAll() ([]T, error) { return nil, f.err }

func (f *failedReader[T]) Close() error { return nil }
