package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONLEmitter writes one JSON object per line (JSONL). It is safe for
// concurrent use.
type JSONLEmitter[T any] struct {
	mu           sync.Mutex
	outPath      string
	w            io.Writer // set when writing to a caller-owned stream
	encode       EncoderFunc[T]
	addRunHeader bool
	now          func() time.Time
}

// NewJSONLEmitter appends to outPath, creating it when missing. An empty
// path writes to stdout. If encode is nil, it falls back to json.Marshal.
func NewJSONLEmitter[T any](outPath string, encode EncoderFunc[T], addRunHeader bool) *JSONLEmitter[T] {
	return &JSONLEmitter[T]{
		outPath:      outPath,
		encode:       encoderOrDefault(encode),
		addRunHeader: addRunHeader,
		now:          time.Now,
	}
}

// NewJSONLWriter writes to w, which the caller closes.
func NewJSONLWriter[T any](w io.Writer, encode EncoderFunc[T], addRunHeader bool) *JSONLEmitter[T] {
	je := NewJSONLEmitter("", encode, addRunHeader)
	je.w = w
	return je
}

func encoderOrDefault[T any](encode EncoderFunc[T]) EncoderFunc[T] {
	if encode != nil {
		return encode
	}
	return func(v T) ([]byte, error) { return json.Marshal(v) }
}

// Emit writes a slice of records with a single open of the output.
func (je *JSONLEmitter[T]) Emit(records []T) error {
	je.mu.Lock()
	defer je.mu.Unlock()
	return je.write(records)
}

// EmitOne writes a single record.
func (je *JSONLEmitter[T]) EmitOne(record T) error {
	je.mu.Lock()
	defer je.mu.Unlock()
	return je.write([]T{record})
}

func (je *JSONLEmitter[T]) write(records []T) (err error) {
	out, closeOut, err := je.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(out)
	if je.addRunHeader {
		if _, err := fmt.Fprintf(w, "# Run at %s\n", je.now().Format(time.RFC3339)); err != nil {
			return err
		}
		je.addRunHeader = false
	}
	for _, rec := range records {
		b, err := je.encode(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (je *JSONLEmitter[T]) open() (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch {
	case je.w != nil:
		return je.w, noop, nil
	case je.outPath == "":
		return os.Stdout, noop, nil
	}
	f, err := os.OpenFile(je.outPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
