package stream

// EncoderFunc converts a value of type T to one JSON line.
type EncoderFunc[T any] func(T) ([]byte, error)

// DecoderFunc converts one JSON line into a value of type T.
type DecoderFunc[T any] func([]byte) (T, error)

// Emitter writes records of type T.
type Emitter[T any] interface {
	Emit(records []T) error
	EmitOne(record T) error
}

// Reader streams records of type T. Next reports ok=false at the end.
type Reader[T any] interface {
	Next() (record T, ok bool, err error)
	ReadAll() ([]T, error)
	Close() error
}
