package codec

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their encoded size.
type Sizer interface {
	// Size returns the number of bytes the value occupies on the wire.
	Size() int
}

// Marshaler defines the methods for encoding a value.
type Marshaler interface {
	// encoding.BinaryMarshaler allocates and returns a new byte slice.
	encoding.BinaryMarshaler // Method: MarshalBinary() ([]byte, error)
	// io.WriterTo streams the encoding to w.
	io.WriterTo // Method: WriteTo(writer io.Writer) (int64, error)

	// MarshalTo encodes into a pre-allocated buffer, returning
	// io.ErrShortBuffer if the buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the methods for decoding a value.
type Unmarshaler interface {
	// encoding.BinaryUnmarshaler decodes exactly one value from data.
	encoding.BinaryUnmarshaler // Method: UnmarshalBinary(data []byte) error
	// io.ReaderFrom decodes one value from a stream, consuming only its bytes.
	io.ReaderFrom // Method: ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all binary serialization and deserialization interfaces.
// A type implementing Codec is a complete, self-sizing binary encoder/decoder.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}
