package codec

import (
	"io"
)

// Fixed provides a generic `Codec` implementation for a single fixed-width
// scalar in its raw wire form under DefaultConfig: no tag, no size field.
type Fixed[T Scalar] struct {
	Payload T
}

// Statically assert that Fixed implements Codec.
var _ Codec = (*Fixed[uint32])(nil)

// Size returns the width of T in bytes.
func (c *Fixed[T]) Size() int { return SizeOf[T]() }

// MarshalBinary implements the standard `encoding.BinaryMarshaler` interface.
func (c *Fixed[T]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, c.Size())
	putScalar(Order, buf, c.Payload)
	return buf, nil
}

// UnmarshalBinary implements the standard `encoding.BinaryUnmarshaler` interface.
// data must be exactly Size bytes long.
func (c *Fixed[T]) UnmarshalBinary(data []byte) error {
	size := c.Size()
	if len(data) < size {
		return errUnexpectedEnd
	}
	if len(data) > size {
		return ErrTrailingData
	}
	c.Payload = getScalar[T](Order, data)
	return nil
}

// ReadFrom reads exactly Size bytes from r.
func (c *Fixed[T]) ReadFrom(r io.Reader) (int64, error) {
	var buf [16]byte
	size := c.Size()
	n, err := io.ReadFull(r, buf[:size])
	if err != nil {
		return int64(n), readError(err)
	}
	c.Payload = getScalar[T](Order, buf[:size])
	return int64(n), nil
}

// WriteTo writes the raw encoding of the payload to w.
func (c *Fixed[T]) WriteTo(w io.Writer) (int64, error) {
	var buf [16]byte
	size := c.Size()
	putScalar(Order, buf[:size], c.Payload)
	n, err := w.Write(buf[:size])
	return int64(n), err
}

// MarshalTo marshals the payload into the provided slice `p`.
func (c *Fixed[T]) MarshalTo(p []byte) (int, error) {
	size := c.Size()
	if len(p) < size {
		return 0, io.ErrShortBuffer
	}
	putScalar(Order, p[:size], c.Payload)
	return size, nil
}
