package codec

import (
	"encoding/binary"
	"slices"
	"unsafe"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is default binary order, the host policy's wire order.
	Order = LE
)

// STAGE_SIZE bounds the staging buffer a Reader or Writer allocates to encode
// or decode runs of multi-byte elements.
const STAGE_SIZE = 512

// MAX_CHUNK caps the allocation made ahead of data actually arriving when a
// length field announces a large payload.
const MAX_CHUNK = 64 * 1024

func Ptr[T any](v T) *T { return &v } // ptr is a helper function to create a pointer to a value, making test setup cleaner.

// Scalar is the set of fixed-width types with a raw wire encoding: the natural
// width of the type, byte-reversed under network order when wider than one byte.
// Named types over these (Char, Currency, DateTime, time.Duration, uuid.UUID) qualify.
type Scalar interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64 | ~[16]byte
}

// SizeOf returns the wire width of T in bytes.
func SizeOf[T Scalar]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// putScalar writes the raw encoding of v into b, which is exactly SizeOf[T]() long.
// Types are reinterpreted by width, so every member of Scalar shares one path.
func putScalar[T Scalar](order binary.ByteOrder, b []byte, v T) {
	p := unsafe.Pointer(&v)
	switch len(b) {
	case 1:
		b[0] = *(*uint8)(p)
	case 2:
		order.PutUint16(b, *(*uint16)(p))
	case 4:
		order.PutUint32(b, *(*uint32)(p))
	case 8:
		order.PutUint64(b, *(*uint64)(p))
	case 16:
		copy(b, (*[16]byte)(p)[:])
		if order == binary.ByteOrder(BE) {
			slices.Reverse(b)
		}
	}
}

// getScalar is the inverse of putScalar. One-byte values are copied verbatim;
// callers decoding booleans normalize the byte first.
func getScalar[T Scalar](order binary.ByteOrder, b []byte) T {
	var v T
	p := unsafe.Pointer(&v)
	switch len(b) {
	case 1:
		*(*uint8)(p) = b[0]
	case 2:
		*(*uint16)(p) = order.Uint16(b)
	case 4:
		*(*uint32)(p) = order.Uint32(b)
	case 8:
		*(*uint64)(p) = order.Uint64(b)
	case 16:
		dst := (*[16]byte)(p)[:]
		copy(dst, b)
		if order == binary.ByteOrder(BE) {
			slices.Reverse(dst)
		}
	}
	return v
}
