package codec

import "io"

const (
	// MaxVarintLen is the longest 7-bit encoding of a uint64. The ninth byte carries
	// the top 8 bits verbatim and always ends the sequence.
	MaxVarintLen = 9
	// MaxVarintLen32 is the longest 7-bit encoding of a uint32.
	MaxVarintLen32 = 5
)

// UvarintSize returns the number of bytes PutUvarint writes for v.
func UvarintSize(v uint64) int {
	n := 1
	for v > 0x7F && n < MaxVarintLen {
		v >>= 7
		n++
	}
	return n
}

// PutUvarint encodes v into buf, least-significant group first, and returns the
// number of bytes written. buf must hold at least UvarintSize(v) bytes.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v > 0x7F && i < MaxVarintLen-1 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// AppendUvarint appends the encoding of v to buf.
func AppendUvarint(buf []byte, v uint64) []byte {
	var tmp [MaxVarintLen]byte
	n := PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// ReadUvarint decodes a 7-bit encoded uint64 from r.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var x uint64
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, readError(err)
		}
		if i == MaxVarintLen-1 {
			return x | uint64(b)<<56, nil
		}
		x |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return x, nil
		}
	}
	return x, nil // unreachable: the ninth byte always returns
}

// ReadUvarint32 decodes a 7-bit encoded uint32 from r. A sequence that does not
// terminate within MaxVarintLen32 bytes, or overflows 32 bits, is a FormatError.
func ReadUvarint32(r io.ByteReader) (uint32, error) {
	var x uint32
	for i := 0; i < MaxVarintLen32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, readError(err)
		}
		if i == MaxVarintLen32-1 && b > 0x0F {
			return 0, &FormatError{Expected: "7-bit encoded size", Detail: "malformed variable-length integer"}
		}
		x |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return x, nil
		}
	}
	return 0, &FormatError{Expected: "7-bit encoded size", Detail: "malformed variable-length integer"}
}
