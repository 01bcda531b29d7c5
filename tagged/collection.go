package tagged

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/oy3o/tagcodec"
)

// tierTag picks the smallest array tag that can hold count n.
func tierTag[N constraints.Integer](a ArrayTags, n N) Tag {
	switch {
	case n <= 0:
		return a.Empty
	case uint64(n) <= math.MaxUint8:
		return a.Small
	case uint64(n) <= math.MaxUint16:
		return a.Medium
	}
	return a.Large
}

// countLen is the width of the count field that follows the tier tag for n.
func countLen[N constraints.Integer](n N) int {
	switch {
	case n <= 0:
		return 0
	case uint64(n) <= math.MaxUint8:
		return 1
	case uint64(n) <= math.MaxUint16:
		return 2
	}
	return 4
}

// writeHeader writes the tier tag and count for n elements and reports whether
// elements follow.
func writeHeader(w *codec.Writer, f *Family, n int) bool {
	if uint64(n) > math.MaxUint32 {
		w.SetError(fmt.Errorf("%w: %s with %d elements exceeds a 32-bit count", codec.ErrArgument, f.arrayName(), n))
		return false
	}
	t := tierTag(f.Array, n)
	w.WriteUint8(uint8(t))
	switch t {
	case f.Array.Small:
		w.WriteUint8(uint8(n))
	case f.Array.Medium:
		w.WriteUint16(uint16(n))
	case f.Array.Large:
		w.WriteUint32(uint32(n))
	default:
		return false
	}
	return w.Err() == nil
}

// readCount reads the count field of an array tag with role r.
func readCount(r *codec.Reader, ro role) int {
	switch ro {
	case roleSmall:
		var n uint8
		r.ReadUint8(&n)
		return int(n)
	case roleMedium:
		var n uint16
		r.ReadUint16(&n)
		return int(n)
	case roleLarge:
		var n uint32
		r.ReadUint32(&n)
		return int(n)
	}
	return 0
}

func writeRawArray[T codec.Scalar](w *codec.Writer, f *Family, vs []T) {
	if vs == nil {
		w.WriteUint8(uint8(TagNull))
		return
	}
	if writeHeader(w, f, len(vs)) {
		codec.WriteRaw(w, vs)
	}
}

func writeStringArray[S ~string](w *codec.Writer, vs []S) {
	if vs == nil {
		w.WriteUint8(uint8(TagNull))
		return
	}
	if writeHeader(w, &families[KindString], len(vs)) {
		for _, s := range vs {
			w.WriteSizedString(string(s))
		}
	}
}

func writeByteArrayList(w *codec.Writer, vs [][]byte) {
	if vs == nil {
		w.WriteUint8(uint8(TagNull))
		return
	}
	if writeHeader(w, &families[KindBytes], len(vs)) {
		for _, b := range vs {
			writeRawArray(w, &families[KindByte], b)
		}
	}
}

// arrayHeader reads a tag that must introduce an array of f. It returns the
// element count, or -1 for Null. A nested array is inside another unit, so the
// stream ending before its tag is a truncation rather than a clean end.
func arrayHeader(r *codec.Reader, f *Family, nested bool) int {
	next := r.Next
	if nested {
		next = r.ReadByte
	}
	t, err := next()
	if err != nil {
		return 0
	}
	if Tag(t) == TagNull {
		return -1
	}
	info := &tags[t]
	if info.family != f || info.role < roleSmall {
		r.SetError(formatError(f.arrayName(), Tag(t)))
		return 0
	}
	return readCount(r, info.role)
}

func readRawArray[T codec.Scalar](r *codec.Reader, f *Family, nested bool) []T {
	n := arrayHeader(r, f, nested)
	if n < 0 || r.Err() != nil {
		return nil
	}
	return codec.ReadRaw[T](r, n)
}

func readStringArray[S ~string](r *codec.Reader) []S {
	n := arrayHeader(r, &families[KindString], false)
	if n < 0 || r.Err() != nil {
		return nil
	}
	return readStrings[S](r, n)
}

func readStrings[S ~string](r *codec.Reader, n int) []S {
	out := make([]S, 0, min(n, codec.MAX_CHUNK))
	for range n {
		var s string
		r.ReadSizedString(&s)
		if r.Err() != nil {
			return nil
		}
		out = append(out, S(s))
	}
	return out
}

func readByteArrayList(r *codec.Reader) [][]byte {
	n := arrayHeader(r, &families[KindBytes], false)
	if n < 0 || r.Err() != nil {
		return nil
	}
	return readByteArrays(r, n)
}

// readByteArrays reads n elements, each a complete tagged byte array.
func readByteArrays(r *codec.Reader, n int) [][]byte {
	out := make([][]byte, 0, min(n, codec.MAX_CHUNK))
	for range n {
		b := readRawArray[byte](r, &families[KindByte], true)
		if r.Err() != nil {
			return nil
		}
		out = append(out, b)
	}
	return out
}

// readRawArrayInto fills the fixed-capacity dest. Null and Empty only match an
// empty dest; any other count mismatch is an ArgumentError.
func readRawArrayInto[T codec.Scalar](r *codec.Reader, f *Family, dest []T) {
	n := arrayHeader(r, f, false)
	if r.Err() != nil {
		return
	}
	n = max(n, 0)
	if n != len(dest) {
		r.SetError(&codec.ArgumentError{Name: f.arrayName(), Expected: len(dest), Actual: n})
		return
	}
	codec.ReadRawInto(r, dest)
}

func formatError(expected string, t Tag) error {
	return &codec.FormatError{Expected: expected, Tag: byte(t), Name: t.String()}
}
