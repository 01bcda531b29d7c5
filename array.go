package codec

import "reflect"

// WriteRaw writes each element of vs in its raw encoding, with no count.
// Elements are encoded through the staging buffer in runs.
func WriteRaw[T Scalar](w *Writer, vs []T) {
	if len(vs) == 0 || w.err != nil {
		return
	}
	width := SizeOf[T]()
	stage := w.staging()
	per := len(stage) / width
	for len(vs) > 0 {
		k := min(per, len(vs))
		buf := stage[:k*width]
		for i, v := range vs[:k] {
			putScalar(w.order, buf[i*width:(i+1)*width], v)
		}
		if _, err := w.Write(buf); err != nil {
			return
		}
		vs = vs[k:]
	}
}

// WriteSlice writes a size field holding len(vs), then the raw elements.
func WriteSlice[T Scalar](w *Writer, vs []T) {
	w.WriteSize(len(vs))
	WriteRaw(w, vs)
}

// ReadRaw reads n raw elements. The result grows as data arrives rather than
// being sized from n up front. Boolean bytes are normalized to 0 or 1.
func ReadRaw[T Scalar](r *Reader, n int) []T {
	if n <= 0 || r.err != nil {
		return []T{}
	}
	width := SizeOf[T]()
	out := make([]T, 0, min(n, MAX_CHUNK/width))
	stage := r.staging()
	per := len(stage) / width
	isBool := reflect.TypeFor[T]().Kind() == reflect.Bool
	for len(out) < n {
		k := min(per, n-len(out))
		buf := stage[:k*width]
		if !r.readFull(buf) {
			return nil
		}
		for i := range k {
			b := buf[i*width : (i+1)*width]
			if isBool && b[0] > 1 {
				b[0] = 1
			}
			out = append(out, getScalar[T](r.order, b))
		}
	}
	return out
}

// ReadSlice reads a size field followed by that many raw elements.
func ReadSlice[T Scalar](r *Reader, dest *[]T) {
	n := r.ReadSize()
	if r.err != nil {
		return
	}
	if vs := ReadRaw[T](r, n); r.err == nil {
		*dest = vs
	}
}

// ReadRawInto reads exactly len(dest) raw elements into dest.
func ReadRawInto[T Scalar](r *Reader, dest []T) {
	if len(dest) == 0 || r.err != nil {
		return
	}
	width := SizeOf[T]()
	stage := r.staging()
	per := len(stage) / width
	isBool := reflect.TypeFor[T]().Kind() == reflect.Bool
	for off := 0; off < len(dest); {
		k := min(per, len(dest)-off)
		buf := stage[:k*width]
		if !r.readFull(buf) {
			return
		}
		for i := range k {
			b := buf[i*width : (i+1)*width]
			if isBool && b[0] > 1 {
				b[0] = 1
			}
			dest[off+i] = getScalar[T](r.order, b)
		}
		off += k
	}
}

// ReadSliceInto reads a size field and fills the fixed-capacity dest. A count that
// differs from len(dest) latches an ArgumentError and leaves the payload unread.
func ReadSliceInto[T Scalar](r *Reader, dest []T) {
	n := r.ReadSize()
	if r.err != nil {
		return
	}
	if n != len(dest) {
		r.setError(&ArgumentError{Name: reflect.TypeFor[T]().String() + " array", Expected: len(dest), Actual: n})
		return
	}
	ReadRawInto(r, dest)
}

// WriteOptional writes a presence flag, then v through write when it is non-nil.
func WriteOptional[T any](w *Writer, v *T, write func(T)) {
	w.WriteBool(v != nil)
	if v != nil {
		write(*v)
	}
}

// ReadOptional reads a presence flag and, when set, decodes a value through read.
func ReadOptional[T any](r *Reader, read func(*T)) *T {
	var present bool
	r.ReadBool(&present)
	if !present || r.err != nil {
		return nil
	}
	v := new(T)
	read(v)
	if r.err != nil {
		return nil
	}
	return v
}

// SetError latches err on the Reader if no earlier error is recorded.
// Higher-level decoders use it to report format violations.
func (r *Reader) SetError(err error) { r.setError(err) }

// SetError latches err on the Writer if no earlier error is recorded.
func (w *Writer) SetError(err error) { w.setError(err) }
