package tagged

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/oy3o/tagcodec"
)

// DataReader decodes tagged units from a codec.Reader. It latches the first
// error; once the stream is exhausted IsEOF tells a clean end apart from a
// truncated unit.
type DataReader struct {
	r    *codec.Reader
	last Tag
}

// NewDataReader reads from r using cfg without reading ahead, so r is left
// positioned just after the last decoded unit.
func NewDataReader(r io.Reader, cfg codec.Config) (*DataReader, error) {
	cr, err := codec.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &DataReader{r: cr.WithConfig(cfg)}, nil
}

func (dr *DataReader) Reader() *codec.Reader { return dr.r }
func (dr *DataReader) Err() error            { return dr.r.Err() }
func (dr *DataReader) Count() int64          { return dr.r.Count() }

// IsEOF reports whether the stream ended cleanly before the next tag.
func (dr *DataReader) IsEOF() bool { return dr.r.IsEOF() }

// LastTag returns the tag of the unit most recently started by ReadItem.
func (dr *DataReader) LastTag() Tag { return dr.last }

func (dr *DataReader) fail(err error) error {
	dr.r.SetError(err)
	return dr.r.Err()
}

// ReadItem decodes the next unit of any family. eos is true when the unit is
// the end-of-sequence marker; a Null unit decodes to a Value with no kind.
func (dr *DataReader) ReadItem() (v Value, eos bool, err error) {
	t, err := dr.r.Next()
	if err != nil {
		return Value{}, false, err
	}
	dr.last = Tag(t)
	switch Tag(t) {
	case TagEos:
		return Value{}, true, nil
	case TagNull:
		return Value{null: true}, false, nil
	}
	info := &tags[t]
	switch info.role {
	case roleSentinel:
		return info.family.sentinelValue(info.sentinel), false, nil
	case roleGeneric:
		v = dr.readPayload(info.family)
	case roleSmall, roleMedium, roleLarge, roleEmpty:
		v = dr.readArray(info.family, info.role)
	default:
		return Value{}, false, dr.fail(formatError("value", Tag(t)))
	}
	if err := dr.r.Err(); err != nil {
		return Value{}, false, err
	}
	return v, false, nil
}

// ReadValue decodes the next unit. An Eos marker is a FormatError here.
func (dr *DataReader) ReadValue() (Value, error) {
	v, eos, err := dr.ReadItem()
	if err == nil && eos {
		err = dr.fail(formatError("value", TagEos))
	}
	return v, err
}

// ReadSequence decodes units up to and including the next Eos marker.
func (dr *DataReader) ReadSequence() ([]Value, error) {
	var vs []Value
	for {
		v, eos, err := dr.ReadItem()
		if dr.IsEOF() {
			return vs, fmt.Errorf("%w: sequence without Eos: %w", codec.ErrEndOfStream, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return vs, err
		}
		if eos {
			return vs, nil
		}
		vs = append(vs, v)
	}
}

// readPayload decodes the bytes following a generic tag of f.
func (dr *DataReader) readPayload(f *Family) Value {
	r := dr.r
	switch f.Kind {
	case KindString:
		var s string
		r.ReadSizedString(&s)
		return StringValue(s)
	case KindGuid:
		var g uuid.UUID
		r.ReadGuid(&g)
		return GuidValue(g)
	case KindSingle:
		var x float32
		r.ReadFloat32(&x)
		return SingleValue(x)
	case KindDouble:
		var x float64
		r.ReadFloat64(&x)
		return DoubleValue(x)
	}
	var bits uint64
	switch f.Width {
	case 1:
		var x uint8
		r.ReadUint8(&x)
		bits = uint64(x)
	case 2:
		var x uint16
		r.ReadUint16(&x)
		bits = uint64(x)
	case 4:
		var x uint32
		r.ReadUint32(&x)
		bits = uint64(x)
	case 8:
		r.ReadUint64(&bits)
	}
	if f.Kind.isSigned() && f.Width < 8 {
		shift := 64 - 8*f.Width
		bits = uint64(int64(bits<<shift) >> shift)
	}
	return Value{kind: f.Kind, num: bits}
}

// readArray decodes the count and elements following an array tag of f.
func (dr *DataReader) readArray(f *Family, ro role) Value {
	n := readCount(dr.r, ro)
	if dr.r.Err() != nil {
		return Value{}
	}
	var list any
	switch f.Kind {
	case KindBool:
		list = codec.ReadRaw[bool](dr.r, n)
	case KindChar:
		list = codec.ReadRaw[codec.Char](dr.r, n)
	case KindByte:
		list = codec.ReadRaw[uint8](dr.r, n)
	case KindSByte:
		list = codec.ReadRaw[int8](dr.r, n)
	case KindInt16:
		list = codec.ReadRaw[int16](dr.r, n)
	case KindUInt16:
		list = codec.ReadRaw[uint16](dr.r, n)
	case KindInt32:
		list = codec.ReadRaw[int32](dr.r, n)
	case KindUInt32:
		list = codec.ReadRaw[uint32](dr.r, n)
	case KindInt64:
		list = codec.ReadRaw[int64](dr.r, n)
	case KindUInt64:
		list = codec.ReadRaw[uint64](dr.r, n)
	case KindSingle:
		list = codec.ReadRaw[float32](dr.r, n)
	case KindDouble:
		list = codec.ReadRaw[float64](dr.r, n)
	case KindDateTime:
		list = codec.ReadRaw[codec.DateTime](dr.r, n)
	case KindTimeSpan:
		list = codec.ReadRaw[time.Duration](dr.r, n)
	case KindGuid:
		list = codec.ReadRaw[uuid.UUID](dr.r, n)
	case KindCurrency:
		list = codec.ReadRaw[codec.Currency](dr.r, n)
	case KindString:
		list = readStrings[string](dr.r, n)
	case KindBytes:
		list = readByteArrays(dr.r, n)
	}
	return Value{kind: f.Kind, array: true, any: list}
}

// --- Typed reads ---

// readScalar reads one unit of T's family. Null yields nil when optional and a
// FormatError otherwise, as does a tag from any other family.
func readScalar[T Element](dr *DataReader, optional bool) (*T, error) {
	f := FamilyOf(kindFor[T]())
	if f == nil {
		return nil, dr.fail(fmt.Errorf("%w: cannot decode %s", codec.ErrArgument, reflect.TypeFor[T]()))
	}
	t, err := dr.r.Next()
	if err != nil {
		return nil, err
	}
	if Tag(t) == TagNull && optional {
		return nil, nil
	}
	info := &tags[t]
	var v Value
	switch {
	case info.family != f:
		return nil, dr.fail(formatError(f.Name, Tag(t)))
	case info.role == roleSentinel:
		v = f.sentinelValue(info.sentinel)
	case info.role == roleGeneric:
		v = dr.readPayload(f)
	default:
		return nil, dr.fail(formatError(f.Name, Tag(t)))
	}
	if err := dr.r.Err(); err != nil {
		return nil, err
	}
	out := new(T)
	v.assign(reflect.ValueOf(out).Elem())
	return out, nil
}

// Read decodes a value of T. Null and tags of other families are FormatErrors.
func Read[T Element](dr *DataReader) (T, error) {
	p, err := readScalar[T](dr, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// ReadOptional decodes a value of T, or nil for Null.
func ReadOptional[T Element](dr *DataReader) (*T, error) {
	return readScalar[T](dr, true)
}

// ReadArray decodes an array of T. Null yields nil; Empty yields a non-nil
// empty slice.
func ReadArray[T codec.Scalar](dr *DataReader) ([]T, error) {
	f := FamilyOf(kindFor[T]())
	if f == nil || f.Kind == KindBytes {
		return nil, dr.fail(fmt.Errorf("%w: cannot decode []%s", codec.ErrArgument, reflect.TypeFor[T]()))
	}
	vs := readRawArray[T](dr.r, f, false)
	return vs, dr.r.Err()
}

// ReadArrayInto decodes an array of T into the fixed-capacity dest. The decoded
// count must equal len(dest); Null and Empty count as zero.
func ReadArrayInto[T codec.Scalar](dr *DataReader, dest []T) error {
	f := FamilyOf(kindFor[T]())
	if f == nil || f.Kind == KindBytes {
		return dr.fail(fmt.Errorf("%w: cannot decode []%s", codec.ErrArgument, reflect.TypeFor[T]()))
	}
	readRawArrayInto(dr.r, f, dest)
	return dr.r.Err()
}

// ReadStrings decodes a string array. Null yields nil.
func ReadStrings[S ~string](dr *DataReader) ([]S, error) {
	vs := readStringArray[S](dr.r)
	return vs, dr.r.Err()
}

// ReadByteArrayList decodes a list of byte arrays. Null yields nil, as does a
// Null element.
func ReadByteArrayList(dr *DataReader) ([][]byte, error) {
	vs := readByteArrayList(dr.r)
	return vs, dr.r.Err()
}
