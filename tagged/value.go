package tagged

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/oy3o/tagcodec"
)

// Element is the set of Go types with a tagged scalar encoding.
type Element interface {
	codec.Scalar | ~string
}

// Value is one decoded or to-be-encoded unit: a scalar, an array of scalars,
// a byte-array list, or Null. The zero Value is Null.
//
// Scalars keep their payload in num: sign-extended for signed families,
// zero-extended for unsigned ones and float64 bits for both float families.
// Strings, identifiers and arrays live in any; arrays always use the
// canonical slice type of their kind (see Value.Any).
type Value struct {
	kind  Kind
	array bool
	null  bool
	num   uint64
	any   any
}

var _ codec.Codec = (*Value)(nil)

func BoolValue(v bool) Value {
	if v {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func CharValue(v codec.Char) Value         { return Value{kind: KindChar, num: uint64(v)} }
func ByteValue(v uint8) Value              { return Value{kind: KindByte, num: uint64(v)} }
func SByteValue(v int8) Value              { return Value{kind: KindSByte, num: uint64(int64(v))} }
func Int16Value(v int16) Value             { return Value{kind: KindInt16, num: uint64(int64(v))} }
func UInt16Value(v uint16) Value           { return Value{kind: KindUInt16, num: uint64(v)} }
func Int32Value(v int32) Value             { return Value{kind: KindInt32, num: uint64(int64(v))} }
func UInt32Value(v uint32) Value           { return Value{kind: KindUInt32, num: uint64(v)} }
func Int64Value(v int64) Value             { return Value{kind: KindInt64, num: uint64(v)} }
func UInt64Value(v uint64) Value           { return Value{kind: KindUInt64, num: v} }
func SingleValue(v float32) Value          { return Value{kind: KindSingle, num: math.Float64bits(float64(v))} }
func DoubleValue(v float64) Value          { return Value{kind: KindDouble, num: math.Float64bits(v)} }
func DateTimeValue(v codec.DateTime) Value { return Value{kind: KindDateTime, num: uint64(v)} }
func TimeValue(t time.Time) Value          { return DateTimeValue(codec.NewDateTime(t)) }
func TimeSpanValue(v time.Duration) Value  { return Value{kind: KindTimeSpan, num: uint64(v)} }
func GuidValue(v uuid.UUID) Value          { return Value{kind: KindGuid, any: v} }
func StringValue(v string) Value           { return Value{kind: KindString, any: v} }
func CurrencyValue(v codec.Currency) Value { return Value{kind: KindCurrency, num: uint64(v)} }

// NullValue is an absent scalar of kind k. Null carries no kind on the wire,
// so a decoded Null reports KindInvalid.
func NullValue(k Kind) Value { return Value{kind: k, null: true} }

// NullArray is an absent array of kind k.
func NullArray(k Kind) Value { return Value{kind: k, array: true, null: true} }

// ArrayOf wraps vs as an array Value. A nil slice is an absent array.
func ArrayOf[T Element](vs []T) Value {
	k := kindFor[T]()
	if vs == nil {
		return NullArray(k)
	}
	canon := sliceTypes[k]
	if canon == nil {
		return Value{}
	}
	rv := reflect.ValueOf(vs)
	if rv.Type() == canon {
		return Value{kind: k, array: true, any: vs}
	}
	out := reflect.MakeSlice(canon, len(vs), len(vs))
	elem := canon.Elem()
	for i := range vs {
		out.Index(i).Set(rv.Index(i).Convert(elem))
	}
	return Value{kind: k, array: true, any: out.Interface()}
}

// ByteArrayListValue wraps a list of byte arrays. Nil elements are absent arrays.
func ByteArrayListValue(vs [][]byte) Value {
	if vs == nil {
		return NullArray(KindBytes)
	}
	return Value{kind: KindBytes, array: true, any: vs}
}

var sliceTypes = [kindCount]reflect.Type{
	KindBool:     reflect.TypeFor[[]bool](),
	KindChar:     reflect.TypeFor[[]codec.Char](),
	KindByte:     reflect.TypeFor[[]uint8](),
	KindSByte:    reflect.TypeFor[[]int8](),
	KindInt16:    reflect.TypeFor[[]int16](),
	KindUInt16:   reflect.TypeFor[[]uint16](),
	KindInt32:    reflect.TypeFor[[]int32](),
	KindUInt32:   reflect.TypeFor[[]uint32](),
	KindInt64:    reflect.TypeFor[[]int64](),
	KindUInt64:   reflect.TypeFor[[]uint64](),
	KindSingle:   reflect.TypeFor[[]float32](),
	KindDouble:   reflect.TypeFor[[]float64](),
	KindDateTime: reflect.TypeFor[[]codec.DateTime](),
	KindTimeSpan: reflect.TypeFor[[]time.Duration](),
	KindGuid:     reflect.TypeFor[[]uuid.UUID](),
	KindString:   reflect.TypeFor[[]string](),
	KindCurrency: reflect.TypeFor[[]codec.Currency](),
	KindBytes:    reflect.TypeFor[[][]byte](),
}

var typeTime = reflect.TypeFor[time.Time]()

// ValueOf converts a Go value to a Value. It accepts Values, nil, pointers
// (nil is Null), time.Time, every Element type, slices of them and [][]byte.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Value{null: true}, nil
	case Value:
		return v, nil
	case time.Time:
		return TimeValue(v), nil
	case [][]byte:
		return ByteArrayListValue(v), nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return NullValue(KindOf(rv.Type().Elem())), nil
		}
		return ValueOf(rv.Elem().Interface())
	}
	if rv.Kind() == reflect.Slice {
		elem := rv.Type().Elem()
		k := KindOf(elem)
		if elem == typeTime {
			k = KindDateTime
		}
		canon := sliceTypes[k]
		if canon == nil || k == KindBytes {
			return Value{}, fmt.Errorf("%w: cannot encode %s", codec.ErrArgument, rv.Type())
		}
		if rv.IsNil() {
			return NullArray(k), nil
		}
		out := reflect.MakeSlice(canon, rv.Len(), rv.Len())
		for i := range rv.Len() {
			e := rv.Index(i)
			if elem == typeTime {
				e = reflect.ValueOf(codec.NewDateTime(e.Interface().(time.Time)))
			}
			out.Index(i).Set(e.Convert(canon.Elem()))
		}
		return Value{kind: k, array: true, any: out.Interface()}, nil
	}
	k := KindOf(rv.Type())
	if k == KindInvalid || k == KindBytes {
		return Value{}, fmt.Errorf("%w: cannot encode %s", codec.ErrArgument, rv.Type())
	}
	return scalarOf(k, rv), nil
}

// scalarOf reads a scalar of family k out of rv.
func scalarOf(k Kind, rv reflect.Value) Value {
	switch {
	case k == KindBool:
		return BoolValue(rv.Bool())
	case k == KindString:
		return StringValue(rv.String())
	case k == KindGuid:
		return GuidValue(rv.Convert(typeGuid).Interface().(uuid.UUID))
	case k.isFloat():
		return Value{kind: k, num: math.Float64bits(rv.Float())}
	case k.isSigned():
		return Value{kind: k, num: uint64(rv.Int())}
	}
	return Value{kind: k, num: rv.Uint()}
}

// assign stores the scalar v into the settable rv, whose type resolves to v's kind.
func (v Value) assign(rv reflect.Value) {
	switch {
	case v.kind == KindBool:
		rv.SetBool(v.num != 0)
	case v.kind == KindString:
		rv.SetString(v.any.(string))
	case v.kind == KindGuid:
		rv.Set(reflect.ValueOf(v.any).Convert(rv.Type()))
	case v.kind.isFloat():
		rv.SetFloat(math.Float64frombits(v.num))
	case v.kind.isSigned():
		rv.SetInt(int64(v.num))
	default:
		rv.SetUint(v.num)
	}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsArray() bool  { return v.array }
func (v Value) IsNull() bool   { return v.null || v.kind == KindInvalid }
func (v Value) Bool() bool     { return v.num != 0 }
func (v Value) Int64() int64   { return int64(v.num) }
func (v Value) Uint64() uint64 { return v.num }

func (v Value) Float64() float64         { return math.Float64frombits(v.num) }
func (v Value) Char() codec.Char         { return codec.Char(v.num) }
func (v Value) Currency() codec.Currency { return codec.Currency(v.num) }
func (v Value) DateTime() codec.DateTime { return codec.DateTime(v.num) }
func (v Value) Duration() time.Duration  { return time.Duration(v.num) }
func (v Value) Size() int                { return v.EncodedSize(codec.DefaultConfig) }

func (v Value) Guid() uuid.UUID {
	g, _ := v.any.(uuid.UUID)
	return g
}

// Str returns the payload of a string Value.
func (v Value) Str() string {
	s, _ := v.any.(string)
	return s
}

// ByteArrays returns the payload of a byte-array list.
func (v Value) ByteArrays() [][]byte {
	b, _ := v.any.([][]byte)
	return b
}

// Len returns the element count of an array, or 0.
func (v Value) Len() int {
	if !v.array || v.null {
		return 0
	}
	return reflect.ValueOf(v.any).Len()
}

// Any returns the Go form of v: nil for Null, the canonical Go type of the
// kind for scalars (bool, codec.Char, uint8, int8, int16, uint16, int32, uint32,
// int64, uint64, float32, float64, codec.DateTime, time.Duration, uuid.UUID,
// string, codec.Currency) and a slice of it for arrays.
func (v Value) Any() any {
	if v.IsNull() {
		return nil
	}
	if v.array || v.kind == KindString || v.kind == KindGuid {
		return v.any
	}
	if v.kind == KindBool {
		return v.Bool()
	}
	rv := reflect.New(sliceTypes[v.kind].Elem()).Elem()
	v.assign(rv)
	return rv.Interface()
}

// Equal reports whether v and w hold the same kind and value. Floats compare
// by value with NaN equal to NaN; array elements compare bitwise.
func (v Value) Equal(w Value) bool {
	if v.IsNull() || w.IsNull() {
		return v.IsNull() && w.IsNull()
	}
	if v.kind != w.kind || v.array != w.array {
		return false
	}
	if !v.array {
		switch {
		case v.kind == KindString, v.kind == KindGuid:
			return v.any == w.any
		case v.kind.isFloat():
			x, y := v.Float64(), w.Float64()
			return x == y || math.IsNaN(x) && math.IsNaN(y)
		}
		return v.num == w.num
	}
	switch a := v.any.(type) {
	case []float32:
		b := w.any.([]float32)
		return slices.EqualFunc(a, b, func(x, y float32) bool { return math.Float32bits(x) == math.Float32bits(y) })
	case []float64:
		b := w.any.([]float64)
		return slices.EqualFunc(a, b, func(x, y float64) bool { return math.Float64bits(x) == math.Float64bits(y) })
	}
	return reflect.DeepEqual(v.any, w.any)
}

// String formats v for display. Strings are returned unquoted.
func (v Value) String() string {
	if v.IsNull() {
		return "null"
	}
	if v.array {
		return fmt.Sprint(v.any)
	}
	switch v.kind {
	case KindString:
		return v.Str()
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindChar:
		return strconv.QuoteRune(rune(v.num))
	case KindSingle:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	}
	return fmt.Sprint(v.Any())
}

// Tag returns the discriminator v encodes with.
func (v Value) Tag() Tag {
	f := FamilyOf(v.kind)
	switch {
	case v.IsNull() || f == nil:
		return TagNull
	case v.array:
		return tierTag(f.Array, v.Len())
	}
	if t, ok := f.sentinelTag(v); ok {
		return t
	}
	return f.Generic
}

// EncodedSize returns the number of bytes v occupies under cfg.
func (v Value) EncodedSize(cfg codec.Config) int {
	f := FamilyOf(v.kind)
	if v.IsNull() || f == nil {
		return 1
	}
	if !v.array {
		if _, ok := f.sentinelTag(v); ok {
			return 1
		}
		if v.kind == KindString {
			return 1 + sizeFieldLen(cfg, len(v.Str())) + len(v.Str())
		}
		return 1 + f.Width
	}
	n := v.Len()
	size := 1 + countLen(n)
	switch list := v.any.(type) {
	case []string:
		for _, s := range list {
			size += sizeFieldLen(cfg, len(s)) + len(s)
		}
	case [][]byte:
		for _, b := range list {
			size += byteArraySize(b)
		}
	default:
		size += n * f.Width
	}
	return size
}

func sizeFieldLen(cfg codec.Config, n int) int {
	if cfg.Size == codec.VarIntSize {
		return codec.UvarintSize(uint64(n))
	}
	return 4
}

func byteArraySize(b []byte) int {
	if b == nil {
		return 1
	}
	return 1 + countLen(len(b)) + len(b)
}

// --- codec.Codec, under codec.DefaultConfig ---

func (v *Value) WriteTo(w io.Writer) (int64, error) {
	dw, err := NewDataWriter(w, codec.DefaultConfig)
	if err != nil {
		return 0, err
	}
	dw.WriteValue(*v)
	return dw.Result()
}

func (v *Value) ReadFrom(r io.Reader) (int64, error) {
	dr, err := NewDataReader(r, codec.DefaultConfig)
	if err != nil {
		return 0, err
	}
	val, err := dr.ReadValue()
	if err != nil {
		return dr.Count(), err
	}
	*v = val
	return dr.Count(), nil
}

func (v *Value) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(v, buf)
}

func (v *Value) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(v)
}

func (v *Value) UnmarshalBinary(data []byte) error {
	return codec.UnmarshalBinaryGeneric(v, data)
}
