package tagged

import (
	"math"

	"github.com/google/uuid"

	"github.com/oy3o/tagcodec"
)

// Sentinel is a constant value that encodes as its tag alone.
type Sentinel struct {
	Tag  Tag
	Name string
	// Bits holds the constant in the Value payload form: sign-extended for
	// signed families, float64 bits for both float families.
	Bits uint64
}

// ArrayTags are the four tags introducing an array of a family.
type ArrayTags struct {
	Small  Tag // 1-byte count
	Medium Tag // 2-byte count
	Large  Tag // 4-byte count
	Empty  Tag // no count
}

// Family describes how one kind of value is tagged on the wire.
type Family struct {
	Name      string
	Kind      Kind
	Width     int // payload bytes after the generic tag; 0 for sized payloads
	Generic   Tag // TagUnknown when every value has a sentinel
	Sentinels []Sentinel
	Array     ArrayTags
}

func i64(v int64) uint64   { return uint64(v) }
func f64(v float64) uint64 { return math.Float64bits(v) }
func f32(v float32) uint64 { return math.Float64bits(float64(v)) }
func cur(v float64) uint64 { return uint64(codec.CurrencyFromFloat(v)) }
func arrays(first Tag) ArrayTags {
	return ArrayTags{Small: first, Medium: first + 1, Large: first + 2, Empty: first + 3}
}

var families = [kindCount]Family{
	KindBool: {
		Name: "Boolean", Kind: KindBool, Width: 1,
		Sentinels: []Sentinel{
			{TagTrue, "BooleanTrue", 1},
			{TagFalse, "BooleanFalse", 0},
		},
		Array: arrays(TagSmallBooleanArray),
	},
	KindChar: {
		Name: "Char", Kind: KindChar, Width: 2, Generic: TagChar,
		Sentinels: []Sentinel{
			{TagZeroChar, "ZeroChar", 0},
			{TagOneChar, "OneChar", 1},
			{TagMaxChar, "MaxChar", math.MaxUint16},
		},
		Array: arrays(TagSmallCharArray),
	},
	KindByte: {
		Name: "Byte", Kind: KindByte, Width: 1, Generic: TagByte,
		Sentinels: []Sentinel{
			{TagZeroByte, "ZeroByte", 0},
			{TagOneByte, "OneByte", 1},
			{TagMaxByte, "MaxByte", math.MaxUint8},
		},
		Array: arrays(TagSmallByteArray),
	},
	KindSByte: {
		Name: "SByte", Kind: KindSByte, Width: 1, Generic: TagSByte,
		Sentinels: []Sentinel{
			{TagMinSByte, "MinSByte", i64(math.MinInt8)},
			{TagMinusOneSByte, "MinusOneSByte", i64(-1)},
			{TagZeroSByte, "ZeroSByte", 0},
			{TagOneSByte, "OneSByte", 1},
			{TagMaxSByte, "MaxSByte", math.MaxInt8},
		},
		Array: arrays(TagSmallSByteArray),
	},
	KindInt16: {
		Name: "Int16", Kind: KindInt16, Width: 2, Generic: TagInt16,
		Sentinels: []Sentinel{
			{TagMinInt16, "MinInt16", i64(math.MinInt16)},
			{TagMinusOneInt16, "MinusOneInt16", i64(-1)},
			{TagZeroInt16, "ZeroInt16", 0},
			{TagOneInt16, "OneInt16", 1},
			{TagMaxInt16, "MaxInt16", math.MaxInt16},
		},
		Array: arrays(TagSmallInt16Array),
	},
	KindUInt16: {
		Name: "UInt16", Kind: KindUInt16, Width: 2, Generic: TagUInt16,
		Sentinels: []Sentinel{
			{TagZeroUInt16, "ZeroUInt16", 0},
			{TagOneUInt16, "OneUInt16", 1},
			{TagMaxUInt16, "MaxUInt16", math.MaxUint16},
		},
		Array: arrays(TagSmallUInt16Array),
	},
	KindInt32: {
		Name: "Int32", Kind: KindInt32, Width: 4, Generic: TagInt32,
		Sentinels: []Sentinel{
			{TagMinInt32, "MinInt32", i64(math.MinInt32)},
			{TagMinusOneInt32, "MinusOneInt32", i64(-1)},
			{TagZeroInt32, "ZeroInt32", 0},
			{TagOneInt32, "OneInt32", 1},
			{TagMaxInt32, "MaxInt32", math.MaxInt32},
		},
		Array: arrays(TagSmallInt32Array),
	},
	KindUInt32: {
		Name: "UInt32", Kind: KindUInt32, Width: 4, Generic: TagUInt32,
		Sentinels: []Sentinel{
			{TagZeroUInt32, "ZeroUInt32", 0},
			{TagOneUInt32, "OneUInt32", 1},
			{TagMaxUInt32, "MaxUInt32", math.MaxUint32},
		},
		Array: arrays(TagSmallUInt32Array),
	},
	KindInt64: {
		Name: "Int64", Kind: KindInt64, Width: 8, Generic: TagInt64,
		Sentinels: []Sentinel{
			{TagMinInt64, "MinInt64", i64(math.MinInt64)},
			{TagMinusOneInt64, "MinusOneInt64", i64(-1)},
			{TagZeroInt64, "ZeroInt64", 0},
			{TagOneInt64, "OneInt64", 1},
			{TagMaxInt64, "MaxInt64", math.MaxInt64},
		},
		Array: arrays(TagSmallInt64Array),
	},
	KindUInt64: {
		Name: "UInt64", Kind: KindUInt64, Width: 8, Generic: TagUInt64,
		Sentinels: []Sentinel{
			{TagZeroUInt64, "ZeroUInt64", 0},
			{TagOneUInt64, "OneUInt64", 1},
			{TagMaxUInt64, "MaxUInt64", math.MaxUint64},
		},
		Array: arrays(TagSmallUInt64Array),
	},
	KindSingle: {
		Name: "Single", Kind: KindSingle, Width: 4, Generic: TagSingle,
		Sentinels: []Sentinel{
			{TagSingleNegativeInfinity, "SingleNegativeInfinity", f64(math.Inf(-1))},
			{TagMinSingle, "MinSingle", f32(-math.MaxFloat32)},
			{TagMinusOneSingle, "MinusOneSingle", f32(-1)},
			{TagZeroSingle, "ZeroSingle", f32(0)},
			{TagOneSingle, "OneSingle", f32(1)},
			{TagMaxSingle, "MaxSingle", f32(math.MaxFloat32)},
			{TagSinglePositiveInfinity, "SinglePositiveInfinity", f64(math.Inf(1))},
			{TagSingleNaN, "SingleNaN", f64(math.NaN())},
		},
		Array: arrays(TagSmallSingleArray),
	},
	KindDouble: {
		Name: "Double", Kind: KindDouble, Width: 8, Generic: TagDouble,
		Sentinels: []Sentinel{
			{TagDoubleNegativeInfinity, "DoubleNegativeInfinity", f64(math.Inf(-1))},
			{TagMinDouble, "MinDouble", f64(-math.MaxFloat64)},
			{TagMinusOneDouble, "MinusOneDouble", f64(-1)},
			{TagZeroDouble, "ZeroDouble", f64(0)},
			{TagOneDouble, "OneDouble", f64(1)},
			{TagMaxDouble, "MaxDouble", f64(math.MaxFloat64)},
			{TagDoublePositiveInfinity, "DoublePositiveInfinity", f64(math.Inf(1))},
			{TagDoubleNaN, "DoubleNaN", f64(math.NaN())},
		},
		Array: arrays(TagSmallDoubleArray),
	},
	KindDateTime: {
		Name: "DateTime", Kind: KindDateTime, Width: 8, Generic: TagDateTime,
		Sentinels: []Sentinel{{TagZeroDateTime, "ZeroDateTime", 0}},
		Array:     arrays(TagSmallDateTimeArray),
	},
	KindTimeSpan: {
		Name: "TimeSpan", Kind: KindTimeSpan, Width: 8, Generic: TagTimeSpan,
		Sentinels: []Sentinel{{TagZeroTimeSpan, "ZeroTimeSpan", 0}},
		Array:     arrays(TagSmallTimeSpanArray),
	},
	KindGuid: {
		Name: "Guid", Kind: KindGuid, Width: 16, Generic: TagGuid,
		Sentinels: []Sentinel{{TagEmptyGuid, "EmptyGuid", 0}},
		Array:     arrays(TagSmallGuidArray),
	},
	KindString: {
		Name: "String", Kind: KindString, Generic: TagString,
		Sentinels: []Sentinel{{TagEmptyString, "EmptyString", 0}},
		Array:     arrays(TagSmallStringArray),
	},
	KindCurrency: {
		Name: "Currency", Kind: KindCurrency, Width: 8, Generic: TagCurrency,
		Sentinels: []Sentinel{
			{TagMinCurrency, "MinCurrency", i64(math.MinInt64)},
			{TagMinusOneCurrency, "MinusOneCurrency", cur(-1)},
			{TagZeroCurrency, "ZeroCurrency", 0},
			{TagOneCurrency, "OneCurrency", cur(1)},
			{TagMaxCurrency, "MaxCurrency", math.MaxInt64},
		},
		Array: arrays(TagSmallCurrencyArray),
	},
	KindBytes: {
		Name: "ByteArrayList", Kind: KindBytes,
		Array: arrays(TagSmallByteArrayList),
	},
}

// FamilyOf returns the descriptor of k, or nil if k has no wire encoding.
func FamilyOf(k Kind) *Family {
	if k == KindInvalid || k >= kindCount {
		return nil
	}
	return &families[k]
}

// sentinelTag returns the tag for v when v equals one of the family's constants.
// Floats compare by value, so -0 matches Zero and any NaN matches NaN.
func (f *Family) sentinelTag(v Value) (Tag, bool) {
	switch f.Kind {
	case KindString:
		if v.any.(string) == "" {
			return f.Sentinels[0].Tag, true
		}
		return 0, false
	case KindGuid:
		if v.any.(uuid.UUID) == uuid.Nil {
			return f.Sentinels[0].Tag, true
		}
		return 0, false
	case KindSingle, KindDouble:
		x := math.Float64frombits(v.num)
		for _, s := range f.Sentinels {
			c := math.Float64frombits(s.Bits)
			if x == c || (math.IsNaN(x) && math.IsNaN(c)) {
				return s.Tag, true
			}
		}
		return 0, false
	}
	for _, s := range f.Sentinels {
		if v.num == s.Bits {
			return s.Tag, true
		}
	}
	return 0, false
}

// sentinelValue is the constant a sentinel tag stands for.
func (f *Family) sentinelValue(i int) Value {
	switch f.Kind {
	case KindString:
		return StringValue("")
	case KindGuid:
		return GuidValue(uuid.Nil)
	}
	return Value{kind: f.Kind, num: f.Sentinels[i].Bits}
}

func (f *Family) arrayName() string {
	if f.Kind == KindBytes {
		return f.Name
	}
	return f.Name + " array"
}
