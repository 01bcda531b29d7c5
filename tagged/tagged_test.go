package tagged

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/tagcodec"
)

// --- Helpers ---

var configs = []codec.Config{
	{ByteOrder: codec.HostOrder, Size: codec.FixedSize32},
	{ByteOrder: codec.NetworkOrder, Size: codec.FixedSize32},
	{ByteOrder: codec.HostOrder, Size: codec.VarIntSize},
	{ByteOrder: codec.NetworkOrder, Size: codec.VarIntSize},
}

// color is a named enumeration; it encodes as its underlying Int16 family.
type color int16

const (
	red color = iota
	green
	blue = 900
)

func encode(t *testing.T, cfg codec.Config, fn func(dw *DataWriter)) []byte {
	t.Helper()
	var buf bytes.Buffer
	dw, err := NewDataWriter(&buf, cfg)
	require.NoError(t, err)
	fn(dw)
	_, err = dw.Result()
	require.NoError(t, err)
	return buf.Bytes()
}

func decoder(t *testing.T, cfg codec.Config, data []byte) *DataReader {
	t.Helper()
	dr, err := NewDataReader(bytes.NewReader(data), cfg)
	require.NoError(t, err)
	return dr
}

func tagBytes(ts ...Tag) []byte {
	out := make([]byte, len(ts))
	for i, t := range ts {
		out[i] = byte(t)
	}
	return out
}

// --- Wire scenarios ---

func TestScenarioInt32Sentinels(t *testing.T) {
	in := []int32{math.MinInt32, -1, 0, 1, math.MaxInt32, 42}
	data := encode(t, codec.DefaultConfig, func(dw *DataWriter) {
		for _, v := range in {
			require.NoError(t, Write(dw, v))
		}
	})

	expected := append(
		tagBytes(TagMinInt32, TagMinusOneInt32, TagZeroInt32, TagOneInt32, TagMaxInt32, TagInt32),
		0x2A, 0x00, 0x00, 0x00,
	)
	assert.Equal(t, expected, data)

	dr := decoder(t, codec.DefaultConfig, data)
	for _, want := range in {
		got, err := Read[int32](dr)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := dr.ReadValue()
	assert.True(t, dr.IsEOF(), "stream ends cleanly after the last unit: %v", err)
}

func TestScenarioDoubleArrays(t *testing.T) {
	data := encode(t, codec.DefaultConfig, func(dw *DataWriter) {
		require.NoError(t, WriteArray(dw, []float64{}))
		require.NoError(t, WriteArray(dw, []float64{1.0, 3.5}))
	})

	require.Len(t, data, 1+1+1+16)
	assert.Equal(t, byte(TagEmptyDoubleArray), data[0])
	assert.Equal(t, byte(TagSmallDoubleArray), data[1])
	assert.Equal(t, byte(2), data[2])
	assert.Equal(t, math.Float64bits(1.0), binary.LittleEndian.Uint64(data[3:11]))
	assert.Equal(t, math.Float64bits(3.5), binary.LittleEndian.Uint64(data[11:19]))

	dr := decoder(t, codec.DefaultConfig, data)
	first, err := ReadArray[float64](dr)
	require.NoError(t, err)
	assert.NotNil(t, first)
	assert.Empty(t, first)

	second, err := ReadArray[float64](dr)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 3.5}, second)
}

// --- Tag table ---

func TestTagTable(t *testing.T) {
	assert.EqualValues(t, 34, TagInt32)
	assert.EqualValues(t, 74, TagString)
	assert.EqualValues(t, 83, TagCurrency)
	assert.EqualValues(t, 0x80, TagSmallBooleanArray)
	assert.EqualValues(t, 0xAC, TagSmallDoubleArray)
	assert.EqualValues(t, 0xC3, TagEmptyByteArrayList)
	assert.EqualValues(t, 0xC4, TagSmallCurrencyArray)

	assert.Equal(t, "ZeroInt32", TagZeroInt32.String())
	assert.Equal(t, "DoubleArray", TagDoubleArray.String())
	assert.Equal(t, "SmallByteArrayList", TagSmallByteArrayList.String())
	assert.Equal(t, "StringUTF16LE", TagStringUTF16LE.String())
	assert.Equal(t, "Tag(0xFE)", Tag(0xFE).String())

	for k := KindBool; k < kindCount; k++ {
		f := FamilyOf(k)
		require.NotNil(t, f, k.String())
		for _, s := range f.Sentinels {
			assert.Same(t, f, s.Tag.Family(), s.Name)
			assert.False(t, s.Tag.IsArray())
		}
		if f.Generic != TagUnknown {
			assert.Same(t, f, f.Generic.Family(), f.Name)
		}
		for _, a := range []Tag{f.Array.Small, f.Array.Medium, f.Array.Large, f.Array.Empty} {
			assert.Same(t, f, a.Family(), a.String())
			assert.True(t, a.IsArray())
		}
	}
	assert.Nil(t, TagNull.Family())
	assert.Nil(t, TagStringInCodePage.Family())
}

// --- Value codec suite ---

type ValueTestSuite struct {
	suite.Suite
	id     uuid.UUID
	values []Value
}

func (s *ValueTestSuite) SetupSuite() {
	s.id = uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	at := time.Date(2024, 2, 29, 12, 30, 45, 123456700, time.UTC)
	nan32 := math.Float32frombits(0x7FC00001)

	s.values = []Value{
		BoolValue(true), BoolValue(false),
		CharValue(0), CharValue(1), CharValue(math.MaxUint16), CharValue('A'),
		ByteValue(0), ByteValue(1), ByteValue(math.MaxUint8), ByteValue(7),
		SByteValue(math.MinInt8), SByteValue(-1), SByteValue(0), SByteValue(1), SByteValue(math.MaxInt8), SByteValue(-5),
		Int16Value(math.MinInt16), Int16Value(-1), Int16Value(0), Int16Value(1), Int16Value(math.MaxInt16), Int16Value(-1234),
		UInt16Value(0), UInt16Value(1), UInt16Value(math.MaxUint16), UInt16Value(500),
		Int32Value(math.MinInt32), Int32Value(-1), Int32Value(0), Int32Value(1), Int32Value(math.MaxInt32), Int32Value(-70000),
		UInt32Value(0), UInt32Value(1), UInt32Value(math.MaxUint32), UInt32Value(70000),
		Int64Value(math.MinInt64), Int64Value(-1), Int64Value(0), Int64Value(1), Int64Value(math.MaxInt64), Int64Value(-1 << 40),
		UInt64Value(0), UInt64Value(1), UInt64Value(math.MaxUint64), UInt64Value(1 << 40),
		SingleValue(float32(math.Inf(-1))), SingleValue(-math.MaxFloat32), SingleValue(-1), SingleValue(0),
		SingleValue(1), SingleValue(math.MaxFloat32), SingleValue(float32(math.Inf(1))), SingleValue(nan32), SingleValue(3.25),
		DoubleValue(math.Inf(-1)), DoubleValue(-math.MaxFloat64), DoubleValue(-1), DoubleValue(0),
		DoubleValue(1), DoubleValue(math.MaxFloat64), DoubleValue(math.Inf(1)), DoubleValue(math.NaN()), DoubleValue(2.5),
		DateTimeValue(0), TimeValue(at),
		TimeSpanValue(0), TimeSpanValue(90 * time.Second), TimeSpanValue(-time.Millisecond),
		GuidValue(uuid.Nil), GuidValue(s.id),
		StringValue(""), StringValue("héllo"),
		CurrencyValue(math.MinInt64), CurrencyValue(-codec.CurrencyScale), CurrencyValue(0),
		CurrencyValue(codec.CurrencyScale), CurrencyValue(math.MaxInt64), CurrencyValue(12345),
		NullValue(KindInt32),
		ArrayOf([]bool{true, false, true}),
		ArrayOf([]codec.Char{'a', 0x4E2D}),
		ArrayOf([]byte{}),
		ArrayOf([]byte{1, 2, 3}),
		ArrayOf([]int8{-1, 0, 1}),
		ArrayOf([]int16{math.MinInt16, 7}),
		ArrayOf([]uint16{math.MaxUint16}),
		ArrayOf([]int32(nil)),
		ArrayOf([]int32{1, -2, 3}),
		ArrayOf([]uint32{math.MaxUint32, 0}),
		ArrayOf([]int64{math.MinInt64}),
		ArrayOf([]uint64{math.MaxUint64, 5}),
		ArrayOf([]float32{nan32, 1, float32(math.Copysign(0, -1))}),
		ArrayOf([]float64{math.Inf(1), 0.1}),
		ArrayOf([]codec.DateTime{0, codec.NewDateTime(at)}),
		ArrayOf([]time.Duration{time.Hour, -time.Nanosecond}),
		ArrayOf([]uuid.UUID{s.id, uuid.Nil}),
		ArrayOf([]string{"a", "", "ünï"}),
		ArrayOf([]codec.Currency{codec.CurrencyFromFloat(9.99)}),
		ByteArrayListValue([][]byte{{1}, nil, {}}),
		ByteArrayListValue([][]byte{}),
		NullArray(KindBytes),
	}
}

func (s *ValueTestSuite) TestRoundTripEveryFamily() {
	for _, cfg := range configs {
		s.Run(cfg.String(), func() {
			var expectedSize int
			data := encode(s.T(), cfg, func(dw *DataWriter) {
				for _, v := range s.values {
					s.Require().NoError(dw.WriteValue(v), v.Kind().String())
					expectedSize += v.EncodedSize(cfg)
				}
			})
			s.Assert().Len(data, expectedSize)

			dr := decoder(s.T(), cfg, data)
			for _, want := range s.values {
				got, err := dr.ReadValue()
				s.Require().NoError(err)
				s.Assert().True(want.Equal(got), "want %v (%s), got %v (%s)", want, want.Kind(), got, got.Kind())
			}
			_, err := dr.ReadValue()
			s.Assert().ErrorIs(err, codec.ErrEndOfStream)
			s.Assert().True(dr.IsEOF())
		})
	}
}

func (s *ValueTestSuite) TestMinimality() {
	for _, v := range s.values {
		tag := v.Tag()
		info := tags[tag]
		switch {
		case v.IsNull():
			s.Assert().Equal(TagNull, tag)
			s.Assert().Equal(1, v.Size())
		case info.role == roleSentinel:
			s.Assert().Equal(1, v.Size(), tag.String())
		case info.role == roleGeneric && v.Kind() != KindString:
			s.Assert().Equal(1+FamilyOf(v.Kind()).Width, v.Size(), tag.String())
		}
	}

	s.Assert().Equal(TagZeroDouble, DoubleValue(math.Copysign(0, -1)).Tag(), "negative zero is Zero")
	s.Assert().Equal(TagDoubleNaN, DoubleValue(math.NaN()).Tag())
	s.Assert().Equal(TagMinSingle, SingleValue(-math.MaxFloat32).Tag())
	s.Assert().Equal(TagSingle, SingleValue(math.SmallestNonzeroFloat32).Tag())
	s.Assert().Equal(TagOneCurrency, CurrencyValue(codec.CurrencyFromFloat(1)).Tag())
	s.Assert().Equal(TagCurrency, CurrencyValue(1).Tag(), "raw 1 is 0.0001, not a sentinel")
	s.Assert().Equal(TagEmptyGuid, GuidValue(uuid.Nil).Tag())
	s.Assert().Equal(TagString, StringValue("x").Tag())
	s.Assert().Equal(TagTrue, BoolValue(true).Tag())
	s.Assert().Equal(TagFalse, BoolValue(false).Tag())
}

func (s *ValueTestSuite) TestCodecInterface() {
	for _, v := range s.values {
		data, err := v.MarshalBinary()
		s.Require().NoError(err)
		s.Assert().Len(data, v.Size())

		var back Value
		s.Require().NoError(back.UnmarshalBinary(data))
		s.Assert().True(v.Equal(back), "%v", v)

		buf := make([]byte, v.Size())
		n, err := v.MarshalTo(buf)
		s.Require().NoError(err)
		s.Assert().Equal(data, buf[:n])
	}

	v := Int32Value(42)
	data, _ := v.MarshalBinary()
	var back Value
	s.Assert().ErrorIs(back.UnmarshalBinary(append(data, 0)), codec.ErrTrailingData)
	s.Assert().ErrorIs(back.UnmarshalBinary(data[:2]), codec.ErrEndOfStream)
}

// TestValue runs the ValueTestSuite.
func TestValue(t *testing.T) {
	suite.Run(t, new(ValueTestSuite))
}

// --- Typed API ---

func TestTypedScalars(t *testing.T) {
	id := uuid.New()
	data := encode(t, codec.DefaultConfig, func(dw *DataWriter) {
		require.NoError(t, Write(dw, color(blue)))
		require.NoError(t, Write(dw, red))
		require.NoError(t, Write(dw, codec.Char('Z')))
		require.NoError(t, Write(dw, 90*time.Minute))
		require.NoError(t, Write(dw, id))
		require.NoError(t, Write(dw, "text"))
		require.NoError(t, Write(dw, true))
		require.NoError(t, WriteOptional[int64](dw, nil))
		require.NoError(t, WriteOptional(dw, codec.Ptr(int64(0))))
		require.NoError(t, WriteOptional(dw, codec.Ptr(float32(2.5))))
	})

	assert.Equal(t, byte(TagInt16), data[0], "named types use their underlying family")
	assert.Equal(t, byte(TagZeroInt16), data[3])

	dr := decoder(t, codec.DefaultConfig, data)
	c1, err := Read[color](dr)
	require.NoError(t, err)
	assert.Equal(t, color(blue), c1)
	c2, _ := Read[color](dr)
	assert.Equal(t, red, c2)
	ch, _ := Read[codec.Char](dr)
	assert.Equal(t, codec.Char('Z'), ch)
	d, _ := Read[time.Duration](dr)
	assert.Equal(t, 90*time.Minute, d)
	g, _ := Read[uuid.UUID](dr)
	assert.Equal(t, id, g)
	str, _ := Read[string](dr)
	assert.Equal(t, "text", str)
	b, _ := Read[bool](dr)
	assert.True(t, b)

	absent, err := ReadOptional[int64](dr)
	require.NoError(t, err)
	assert.Nil(t, absent)
	zero, err := ReadOptional[int64](dr)
	require.NoError(t, err)
	require.NotNil(t, zero, "a sentinel value is present, not absent")
	assert.Equal(t, int64(0), *zero)
	f, err := ReadOptional[float32](dr)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), *f)
	require.NoError(t, dr.Err())
}

func TestFormatErrors(t *testing.T) {
	t.Run("CrossFamily", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagZeroByte))
		_, err := Read[int32](dr)

		var fe *codec.FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Int32", fe.Expected)
		assert.Equal(t, "ZeroByte", fe.Name)
		assert.Equal(t, byte(TagZeroByte), fe.Tag)
		assert.Contains(t, err.Error(), "invalid data type ZeroByte")
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("NullIntoRequired", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagNull))
		_, err := Read[string](dr)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("ArrayTagForScalar", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagEmptyInt32Array))
		_, err := Read[int32](dr)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("ScalarTagForArray", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagZeroInt32))
		_, err := ReadArray[int32](dr)
		var fe *codec.FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Int32 array", fe.Expected)
	})

	t.Run("ReservedStringTags", func(t *testing.T) {
		for _, tag := range []Tag{TagStringUTF8, TagStringUTF16LE, TagStringInCodePage, TagUnknown} {
			dr := decoder(t, codec.DefaultConfig, append(tagBytes(tag), 0, 0, 0, 0))
			_, err := dr.ReadValue()
			assert.ErrorIs(t, err, codec.ErrFormat, tag.String())

			dr = decoder(t, codec.DefaultConfig, tagBytes(tag))
			_, err = Read[string](dr)
			assert.ErrorIs(t, err, codec.ErrFormat, tag.String())
		}
	})

	t.Run("EosOutsideSequence", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagEos))
		_, err := dr.ReadValue()
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("ErrorIsLatched", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, tagBytes(TagZeroByte, TagZeroInt32))
		_, err := Read[int32](dr)
		require.Error(t, err)
		_, err2 := Read[int32](dr)
		assert.Equal(t, err, err2)
	})
}

func TestTruncation(t *testing.T) {
	dr := decoder(t, codec.DefaultConfig, []byte{byte(TagInt32), 1, 2})
	_, err := Read[int32](dr)
	assert.ErrorIs(t, err, codec.ErrEndOfStream)
	assert.False(t, dr.IsEOF(), "a unit cut short is not a clean end")

	dr = decoder(t, codec.DefaultConfig, []byte{byte(TagSmallByteArrayList), 2, byte(TagEmptyByteArray)})
	_, err = ReadByteArrayList(dr)
	assert.ErrorIs(t, err, codec.ErrEndOfStream)
	assert.False(t, dr.IsEOF(), "a missing list element is a truncation")
}

// plainReader hides the concrete reader type so codec.NewReaderSize buffers it.
type plainReader struct{ io.Reader }

func TestBufferedReaderStack(t *testing.T) {
	cfg := codec.Config{ByteOrder: codec.NetworkOrder, Size: codec.VarIntSize}
	data := encode(t, cfg, func(dw *DataWriter) {
		require.NoError(t, Write(dw, int32(42)))
		require.NoError(t, dw.WriteSequence([]Value{StringValue("a"), ArrayOf([]uint16{1, 0x0102})}))
		require.NoError(t, WriteByteArrayList(dw, [][]byte{{7}, nil}))
	})

	newReader := func(t *testing.T, data []byte) *DataReader {
		cr, err := codec.NewReaderSize(plainReader{bytes.NewReader(data)}, 64*1024)
		require.NoError(t, err)
		dr, err := NewDataReader(cr, cfg)
		require.NoError(t, err)
		return dr
	}

	t.Run("Complete", func(t *testing.T) {
		dr := newReader(t, data)
		assert.Equal(t, cfg, dr.Reader().Config())
		assert.Equal(t, 64*1024, dr.Reader().Size(), "the buffered stream is shared, not wrapped again")

		v, eos, err := dr.ReadItem()
		require.NoError(t, err)
		assert.False(t, eos)
		assert.True(t, Int32Value(42).Equal(v))
		assert.Equal(t, TagInt32, dr.LastTag())

		seq, err := dr.ReadSequence()
		require.NoError(t, err)
		require.Len(t, seq, 2)
		assert.True(t, StringValue("a").Equal(seq[0]))
		assert.True(t, ArrayOf([]uint16{1, 0x0102}).Equal(seq[1]))
		assert.Equal(t, TagEos, dr.LastTag())

		list, err := ReadByteArrayList(dr)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{7}, nil}, list)

		_, _, err = dr.ReadItem()
		assert.ErrorIs(t, err, io.EOF)
		assert.True(t, dr.IsEOF())
		assert.Equal(t, int64(len(data)), dr.Count())
	})

	t.Run("Truncated", func(t *testing.T) {
		dr := newReader(t, data[:len(data)-1])
		for {
			_, _, err := dr.ReadItem()
			if err != nil {
				break
			}
		}
		assert.ErrorIs(t, dr.Err(), io.ErrUnexpectedEOF)
		assert.False(t, dr.IsEOF())
	})

	t.Run("SequenceWithoutEos", func(t *testing.T) {
		seq := encode(t, cfg, func(dw *DataWriter) {
			require.NoError(t, dw.WriteSequence([]Value{StringValue("a"), Int64Value(9)}))
		})
		dr := newReader(t, seq[:len(seq)-1])
		_, err := dr.ReadSequence()
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.ErrorIs(t, err, codec.ErrEndOfStream)
	})
}

// --- Collections ---

func TestArrayTiers(t *testing.T) {
	cases := []struct {
		n      int
		tag    Tag
		header []byte
	}{
		{0, TagEmptyByteArray, []byte{}},
		{1, TagSmallByteArray, []byte{1}},
		{255, TagSmallByteArray, []byte{0xFF}},
		{256, TagByteArray, []byte{0x00, 0x01}},
		{65535, TagByteArray, []byte{0xFF, 0xFF}},
		{65536, TagLargeByteArray, []byte{0x00, 0x00, 0x01, 0x00}},
	}
	for _, tc := range cases {
		in := make([]byte, tc.n)
		for i := range in {
			in[i] = byte(i * 7)
		}
		for _, cfg := range configs {
			data := encode(t, cfg, func(dw *DataWriter) {
				require.NoError(t, WriteArray(dw, in))
			})
			require.Len(t, data, 1+len(tc.header)+tc.n)
			assert.Equal(t, byte(tc.tag), data[0], "n=%d", tc.n)
			assert.Equal(t, ArrayOf(in).EncodedSize(cfg), len(data))
			if cfg.ByteOrder == codec.HostOrder {
				assert.Equal(t, tc.header, data[1:1+len(tc.header)], "n=%d", tc.n)
			}

			out, err := ReadArray[byte](decoder(t, cfg, data))
			require.NoError(t, err)
			assert.Equal(t, in, out, "n=%d %s", tc.n, cfg)
		}
	}
}

func TestArrayNullAndInto(t *testing.T) {
	data := encode(t, codec.DefaultConfig, func(dw *DataWriter) {
		require.NoError(t, WriteArray[int32](dw, nil))
		require.NoError(t, WriteArray(dw, []int32{}))
		require.NoError(t, WriteArray(dw, []int32{4, 5}))
		require.NoError(t, WriteArray(dw, []int32{4, 5}))
		require.NoError(t, WriteArray[int32](dw, nil))
	})
	assert.Equal(t, byte(TagNull), data[0])
	assert.Equal(t, byte(TagEmptyInt32Array), data[1])

	dr := decoder(t, codec.DefaultConfig, data)
	null, err := ReadArray[int32](dr)
	require.NoError(t, err)
	assert.Nil(t, null)

	require.NoError(t, ReadArrayInto(dr, []int32{}))
	dest := make([]int32, 2)
	require.NoError(t, ReadArrayInto(dr, dest))
	assert.Equal(t, []int32{4, 5}, dest)

	t.Run("CountMismatch", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, data[2:])
		err := ReadArrayInto(dr, make([]int32, 3))
		var ae *codec.ArgumentError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 3, ae.Expected)
		assert.Equal(t, 2, ae.Actual)
	})

	t.Run("NullIntoFixed", func(t *testing.T) {
		dr := decoder(t, codec.DefaultConfig, data[:1])
		err := ReadArrayInto(dr, make([]int32, 2))
		var ae *codec.ArgumentError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 0, ae.Actual)
	})
}

func TestStringsAndByteArrayLists(t *testing.T) {
	type name string
	for _, cfg := range configs {
		data := encode(t, cfg, func(dw *DataWriter) {
			require.NoError(t, WriteStrings(dw, []name{"", "héllo", "z"}))
			require.NoError(t, WriteStrings[string](dw, nil))
			require.NoError(t, WriteByteArrayList(dw, [][]byte{nil, {}, {1, 2, 3}}))
		})

		dr := decoder(t, cfg, data)
		names, err := ReadStrings[name](dr)
		require.NoError(t, err)
		assert.Equal(t, []name{"", "héllo", "z"}, names)

		none, err := ReadStrings[string](dr)
		require.NoError(t, err)
		assert.Nil(t, none)

		list, err := ReadByteArrayList(dr)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{nil, {}, {1, 2, 3}}, list)
	}

	data := encode(t, codec.DefaultConfig, func(dw *DataWriter) {
		require.NoError(t, WriteByteArrayList(dw, [][]byte{{9}}))
	})
	assert.Equal(t, tagBytes(TagSmallByteArrayList, 1, TagSmallByteArray, 1, 9), data)
}

func TestGuidNetworkOrder(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	cfg := codec.Config{ByteOrder: codec.NetworkOrder}
	data := encode(t, cfg, func(dw *DataWriter) {
		require.NoError(t, Write(dw, id))
	})
	require.Len(t, data, 17)
	assert.Equal(t, byte(0xFF), data[1])
	assert.Equal(t, byte(0x00), data[16])

	got, err := Read[uuid.UUID](decoder(t, cfg, data))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

// --- Sequence ---

func TestSequence(t *testing.T) {
	seq := NewSequence(Int32Value(1), StringValue("two"), ArrayOf([]float64{3}), NullValue(KindGuid))
	data, err := seq.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, seq.Size())
	assert.Equal(t, byte(TagEos), data[len(data)-1])

	var back Sequence
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, seq.Len(), back.Len())
	for i := range seq.Items {
		assert.True(t, seq.Items[i].Equal(back.Items[i]), "item %d", i)
	}

	t.Run("MissingEos", func(t *testing.T) {
		var s Sequence
		err := s.UnmarshalBinary(data[:len(data)-1])
		assert.ErrorIs(t, err, codec.ErrEndOfStream)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Streamed", func(t *testing.T) {
		cfg := codec.Config{ByteOrder: codec.NetworkOrder, Size: codec.VarIntSize}
		var buf bytes.Buffer
		_, err := NewSequence(Int64Value(-7), StringValue("x")).WithConfig(cfg).WriteTo(&buf)
		require.NoError(t, err)
		buf.WriteByte(byte(TagOneByte)) // data after the sequence stays unread

		s := NewSequence().WithConfig(cfg)
		_, err = s.ReadFrom(&buf)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 1, buf.Len())
	})
}

// --- Kinds and conversions ---

func TestKinds(t *testing.T) {
	k, err := ParseKind("Double")
	require.NoError(t, err)
	assert.Equal(t, KindDouble, k)
	k, _ = ParseKind("uuid")
	assert.Equal(t, KindGuid, k)
	_, err = ParseKind("decimal")
	assert.ErrorIs(t, err, codec.ErrArgument)

	assert.Equal(t, KindInt16, kindFor[color]())
	assert.Equal(t, KindInt16, kindFor[color](), "cached")
	assert.Equal(t, KindChar, kindFor[codec.Char]())
	assert.Equal(t, KindUInt16, kindFor[uint16]())
	assert.Equal(t, KindTimeSpan, kindFor[time.Duration]())
	assert.Equal(t, KindGuid, kindFor[[16]byte]())
	assert.Equal(t, KindInvalid, kindFor[map[string]int]())
}

func TestValueOf(t *testing.T) {
	at := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want Value
	}{
		{42, Int64Value(42)},
		{uint(3), UInt64Value(3)},
		{int16(-3), Int16Value(-3)},
		{green, Int16Value(1)},
		{"s", StringValue("s")},
		{at, TimeValue(at)},
		{codec.Ptr(int32(9)), Int32Value(9)},
		{(*int32)(nil), NullValue(KindInt32)},
		{nil, Value{}},
		{[]int16{1, 2}, ArrayOf([]int16{1, 2})},
		{[]color{red, blue}, ArrayOf([]int16{0, 900})},
		{[]time.Time{at}, ArrayOf([]codec.DateTime{codec.NewDateTime(at)})},
		{[][]byte{{1}}, ByteArrayListValue([][]byte{{1}})},
		{Int32Value(5), Int32Value(5)},
	}
	for _, tc := range cases {
		got, err := ValueOf(tc.in)
		require.NoError(t, err, "%T", tc.in)
		assert.True(t, tc.want.Equal(got), "%T: want %v got %v", tc.in, tc.want, got)
	}

	_, err := ValueOf(map[string]int{})
	assert.ErrorIs(t, err, codec.ErrArgument)
	_, err = ValueOf([]map[string]int{})
	assert.ErrorIs(t, err, codec.ErrArgument)
}

func TestValueAccessors(t *testing.T) {
	assert.Equal(t, int32(5), Int32Value(5).Any())
	assert.Equal(t, codec.Char('A'), CharValue('A').Any())
	assert.Equal(t, "'A'", CharValue('A').String())
	assert.Equal(t, "héllo", StringValue("héllo").String())
	assert.Equal(t, "null", NullValue(KindBool).String())
	assert.Equal(t, "1.5", SingleValue(1.5).String())
	assert.Equal(t, 3, ArrayOf([]int8{1, 2, 3}).Len())
	assert.Nil(t, NullArray(KindByte).Any())
	assert.Equal(t, []int8{1, 2}, ArrayOf([]int8{1, 2}).Any())
	assert.True(t, Value{}.IsNull())
	assert.False(t, Int32Value(1).Equal(Int64Value(1)), "kinds differ")
}
