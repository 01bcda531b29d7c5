package tagged

import "fmt"

// Tag is the one-byte discriminator that starts every encoded unit.
// The numeric values are part of the wire format and must never be reordered.
type Tag byte

const (
	TagUnknown Tag = iota
	TagEos
	TagNull
	TagTrue
	TagFalse

	TagZeroChar
	TagOneChar
	TagMaxChar
	TagChar

	TagZeroByte
	TagOneByte
	TagMaxByte
	TagByte

	TagMinSByte
	TagMinusOneSByte
	TagZeroSByte
	TagOneSByte
	TagMaxSByte
	TagSByte

	TagMinInt16
	TagMinusOneInt16
	TagZeroInt16
	TagOneInt16
	TagMaxInt16
	TagInt16

	TagZeroUInt16
	TagOneUInt16
	TagMaxUInt16
	TagUInt16

	TagMinInt32
	TagMinusOneInt32
	TagZeroInt32
	TagOneInt32
	TagMaxInt32
	TagInt32

	TagZeroUInt32
	TagOneUInt32
	TagMaxUInt32
	TagUInt32

	TagMinInt64
	TagMinusOneInt64
	TagZeroInt64
	TagOneInt64
	TagMaxInt64
	TagInt64

	TagZeroUInt64
	TagOneUInt64
	TagMaxUInt64
	TagUInt64

	TagSingleNegativeInfinity
	TagMinSingle
	TagMinusOneSingle
	TagZeroSingle
	TagOneSingle
	TagMaxSingle
	TagSinglePositiveInfinity
	TagSingleNaN
	TagSingle

	TagDoubleNegativeInfinity
	TagMinDouble
	TagMinusOneDouble
	TagZeroDouble
	TagOneDouble
	TagMaxDouble
	TagDoublePositiveInfinity
	TagDoubleNaN
	TagDouble

	TagDateTime
	TagZeroDateTime
	TagTimeSpan
	TagZeroTimeSpan
	TagEmptyGuid
	TagGuid

	TagEmptyString
	TagString
	// Reserved string encodings. They are never written and fail to decode.
	TagStringUTF8
	TagStringUTF16LE
	TagStringInCodePage

	TagMinCurrency
	TagMinusOneCurrency
	TagZeroCurrency
	TagOneCurrency
	TagMaxCurrency
	TagCurrency
)

const (
	TagSmallBooleanArray Tag = iota + 0x80
	TagBooleanArray
	TagLargeBooleanArray
	TagEmptyBooleanArray

	TagSmallCharArray
	TagCharArray
	TagLargeCharArray
	TagEmptyCharArray

	TagSmallSByteArray
	TagSByteArray
	TagLargeSByteArray
	TagEmptySByteArray

	TagSmallByteArray
	TagByteArray
	TagLargeByteArray
	TagEmptyByteArray

	TagSmallInt16Array
	TagInt16Array
	TagLargeInt16Array
	TagEmptyInt16Array

	TagSmallUInt16Array
	TagUInt16Array
	TagLargeUInt16Array
	TagEmptyUInt16Array

	TagSmallInt32Array
	TagInt32Array
	TagLargeInt32Array
	TagEmptyInt32Array

	TagSmallUInt32Array
	TagUInt32Array
	TagLargeUInt32Array
	TagEmptyUInt32Array

	TagSmallInt64Array
	TagInt64Array
	TagLargeInt64Array
	TagEmptyInt64Array

	TagSmallUInt64Array
	TagUInt64Array
	TagLargeUInt64Array
	TagEmptyUInt64Array

	TagSmallSingleArray
	TagSingleArray
	TagLargeSingleArray
	TagEmptySingleArray

	TagSmallDoubleArray
	TagDoubleArray
	TagLargeDoubleArray
	TagEmptyDoubleArray

	TagSmallDateTimeArray
	TagDateTimeArray
	TagLargeDateTimeArray
	TagEmptyDateTimeArray

	TagSmallTimeSpanArray
	TagTimeSpanArray
	TagLargeTimeSpanArray
	TagEmptyTimeSpanArray

	TagSmallGuidArray
	TagGuidArray
	TagLargeGuidArray
	TagEmptyGuidArray

	TagSmallStringArray
	TagStringArray
	TagLargeStringArray
	TagEmptyStringArray

	TagSmallByteArrayList
	TagByteArrayList
	TagLargeByteArrayList
	TagEmptyByteArrayList

	TagSmallCurrencyArray
	TagCurrencyArray
	TagLargeCurrencyArray
	TagEmptyCurrencyArray
)

// role is what a tag means within its family.
type role uint8

const (
	roleNone role = iota
	roleSentinel
	roleGeneric
	roleSmall
	roleMedium
	roleLarge
	roleEmpty
)

type tagInfo struct {
	name     string
	family   *Family
	role     role
	sentinel int // index into family.Sentinels when role is roleSentinel
}

// tags is filled once from the family table at init and never mutated afterwards.
var tags [256]tagInfo

func init() {
	tags[TagUnknown].name = "Unknown"
	tags[TagEos].name = "Eos"
	tags[TagNull].name = "Null"
	tags[TagStringUTF8].name = "StringUTF8"
	tags[TagStringUTF16LE].name = "StringUTF16LE"
	tags[TagStringInCodePage].name = "StringInCodePage"

	for i := range families {
		f := &families[i]
		if f.Kind == KindInvalid {
			continue
		}
		for j, s := range f.Sentinels {
			tags[s.Tag] = tagInfo{name: s.Name, family: f, role: roleSentinel, sentinel: j}
		}
		if f.Generic != TagUnknown {
			tags[f.Generic] = tagInfo{name: f.Name, family: f, role: roleGeneric}
		}
		a := f.Array
		suffix := f.Name + "Array"
		if f.Kind == KindBytes {
			suffix = "ByteArrayList"
		}
		tags[a.Small] = tagInfo{name: "Small" + suffix, family: f, role: roleSmall}
		tags[a.Medium] = tagInfo{name: suffix, family: f, role: roleMedium}
		tags[a.Large] = tagInfo{name: "Large" + suffix, family: f, role: roleLarge}
		tags[a.Empty] = tagInfo{name: "Empty" + suffix, family: f, role: roleEmpty}
	}
}

func (t Tag) String() string {
	if name := tags[t].name; name != "" {
		return name
	}
	return fmt.Sprintf("Tag(0x%02X)", byte(t))
}

// Family returns the family t belongs to, or nil for structural, reserved and
// unassigned tags.
func (t Tag) Family() *Family { return tags[t].family }

// IsArray reports whether t introduces an array or list of its family.
func (t Tag) IsArray() bool { return tags[t].role >= roleSmall }
