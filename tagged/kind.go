package tagged

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/oy3o/tagcodec"
)

// Kind identifies a value family.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindByte
	KindSByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindSingle
	KindDouble
	KindDateTime
	KindTimeSpan
	KindGuid
	KindString
	KindCurrency
	// KindBytes only exists as the element of a byte-array list.
	KindBytes

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindChar:     "char",
	KindByte:     "uint8",
	KindSByte:    "int8",
	KindInt16:    "int16",
	KindUInt16:   "uint16",
	KindInt32:    "int32",
	KindUInt32:   "uint32",
	KindInt64:    "int64",
	KindUInt64:   "uint64",
	KindSingle:   "float32",
	KindDouble:   "float64",
	KindDateTime: "datetime",
	KindTimeSpan: "timespan",
	KindGuid:     "guid",
	KindString:   "string",
	KindCurrency: "currency",
	KindBytes:    "bytes",
}

var kindAliases = map[string]Kind{
	"boolean":  KindBool,
	"byte":     KindByte,
	"sbyte":    KindSByte,
	"single":   KindSingle,
	"double":   KindDouble,
	"duration": KindTimeSpan,
	"time":     KindDateTime,
	"uuid":     KindGuid,
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a kind name such as "int32", "double" or "guid".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s && Kind(k) != KindInvalid {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("%w: unknown kind %q", codec.ErrArgument, s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err == nil {
		*k = v
	}
	return err
}

func (k Kind) isSigned() bool {
	switch k {
	case KindSByte, KindInt16, KindInt32, KindInt64, KindDateTime, KindTimeSpan, KindCurrency:
		return true
	}
	return false
}

func (k Kind) isFloat() bool { return k == KindSingle || k == KindDouble }

var (
	typeChar     = reflect.TypeFor[codec.Char]()
	typeCurrency = reflect.TypeFor[codec.Currency]()
	typeDateTime = reflect.TypeFor[codec.DateTime]()
	typeDuration = reflect.TypeFor[time.Duration]()
	typeGuid     = reflect.TypeFor[uuid.UUID]()
)

// kinds caches the resolution of named types; lookups happen on every typed
// read and write.
var kinds = xsync.NewMap[reflect.Type, Kind]()

// KindOf resolves the family of a Go type. The codec's own named types map to
// their dedicated families; any other named type maps by its underlying kind,
// so an enumeration over int32 encodes as Int32.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return KindInvalid
	}
	if k, ok := kinds.Load(t); ok {
		return k
	}
	k := resolveKind(t)
	kinds.Store(t, k)
	return k
}

func kindFor[T any]() Kind { return KindOf(reflect.TypeFor[T]()) }

func resolveKind(t reflect.Type) Kind {
	switch t {
	case typeChar:
		return KindChar
	case typeCurrency:
		return KindCurrency
	case typeDateTime:
		return KindDateTime
	case typeDuration:
		return KindTimeSpan
	case typeGuid:
		return KindGuid
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int8:
		return KindSByte
	case reflect.Uint8:
		return KindByte
	case reflect.Int16:
		return KindInt16
	case reflect.Uint16:
		return KindUInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Uint32:
		return KindUInt32
	case reflect.Int, reflect.Int64:
		return KindInt64
	case reflect.Uint, reflect.Uint64:
		return KindUInt64
	case reflect.Float32:
		return KindSingle
	case reflect.Float64:
		return KindDouble
	case reflect.String:
		return KindString
	case reflect.Array:
		if t.Len() == 16 && t.Elem().Kind() == reflect.Uint8 {
			return KindGuid
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t.Elem().Name() == "uint8" {
			return KindBytes
		}
	}
	return KindInvalid
}
