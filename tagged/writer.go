package tagged

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/oy3o/tagcodec"
)

// DataWriter encodes tagged units onto a codec.Writer. Like the Writer it
// wraps, it latches the first error and ignores later writes.
type DataWriter struct {
	w *codec.Writer
}

// NewDataWriter writes straight through to w using cfg. Wrap w in a
// codec.Writer from codec.NewWriterSize to buffer; Flush is then the caller's.
func NewDataWriter(w io.Writer, cfg codec.Config) (*DataWriter, error) {
	cw, err := codec.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &DataWriter{w: cw.WithConfig(cfg)}, nil
}

func (dw *DataWriter) Writer() *codec.Writer { return dw.w }
func (dw *DataWriter) Err() error            { return dw.w.Err() }
func (dw *DataWriter) Count() int64          { return dw.w.Count() }
func (dw *DataWriter) Flush() error          { return dw.w.Flush() }

// Result flushes and returns the bytes written and the first error.
func (dw *DataWriter) Result() (int64, error) { return dw.w.Result() }

// WriteNull writes the Null tag for an absent optional or array.
func (dw *DataWriter) WriteNull() error {
	dw.w.WriteUint8(uint8(TagNull))
	return dw.w.Err()
}

// WriteEos writes the end-of-sequence marker.
func (dw *DataWriter) WriteEos() error {
	dw.w.WriteUint8(uint8(TagEos))
	return dw.w.Err()
}

// WriteValue encodes v with the smallest tag that represents it.
func (dw *DataWriter) WriteValue(v Value) error {
	f := FamilyOf(v.kind)
	switch {
	case v.IsNull():
		return dw.WriteNull()
	case f == nil:
		dw.w.SetError(fmt.Errorf("%w: cannot encode kind %s", codec.ErrArgument, v.kind))
	case v.array:
		dw.writeArray(f, v)
	default:
		dw.writeScalar(f, v)
	}
	return dw.w.Err()
}

func (dw *DataWriter) writeScalar(f *Family, v Value) {
	if t, ok := f.sentinelTag(v); ok {
		dw.w.WriteUint8(uint8(t))
		return
	}
	if f.Generic == TagUnknown {
		dw.w.SetError(fmt.Errorf("%w: no scalar encoding for %s", codec.ErrArgument, f.Name))
		return
	}
	w := dw.w
	w.WriteUint8(uint8(f.Generic))
	switch f.Kind {
	case KindString:
		w.WriteSizedString(v.Str())
	case KindGuid:
		w.WriteGuid(v.Guid())
	case KindSingle:
		w.WriteFloat32(float32(v.Float64()))
	case KindDouble:
		w.WriteFloat64(v.Float64())
	default:
		switch f.Width {
		case 1:
			w.WriteUint8(uint8(v.num))
		case 2:
			w.WriteUint16(uint16(v.num))
		case 4:
			w.WriteUint32(uint32(v.num))
		case 8:
			w.WriteUint64(v.num)
		}
	}
}

func (dw *DataWriter) writeArray(f *Family, v Value) {
	w := dw.w
	switch list := v.any.(type) {
	case []bool:
		writeRawArray(w, f, list)
	case []codec.Char:
		writeRawArray(w, f, list)
	case []uint8:
		writeRawArray(w, f, list)
	case []int8:
		writeRawArray(w, f, list)
	case []int16:
		writeRawArray(w, f, list)
	case []uint16:
		writeRawArray(w, f, list)
	case []int32:
		writeRawArray(w, f, list)
	case []uint32:
		writeRawArray(w, f, list)
	case []int64:
		writeRawArray(w, f, list)
	case []uint64:
		writeRawArray(w, f, list)
	case []float32:
		writeRawArray(w, f, list)
	case []float64:
		writeRawArray(w, f, list)
	case []codec.DateTime:
		writeRawArray(w, f, list)
	case []time.Duration:
		writeRawArray(w, f, list)
	case []uuid.UUID:
		writeRawArray(w, f, list)
	case []codec.Currency:
		writeRawArray(w, f, list)
	case []string:
		writeStringArray(w, list)
	case [][]byte:
		writeByteArrayList(w, list)
	default:
		w.SetError(fmt.Errorf("%w: %T is not a %s", codec.ErrArgument, v.any, f.arrayName()))
	}
}

// WriteSequence writes vs followed by the Eos tag.
func (dw *DataWriter) WriteSequence(vs []Value) error {
	for _, v := range vs {
		if err := dw.WriteValue(v); err != nil {
			return err
		}
	}
	return dw.WriteEos()
}

// --- Typed writes ---

// Write encodes v with its family's smallest tag.
func Write[T Element](dw *DataWriter, v T) error {
	k := kindFor[T]()
	if k == KindInvalid {
		dw.w.SetError(fmt.Errorf("%w: cannot encode %T", codec.ErrArgument, v))
		return dw.w.Err()
	}
	return dw.WriteValue(scalarOf(k, reflect.ValueOf(v)))
}

// WriteOptional writes Null for a nil v, otherwise *v as Write does.
func WriteOptional[T Element](dw *DataWriter, v *T) error {
	if v == nil {
		return dw.WriteNull()
	}
	return Write(dw, *v)
}

// WriteArray writes vs with the smallest tier tag; nil writes Null.
func WriteArray[T codec.Scalar](dw *DataWriter, vs []T) error {
	f := FamilyOf(kindFor[T]())
	if f == nil || f.Kind == KindString || f.Kind == KindBytes {
		dw.w.SetError(fmt.Errorf("%w: cannot encode %T", codec.ErrArgument, vs))
		return dw.w.Err()
	}
	writeRawArray(dw.w, f, vs)
	return dw.w.Err()
}

// WriteStrings writes a string array; nil writes Null.
func WriteStrings[S ~string](dw *DataWriter, vs []S) error {
	writeStringArray(dw.w, vs)
	return dw.w.Err()
}

// WriteByteArrayList writes a list whose elements are complete tagged byte arrays.
func WriteByteArrayList(dw *DataWriter, vs [][]byte) error {
	writeByteArrayList(dw.w, vs)
	return dw.w.Err()
}
