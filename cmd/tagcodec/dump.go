package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oy3o/tagcodec"
	"github.com/oy3o/tagcodec/tagged"
)

// unit is one decoded item as presented by dump.
type unit struct {
	Offset int64  `json:"offset" yaml:"offset" cbor:"offset"`
	Tag    string `json:"tag" yaml:"tag" cbor:"tag"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty" cbor:"kind,omitempty"`
	Array  bool   `json:"array,omitempty" yaml:"array,omitempty" cbor:"array,omitempty"`
	Value  any    `json:"value" yaml:"value" cbor:"value"`

	text string
}

func runDump(logger zerolog.Logger, opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	name := "stdin"
	if len(args) > 1 {
		return fmt.Errorf("dump takes at most one file, got %d", len(args))
	}
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in, name = f, args[0]
	}
	if opts.limit > 0 {
		in = codec.LimitReader(in, opts.limit)
	}

	units, err := decodeUnits(in, opts.wire)
	logger.Debug().Str("input", name).Int("units", len(units)).Msg("decoded")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return writeUnits(stdout, opts.format, units)
}

// decodeUnits reads units until the stream ends cleanly between two units.
func decodeUnits(in io.Reader, cfg codec.Config) ([]unit, error) {
	cr, err := codec.NewReaderSize(in, 64*1024)
	if err != nil {
		return nil, err
	}
	dr, err := tagged.NewDataReader(cr, cfg)
	if err != nil {
		return nil, err
	}
	var units []unit
	for {
		offset := dr.Count()
		v, eos, err := dr.ReadItem()
		if dr.IsEOF() {
			return units, nil
		}
		if err != nil {
			return units, fmt.Errorf("offset %d: %w", offset, err)
		}
		u := unit{Offset: offset, Tag: dr.LastTag().String()}
		switch {
		case eos:
			u.text = "end of sequence"
		case v.IsNull():
			u.text = "null"
		default:
			u.Kind = v.Kind().String()
			u.Array = v.IsArray()
			u.Value = plain(v)
			u.text = v.String()
		}
		units = append(units, u)
	}
}

// plain converts a decoded value into types every output format can carry.
func plain(v tagged.Value) any {
	x := v.Any()
	if !v.IsArray() {
		return plainScalar(x)
	}
	if list, ok := x.([][]byte); ok {
		return list
	}
	rv := reflect.ValueOf(x)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = plainScalar(rv.Index(i).Interface())
	}
	return out
}

func plainScalar(x any) any {
	switch x := x.(type) {
	case codec.Char:
		return string(rune(x))
	case codec.Currency:
		return x.String()
	case codec.DateTime:
		return x.Time().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case uuid.UUID:
		return x.String()
	case float32:
		return plainFloat(float64(x), 32)
	case float64:
		return plainFloat(x, 64)
	}
	return x
}

// plainFloat keeps finite floats numeric; NaN and the infinities become strings
// since JSON cannot represent them.
func plainFloat(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return f
}
