package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/tagcodec"
	"github.com/oy3o/tagcodec/tagged"
)

// item is one entry of an encode document:
//
//	- kind: int32
//	  value: 42
//	- kind: float64[]
//	  value: [1.0, 3.5]
//	- kind: string
//	  null: true
//	- kind: eos
type item struct {
	Kind  string
	Value yaml.Node
	Null  bool
}

// UnmarshalYAML walks the mapping by hand: a plain null key resolves to the
// null scalar rather than the string "null", so it is matched by tag.
func (it *item) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: item must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var err error
		switch {
		case key.Value == "kind":
			err = val.Decode(&it.Kind)
		case key.Value == "value":
			it.Value = *val
		case key.Value == "null" || key.Tag == "!!null":
			err = val.Decode(&it.Null)
		default:
			err = fmt.Errorf("line %d: unknown item key %q", key.Line, key.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runEncode(logger zerolog.Logger, opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if len(args) > 1 {
		return fmt.Errorf("encode takes at most one file, got %d", len(args))
	}
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var items []item
	if err := yaml.NewDecoder(in).Decode(&items); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse items: %w", err)
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	n, err := encodeItems(out, opts.wire, items)
	if err != nil {
		return err
	}
	logger.Debug().Int("items", len(items)).Int64("bytes", n).Msg("encoded")
	return nil
}

// encodeItems writes every item through one buffered writer and flushes it.
func encodeItems(out io.Writer, cfg codec.Config, items []item) (int64, error) {
	cw, err := codec.NewWriterSize(out, 64*1024)
	if err != nil {
		return 0, err
	}
	dw, err := tagged.NewDataWriter(cw, cfg)
	if err != nil {
		return 0, err
	}
	for i := range items {
		it := &items[i]
		if strings.EqualFold(strings.TrimSpace(it.Kind), "eos") {
			dw.WriteEos()
			continue
		}
		v, err := it.value()
		if err != nil {
			return dw.Count(), fmt.Errorf("item %d: %w", i, err)
		}
		if err := dw.WriteValue(v); err != nil {
			return dw.Count(), fmt.Errorf("item %d: %w", i, err)
		}
	}
	if err := cw.Flush(); err != nil {
		return dw.Count(), err
	}
	return dw.Count(), dw.Err()
}

// value builds the Value an item describes. A kind ending in "[]" is an array;
// "bytes" is a byte array given as text and "bytes[]" a list of them.
func (it *item) value() (tagged.Value, error) {
	name := strings.TrimSpace(it.Kind)
	array := strings.HasSuffix(name, "[]")
	name = strings.TrimSuffix(name, "[]")

	k, err := tagged.ParseKind(name)
	if err != nil {
		return tagged.Value{}, err
	}
	if k == tagged.KindBytes {
		return bytesValue(&it.Value, array, it.Null)
	}
	if it.Null {
		if array {
			return tagged.NullArray(k), nil
		}
		return tagged.NullValue(k), nil
	}
	d, ok := decoders[k]
	if !ok {
		return tagged.Value{}, fmt.Errorf("kind %s cannot be encoded", k)
	}
	if array {
		return d.array(&it.Value)
	}
	return d.scalar(&it.Value)
}

func bytesValue(n *yaml.Node, list, null bool) (tagged.Value, error) {
	switch {
	case null && list:
		return tagged.NullArray(tagged.KindBytes), nil
	case null:
		return tagged.NullArray(tagged.KindByte), nil
	case list:
		var ss []string
		if err := n.Decode(&ss); err != nil {
			return tagged.Value{}, err
		}
		bs := make([][]byte, len(ss))
		for i, s := range ss {
			bs[i] = []byte(s)
		}
		return tagged.ByteArrayListValue(bs), nil
	}
	var s string
	if err := n.Decode(&s); err != nil {
		return tagged.Value{}, err
	}
	return tagged.ArrayOf([]byte(s)), nil
}

type decoder struct {
	scalar func(n *yaml.Node) (tagged.Value, error)
	array  func(n *yaml.Node) (tagged.Value, error)
}

// via decodes the YAML form S and converts it to the wire type T.
func via[S any, T tagged.Element](conv func(S) (T, error)) decoder {
	return decoder{
		scalar: func(n *yaml.Node) (tagged.Value, error) {
			var s S
			if err := n.Decode(&s); err != nil {
				return tagged.Value{}, err
			}
			v, err := conv(s)
			if err != nil {
				return tagged.Value{}, err
			}
			return tagged.ValueOf(v)
		},
		array: func(n *yaml.Node) (tagged.Value, error) {
			var ss []S
			if err := n.Decode(&ss); err != nil {
				return tagged.Value{}, err
			}
			vs := make([]T, 0, len(ss))
			for _, s := range ss {
				v, err := conv(s)
				if err != nil {
					return tagged.Value{}, err
				}
				vs = append(vs, v)
			}
			return tagged.ArrayOf(vs), nil
		},
	}
}

func same[T any](v T) (T, error) { return v, nil }

func parseChar(s string) (codec.Char, error) {
	r := []rune(s)
	if len(r) != 1 || r[0] > 0xFFFF {
		return 0, fmt.Errorf("char %q is not a single 16-bit character", s)
	}
	return codec.Char(r[0]), nil
}

var decoders = map[tagged.Kind]decoder{
	tagged.KindBool:     via(same[bool]),
	tagged.KindChar:     via(parseChar),
	tagged.KindByte:     via(same[uint8]),
	tagged.KindSByte:    via(same[int8]),
	tagged.KindInt16:    via(same[int16]),
	tagged.KindUInt16:   via(same[uint16]),
	tagged.KindInt32:    via(same[int32]),
	tagged.KindUInt32:   via(same[uint32]),
	tagged.KindInt64:    via(same[int64]),
	tagged.KindUInt64:   via(same[uint64]),
	tagged.KindSingle:   via(same[float32]),
	tagged.KindDouble:   via(same[float64]),
	tagged.KindDateTime: via(func(t time.Time) (codec.DateTime, error) { return codec.NewDateTime(t), nil }),
	tagged.KindTimeSpan: via(time.ParseDuration),
	tagged.KindGuid:     via(uuid.Parse),
	tagged.KindString:   via(same[string]),
	tagged.KindCurrency: via(func(f float64) (codec.Currency, error) { return codec.CurrencyFromFloat(f), nil }),
}
