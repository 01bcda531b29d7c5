package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cborMode uses Core Deterministic Encoding so the same stream always dumps
// to the same bytes.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("tagcodec: CBOR encoder initialization failed: " + err.Error())
	}
}

func writeUnits(w io.Writer, format string, units []unit) error {
	switch format {
	case "", "text":
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for _, u := range units {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.Offset, u.Tag, u.text)
		}
		return tw.Flush()
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(units); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(units)
	case "cbor":
		data, err := cborMode.Marshal(units)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
