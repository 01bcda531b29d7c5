package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/oy3o/tagcodec"
)

type fileConfig struct {
	ByteOrder codec.ByteOrderPolicy `toml:"byte_order"`
	SizeField codec.SizePolicy      `toml:"size_field"`
	Format    string                `toml:"format"`
	Verbose   bool                  `toml:"verbose"`
}

type options struct {
	configPath string
	byteOrder  codec.ByteOrderPolicy
	sizeField  codec.SizePolicy
	format     string
	output     string
	limit      int64
	verbose    bool

	// wire is the resolved configuration after resolve.
	wire codec.Config
}

func (o *options) addFlags(flagSet *pflag.FlagSet, command string) {
	flagSet.StringVar(&o.configPath, "config", "", "TOML config file")
	flagSet.Var(&o.byteOrder, "byte-order", "byte order: host or network")
	flagSet.Var(&o.sizeField, "size-field", "size field encoding: fixed32 or varint")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	switch command {
	case "dump":
		flagSet.StringVarP(&o.format, "format", "f", "text", "output format: text, yaml, json or cbor")
		flagSet.Int64Var(&o.limit, "limit", 0, "decode at most this many bytes (0 for no limit)")
	case "encode":
		flagSet.StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	}
}

// resolve layers the config file under the flags: a flag given on the
// command line always wins.
func (o *options) resolve(flagSet *pflag.FlagSet) error {
	o.wire = codec.DefaultConfig
	if o.configPath != "" {
		raw, meta, err := loadConfig(o.configPath)
		if err != nil {
			return err
		}
		if meta.IsDefined("byte_order") {
			o.wire.ByteOrder = raw.ByteOrder
		}
		if meta.IsDefined("size_field") {
			o.wire.Size = raw.SizeField
		}
		if meta.IsDefined("format") && !flagSet.Changed("format") {
			o.format = strings.TrimSpace(raw.Format)
		}
		if meta.IsDefined("verbose") && !flagSet.Changed("verbose") {
			o.verbose = raw.Verbose
		}
	}
	if flagSet.Changed("byte-order") {
		o.wire.ByteOrder = o.byteOrder
	}
	if flagSet.Changed("size-field") {
		o.wire.Size = o.sizeField
	}
	if o.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return nil
}

func loadConfig(path string) (fileConfig, toml.MetaData, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fileConfig{}, meta, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, meta, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	return raw, meta, nil
}
