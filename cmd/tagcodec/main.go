// Command tagcodec inspects and produces tagged binary streams.
//
// Usage:
//
//	tagcodec dump [flags] [file]
//	tagcodec encode [flags] [file] -o out
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches one subcommand. It never touches the process streams directly
// so tests can drive it.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing command")
	}
	name, args := args[0], args[1:]

	var opts options
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	opts.addFlags(flagSet, name)

	switch name {
	case "dump", "encode":
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", name)
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if err := opts.resolve(flagSet); err != nil {
		return err
	}

	logger := newLogger(stderr, opts.verbose)
	logger.Debug().Str("command", name).Stringer("config", opts.wire).Msg("starting")

	switch name {
	case "dump":
		return runDump(logger, &opts, flagSet.Args(), stdin, stdout)
	default:
		return runEncode(logger, &opts, flagSet.Args(), stdin, stdout)
	}
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "tagcodec").Logger()
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `tagcodec reads and writes tagged binary streams.

Usage:
  tagcodec dump [flags] [file]        decode a stream (stdin if no file) and print each unit
  tagcodec encode [flags] [file]      encode a YAML item list (stdin if no file)

Common flags:
  --config path          TOML file with byte_order, size_field, format and verbose
  --byte-order string    host or network
  --size-field string    fixed32 or varint
  -v, --verbose          debug logging on stderr

dump flags:
  -f, --format string    text, yaml, json or cbor
      --limit int        decode at most this many bytes

encode flags:
  -o, --output path      write the stream here instead of stdout
`)
}
