package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/tagcodec/tagged"
)

func runCmd(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, bytes.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

const int32Doc = `
- kind: int32
  value: -2147483648
- kind: int32
  value: -1
- kind: int32
  value: 0
- kind: int32
  value: 1
- kind: int32
  value: 2147483647
- kind: int32
  value: 42
`

func TestEncode(t *testing.T) {
	out, _, err := runCmd(t, []byte(int32Doc), "encode")
	require.NoError(t, err)

	expected := []byte{
		byte(tagged.TagMinInt32), byte(tagged.TagMinusOneInt32), byte(tagged.TagZeroInt32),
		byte(tagged.TagOneInt32), byte(tagged.TagMaxInt32), byte(tagged.TagInt32), 0x2A, 0, 0, 0,
	}
	assert.Equal(t, expected, []byte(out))

	t.Run("OutputFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.bin")
		stdout, _, err := runCmd(t, []byte(int32Doc), "encode", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, expected, data)
	})

	t.Run("EveryKind", func(t *testing.T) {
		doc := `
- {kind: bool, value: true}
- {kind: char, value: "A"}
- {kind: byte, value: 200}
- {kind: sbyte, value: -7}
- {kind: int16, value: 1000}
- {kind: uint16, value: 65535}
- {kind: uint32, value: 7}
- {kind: int64, value: -9000000000}
- {kind: uint64, value: 18446744073709551615}
- {kind: single, value: 2.5}
- {kind: double, value: .nan}
- {kind: datetime, value: 2024-01-02T03:04:05Z}
- {kind: timespan, value: 1m30s}
- {kind: guid, value: 00112233-4455-6677-8899-aabbccddeeff}
- {kind: string, value: hello}
- {kind: currency, value: 1}
- {kind: string, null: true}
- {kind: "double[]", value: [1.0, 3.5]}
- {kind: "int16[]", value: []}
- {kind: "string[]", value: [a, b]}
- {kind: bytes, value: abc}
- {kind: "bytes[]", value: [x, ""]}
- {kind: eos}
`
		out, _, err := runCmd(t, []byte(doc), "encode")
		require.NoError(t, err)

		stdout, _, err := runCmd(t, []byte(out), "dump", "-f", "yaml")
		require.NoError(t, err)

		var units []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &units))
		require.Len(t, units, 23)
		assert.Equal(t, "BooleanTrue", units[0]["tag"])
		assert.Equal(t, "A", units[1]["value"])
		assert.Equal(t, "DoubleNaN", units[10]["tag"])
		assert.Equal(t, "2024-01-02T03:04:05Z", units[11]["value"])
		assert.Equal(t, "1m30s", units[12]["value"])
		assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", units[13]["value"])
		assert.Equal(t, "OneCurrency", units[15]["tag"])
		assert.Equal(t, "Null", units[16]["tag"])
		assert.Equal(t, "SmallDoubleArray", units[17]["tag"])
		assert.Equal(t, "EmptyInt16Array", units[18]["tag"])
		assert.Equal(t, "SmallByteArray", units[20]["tag"])
		assert.Equal(t, "SmallByteArrayList", units[21]["tag"])
		assert.Equal(t, "Eos", units[22]["tag"])
	})

	t.Run("BadItems", func(t *testing.T) {
		_, _, err := runCmd(t, []byte("- {kind: decimal, value: 1}"), "encode")
		assert.ErrorContains(t, err, "unknown kind")

		_, _, err = runCmd(t, []byte("- {kind: char, value: AB}"), "encode")
		assert.ErrorContains(t, err, "item 0")

		_, _, err = runCmd(t, []byte("- {kind: byte, value: 300}"), "encode")
		assert.Error(t, err)

		_, _, err = runCmd(t, []byte("not: [a list"), "encode")
		assert.ErrorContains(t, err, "parse items")
	})
}

func TestNullItems(t *testing.T) {
	docs := map[string]string{
		"Flow":   "- {kind: string, null: true}",
		"Block":  "- kind: int32\n  null: true",
		"Quoted": "- {kind: guid, \"null\": true}",
		"Tilde":  "- {kind: double, ~: true}",
		"Array":  "- {kind: \"int16[]\", null: true}",
		"Bytes":  "- {kind: \"bytes[]\", null: true}",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			var items []item
			require.NoError(t, yaml.Unmarshal([]byte(doc), &items))
			require.Len(t, items, 1)
			assert.True(t, items[0].Null)

			v, err := items[0].value()
			require.NoError(t, err)
			assert.True(t, v.IsNull())

			out, _, err := runCmd(t, []byte(doc), "encode")
			require.NoError(t, err)
			assert.Equal(t, []byte{byte(tagged.TagNull)}, []byte(out))
		})
	}

	t.Run("FalseIsPresent", func(t *testing.T) {
		out, _, err := runCmd(t, []byte("- {kind: string, value: \"\", null: false}"), "encode")
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(tagged.TagEmptyString)}, []byte(out))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, _, err := runCmd(t, []byte("- {kind: string, nul: true}"), "encode")
		assert.ErrorContains(t, err, "unknown item key")
	})
}

func TestDump(t *testing.T) {
	stream, _, err := runCmd(t, []byte(int32Doc), "encode")
	require.NoError(t, err)

	t.Run("Text", func(t *testing.T) {
		out, _, err := runCmd(t, []byte(stream), "dump")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 6)
		assert.Contains(t, lines[0], "MinInt32")
		assert.Contains(t, lines[0], "-2147483648")
		assert.Contains(t, lines[5], "Int32")
		assert.True(t, strings.HasPrefix(lines[5], "5 "), lines[5])
		assert.Contains(t, lines[5], "42")
	})

	t.Run("JSON", func(t *testing.T) {
		out, _, err := runCmd(t, []byte(stream), "dump", "--format", "json")
		require.NoError(t, err)
		var units []struct {
			Offset int64  `json:"offset"`
			Tag    string `json:"tag"`
			Kind   string `json:"kind"`
			Value  int64  `json:"value"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &units))
		require.Len(t, units, 6)
		assert.Equal(t, "ZeroInt32", units[2].Tag)
		assert.Equal(t, "int32", units[2].Kind)
		assert.Equal(t, int64(42), units[5].Value)
		assert.Equal(t, int64(5), units[5].Offset)
	})

	t.Run("CBOR", func(t *testing.T) {
		out, _, err := runCmd(t, []byte(stream), "dump", "-f", "cbor")
		require.NoError(t, err)
		var units []map[string]any
		require.NoError(t, cbor.Unmarshal([]byte(out), &units))
		require.Len(t, units, 6)
		assert.Equal(t, "MaxInt32", units[4]["tag"])

		again, _, err := runCmd(t, []byte(stream), "dump", "-f", "cbor")
		require.NoError(t, err)
		assert.Equal(t, out, again, "deterministic encoding")
	})

	t.Run("Limit", func(t *testing.T) {
		out, _, err := runCmd(t, []byte(stream), "dump", "--limit", "5", "-f", "json")
		require.NoError(t, err)
		var units []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &units))
		assert.Len(t, units, 5)

		_, _, err = runCmd(t, []byte(stream), "dump", "--limit", "7")
		assert.ErrorContains(t, err, "offset 5")
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.bin")
		require.NoError(t, os.WriteFile(path, []byte(stream), 0o644))
		out, _, err := runCmd(t, nil, "dump", path)
		require.NoError(t, err)
		assert.Contains(t, out, "MaxInt32")

		_, _, err = runCmd(t, nil, "dump", path, path)
		assert.Error(t, err)
	})

	t.Run("InvalidTag", func(t *testing.T) {
		_, _, err := runCmd(t, []byte{byte(tagged.TagOneInt32), byte(tagged.TagStringUTF8)}, "dump")
		assert.ErrorContains(t, err, "StringUTF8")
		assert.ErrorContains(t, err, "offset 1")
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, _, err := runCmd(t, []byte(stream), "dump", "-f", "xml")
		assert.ErrorContains(t, err, "unknown format")
	})

	t.Run("Empty", func(t *testing.T) {
		out, _, err := runCmd(t, nil, "dump")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagcodec.toml")
	require.NoError(t, os.WriteFile(path, []byte("byte_order = \"network\"\nsize_field = \"varint\"\nformat = \"json\"\n"), 0o644))

	doc := []byte("- {kind: string, value: hi}\n- {kind: int16, value: 258}\n")

	out, _, err := runCmd(t, doc, "encode", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(tagged.TagString), 2, 'h', 'i', byte(tagged.TagInt16), 0x01, 0x02}, []byte(out))

	t.Run("FlagsOverrideFile", func(t *testing.T) {
		out, _, err := runCmd(t, doc, "encode", "--config", path, "--size-field", "fixed32", "--byte-order", "host")
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(tagged.TagString), 2, 0, 0, 0, 'h', 'i', byte(tagged.TagInt16), 0x02, 0x01}, []byte(out))
	})

	t.Run("FormatFromFile", func(t *testing.T) {
		dumped, _, err := runCmd(t, []byte(out), "dump", "--config", path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(dumped), "["), dumped)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte("colour = \"red\"\n"), 0o644))
		_, _, err := runCmd(t, doc, "encode", "--config", bad)
		assert.ErrorContains(t, err, "unknown key")
	})

	t.Run("BadPolicy", func(t *testing.T) {
		_, _, err := runCmd(t, doc, "encode", "--byte-order", "middle")
		assert.Error(t, err)
	})
}

func TestCommands(t *testing.T) {
	_, stderr, err := runCmd(t, nil)
	assert.Error(t, err)
	assert.Contains(t, stderr, "Usage:")

	_, _, err = runCmd(t, nil, "frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	out, _, err := runCmd(t, nil, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "tagcodec dump")

	_, stderr, err = runCmd(t, []byte(int32Doc), "encode", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "encoded")
}
