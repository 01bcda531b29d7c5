package codec

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrderPolicy selects whether multi-byte scalars are byte-reversed on the wire.
type ByteOrderPolicy uint8

const (
	// HostOrder writes multi-byte scalars little-endian.
	HostOrder ByteOrderPolicy = iota
	// NetworkOrder writes multi-byte scalars big-endian.
	NetworkOrder
)

// SizePolicy selects how lengths and element counts are encoded.
type SizePolicy uint8

const (
	// FixedSize32 writes sizes as a 4-byte unsigned integer in the configured byte order.
	FixedSize32 SizePolicy = iota
	// VarIntSize writes sizes as a 7-bit encoded variable-length integer.
	VarIntSize
)

// Config is the wire configuration shared by a Reader and Writer pair.
// Both ends of a stream must agree on it; nothing on the wire records it.
type Config struct {
	ByteOrder ByteOrderPolicy `toml:"byte_order" yaml:"byte_order"`
	Size      SizePolicy      `toml:"size_field" yaml:"size_field"`
}

// DefaultConfig is host byte order with fixed 32-bit size fields.
var DefaultConfig = Config{ByteOrder: HostOrder, Size: FixedSize32}

func (c Config) String() string {
	return fmt.Sprintf("byte_order=%s size_field=%s", c.ByteOrder, c.Size)
}

// Order returns the binary.ByteOrder used on the wire for this policy.
func (p ByteOrderPolicy) Order() binary.ByteOrder {
	if p == NetworkOrder {
		return BE
	}
	return LE
}

func (p ByteOrderPolicy) String() string {
	switch p {
	case HostOrder:
		return "host"
	case NetworkOrder:
		return "network"
	}
	return fmt.Sprintf("ByteOrderPolicy(%d)", uint8(p))
}

func (p ByteOrderPolicy) MarshalText() ([]byte, error) {
	if p > NetworkOrder {
		return nil, fmt.Errorf("%w: byte order %d", ErrInvalidPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *ByteOrderPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "host", "little", "little-endian", "le":
		*p = HostOrder
	case "network", "big", "big-endian", "be":
		*p = NetworkOrder
	default:
		return fmt.Errorf("%w: byte order %q", ErrInvalidPolicy, text)
	}
	return nil
}

// Set and Type let the policy be used directly as a command-line flag value.
func (p *ByteOrderPolicy) Set(s string) error { return p.UnmarshalText([]byte(s)) }
func (p *ByteOrderPolicy) Type() string       { return "byteorder" }

func (p SizePolicy) String() string {
	switch p {
	case FixedSize32:
		return "fixed32"
	case VarIntSize:
		return "varint"
	}
	return fmt.Sprintf("SizePolicy(%d)", uint8(p))
}

func (p SizePolicy) MarshalText() ([]byte, error) {
	if p > VarIntSize {
		return nil, fmt.Errorf("%w: size field %d", ErrInvalidPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *SizePolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "fixed32", "fixed", "uint32":
		*p = FixedSize32
	case "varint", "7bit", "uvarint":
		*p = VarIntSize
	default:
		return fmt.Errorf("%w: size field %q", ErrInvalidPolicy, text)
	}
	return nil
}

func (p *SizePolicy) Set(s string) error { return p.UnmarshalText([]byte(s)) }
func (p *SizePolicy) Type() string       { return "sizefield" }
