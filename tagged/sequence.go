package tagged

import (
	"io"

	"github.com/oy3o/tagcodec"
)

// Sequence is a run of values closed by the Eos tag, so a reader can consume
// it without knowing the count in advance.
type Sequence struct {
	Items []Value
	cfg   codec.Config
}

// Statically ensure that Sequence implements Codec.
var _ codec.Codec = (*Sequence)(nil)

// NewSequence creates a Sequence encoded under codec.DefaultConfig.
func NewSequence(items ...Value) *Sequence {
	return &Sequence{Items: items, cfg: codec.DefaultConfig}
}

// WithConfig changes the wire configuration used by WriteTo and ReadFrom.
func (s *Sequence) WithConfig(cfg codec.Config) *Sequence {
	s.cfg = cfg
	return s
}

func (s *Sequence) Len() int { return len(s.Items) }

// Size is the encoded size of every item plus the Eos tag.
func (s *Sequence) Size() int {
	size := 1
	for _, v := range s.Items {
		size += v.EncodedSize(s.cfg)
	}
	return size
}

// WriteTo writes each item then the Eos tag.
func (s *Sequence) WriteTo(writer io.Writer) (int64, error) {
	dw, err := NewDataWriter(writer, s.cfg)
	if err != nil {
		return 0, err
	}
	dw.WriteSequence(s.Items)
	return dw.Result()
}

// ReadFrom appends items until the Eos tag. The stream ending first is an
// unexpected end of stream.
func (s *Sequence) ReadFrom(reader io.Reader) (int64, error) {
	dr, err := NewDataReader(reader, s.cfg)
	if err != nil {
		return 0, err
	}
	items, err := dr.ReadSequence()
	s.Items = append(s.Items, items...)
	return dr.Count(), err
}

// --- Boilerplate implementations ---

func (s *Sequence) MarshalBinary() ([]byte, error) {
	return codec.MarshalBinaryGeneric(s)
}

func (s *Sequence) UnmarshalBinary(data []byte) error {
	s.Items = s.Items[:0]
	return codec.UnmarshalBinaryGeneric(s, data)
}

func (s *Sequence) MarshalTo(buf []byte) (int, error) {
	return codec.MarshalToGeneric(s, buf)
}
