package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
)

type ReaderPro interface {
	io.Reader
	io.ByteReader
	io.Closer
	Size() int
}

// Reader decodes primitive values from a stream according to a Config.
// It tracks the first error. Subsequent reads become no-ops.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
	cfg   Config
	order binary.ByteOrder
	stage []byte // lazily allocated, STAGE_SIZE bytes
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader. A positive size reads ahead through a
// bufio.Reader of that size; size 0 reads exactly the bytes each field needs.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying stream if it's already a Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return newReader(reader.r, reader.cfg), nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return newReader(&bufioReaderAdapter{reader}, DefaultConfig), nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return newReader(reader, DefaultConfig), nil
	case *bytes.Reader:
		return newReader(&bytesReaderAdapter{reader}, DefaultConfig), nil
	case *bytes.Buffer:
		return newReader(&bytesBufferReaderAdapter{reader}, DefaultConfig), nil
	}

	if size <= 0 {
		return newReader(&streamReaderAdapter{r: r}, DefaultConfig), nil
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return newReader(&bufioReaderAdapter{bufio.NewReaderSize(r, size)}, DefaultConfig), nil
}

// NewReader creates a new Reader without read-ahead.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

func newReader(r ReaderPro, cfg Config) *Reader {
	return &Reader{r: r, cfg: cfg, order: cfg.ByteOrder.Order()}
}

// WithConfig sets the byte-order and size-field policies and returns
// the Reader for chaining.
func (r *Reader) WithConfig(cfg Config) *Reader {
	r.cfg = cfg
	r.order = cfg.ByteOrder.Order()
	return r
}

func (r *Reader) Config() Config { return r.cfg }

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface. Each call is treated as a unit
// boundary: when the stream is exhausted before any byte arrives, the latched
// error is the clean end of stream, as from Next, and Read itself returns a
// bare io.EOF. A field spanning several calls is read with ReadBytesTo, which
// reports a truncation instead.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.ioError()
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	if err == io.EOF {
		if n > 0 {
			err = nil
		} else {
			err = errCleanEnd
		}
	}
	r.setError(err)
	if r.err != nil {
		return n, r.ioError()
	}
	return n, nil
}

// ioError is the latched error as io.Reader callers expect it.
func (r *Reader) ioError() error {
	if r.err == errCleanEnd {
		return io.EOF
	}
	return r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }

// IsEOF reports whether the stream ended cleanly on a unit boundary.
func (r *Reader) IsEOF() bool { return errors.Is(r.err, io.EOF) }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

func (r *Reader) staging() []byte {
	if r.stage == nil {
		r.stage = make([]byte, STAGE_SIZE)
	}
	return r.stage
}

// readFull fills p exactly; a short read latches ErrEndOfStream.
func (r *Reader) readFull(p []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, p)
	r.count += int64(n)
	if err != nil {
		r.err = readError(err)
		return false
	}
	return true
}

// Next reads the first byte of a new unit. When the stream is exhausted before
// that byte, the latched error wraps io.EOF instead of io.ErrUnexpectedEOF so
// callers can tell a clean end from a truncated unit.
func (r *Reader) Next() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
		return b, nil
	}
	if err == io.EOF {
		r.err = errCleanEnd
	} else {
		r.err = readError(err)
	}
	return 0, r.err
}

// ReadBytes reads n bytes and returns a new byte slice. Large lengths are read
// in chunks so a corrupt size field cannot force a huge allocation up front.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 || r.err != nil {
		return nil
	}
	buf := make([]byte, 0, min(n, MAX_CHUNK))
	for len(buf) < n {
		k := min(n-len(buf), MAX_CHUNK)
		start := len(buf)
		buf = append(buf, make([]byte, k)...)
		if !r.readFull(buf[start:]) {
			return nil
		}
	}
	return buf
}

// ReadBytesTo fills dest exactly.
func (r *Reader) ReadBytesTo(dest []byte) {
	if len(dest) == 0 {
		return
	}
	r.readFull(dest)
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool(dest *bool) {
	var b uint8
	r.ReadUint8(&b)
	if r.err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadByte() (byte, error) {
	var b uint8
	r.ReadUint8(&b)
	return b, r.err
}

func (r *Reader) ReadUint8(dest *uint8) {
	if r.err != nil {
		return
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
		*dest = b
	} else {
		r.err = readError(err)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	var buf [2]byte
	if r.readFull(buf[:]) {
		*dest = r.order.Uint16(buf[:])
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	var buf [4]byte
	if r.readFull(buf[:]) {
		*dest = r.order.Uint32(buf[:])
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	var buf [8]byte
	if r.readFull(buf[:]) {
		*dest = r.order.Uint64(buf[:])
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	var v uint8
	r.ReadUint8(&v)
	if r.err == nil {
		*dest = int8(v)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	var v uint16
	r.ReadUint16(&v)
	if r.err == nil {
		*dest = int16(v)
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	var v uint32
	r.ReadUint32(&v)
	if r.err == nil {
		*dest = int32(v)
	}
}

func (r *Reader) ReadInt64(dest *int64) {
	var v uint64
	r.ReadUint64(&v)
	if r.err == nil {
		*dest = int64(v)
	}
}

func (r *Reader) ReadFloat32(dest *float32) {
	var v uint32
	r.ReadUint32(&v)
	if r.err == nil {
		*dest = math.Float32frombits(v)
	}
}

func (r *Reader) ReadFloat64(dest *float64) {
	var v uint64
	r.ReadUint64(&v)
	if r.err == nil {
		*dest = math.Float64frombits(v)
	}
}

func (r *Reader) ReadChar(dest *Char) {
	var v uint16
	r.ReadUint16(&v)
	if r.err == nil {
		*dest = Char(v)
	}
}

func (r *Reader) ReadCurrency(dest *Currency) {
	var v int64
	r.ReadInt64(&v)
	if r.err == nil {
		*dest = Currency(v)
	}
}

func (r *Reader) ReadDuration(dest *time.Duration) {
	var v int64
	r.ReadInt64(&v)
	if r.err == nil {
		*dest = time.Duration(v)
	}
}

func (r *Reader) ReadDateTime(dest *DateTime) {
	var v int64
	r.ReadInt64(&v)
	if r.err == nil {
		*dest = DateTime(v)
	}
}

func (r *Reader) ReadGuid(dest *uuid.UUID) {
	var buf [16]byte
	if r.readFull(buf[:]) {
		*dest = getScalar[uuid.UUID](r.order, buf[:])
	}
}

// ReadUvarint reads a 7-bit encoded variable-length integer.
func (r *Reader) ReadUvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := ReadUvarint(r)
	r.setError(err)
	return v
}

// ReadSize reads a length or element count using the configured size policy.
func (r *Reader) ReadSize() int {
	if r.err != nil {
		return 0
	}
	if r.cfg.Size == VarIntSize {
		v, err := ReadUvarint32(r)
		r.setError(err)
		return int(v)
	}
	var v uint32
	r.ReadUint32(&v)
	return int(v)
}

// ReadSizedString reads a size field followed by that many UTF-8 bytes.
func (r *Reader) ReadSizedString(dest *string) {
	n := r.ReadSize()
	if r.err != nil {
		return
	}
	switch {
	case n == 0:
		*dest = ""
	case n <= STAGE_SIZE:
		buf := r.staging()[:n]
		if r.ReadBytesTo(buf); r.err == nil {
			*dest = string(buf)
		}
	default:
		if b := r.ReadBytes(n); r.err == nil {
			*dest = string(b)
		}
	}
}

// ReadUTF16 reads a byte-length size field followed by 2-byte code units.
// An odd byte length is a FormatError.
func (r *Reader) ReadUTF16(dest *[]uint16) {
	n := r.ReadSize()
	if r.err != nil {
		return
	}
	if n%2 != 0 {
		r.setError(&FormatError{Expected: "UTF-16 string", Detail: "odd byte length"})
		return
	}
	if units := ReadRaw[uint16](r, n/2); r.err == nil {
		*dest = units
	}
}
