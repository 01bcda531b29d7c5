package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
)

type WriterPro interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
	io.Closer
	Size() int
	Flush() error
}

// Writer encodes primitive values onto a stream according to a Config.
// It tracks the first error that occurs; after an error, all subsequent
// write operations become no-ops.
type Writer struct {
	w     WriterPro
	count int64 // total bytes written
	err   error // first error encountered. Subsequent writes become no-ops.
	depth int
	cfg   Config
	order binary.ByteOrder
	stage []byte // lazily allocated, STAGE_SIZE bytes
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer. A positive size buffers output through a
// bufio.Writer of that size, which the caller must Flush; size 0 writes through.
// It returns an error to prevent double-buffering, a common source of bugs.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Reuse the underlying stream if it's already a Writer.
	case *Writer:
		if bw.w.Size() >= size {
			return newWriter(bw.w, bw.depth+1, bw.cfg), nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return newWriter(&bufioWriterAdapter{bw}, 1, DefaultConfig), nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesWriter:
		return newWriter(bw, 0, DefaultConfig), nil
	case *bytes.Buffer:
		return newWriter(&bytesBufferWriterAdapter{bw}, 0, DefaultConfig), nil
	}

	if size <= 0 {
		return newWriter(&streamWriterAdapter{w: w}, 0, DefaultConfig), nil
	}
	return newWriter(&bufioWriterAdapter{bufio.NewWriterSize(w, size)}, 0, DefaultConfig), nil
}

// NewWriter creates a new unbuffered Writer.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

func newWriter(w WriterPro, depth int, cfg Config) *Writer {
	return &Writer{w: w, depth: depth, cfg: cfg, order: cfg.ByteOrder.Order()}
}

// WithConfig sets the byte-order and size-field policies and returns
// the Writer for chaining.
func (w *Writer) WithConfig(cfg Config) *Writer {
	w.cfg = cfg
	w.order = cfg.ByteOrder.Order()
	return w
}

func (w *Writer) Config() Config { return w.cfg }

// Close closes the underlying writer if it implements io.Closer.
func (w *Writer) Close() error {
	return w.w.Close()
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface. It writes the raw bytes
// of str with no size field; see WriteSizedString for the length-prefixed form.
func (w *Writer) WriteString(str string) (int, error) {
	if str == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(str)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// To prevent nested writers from flushing the buffer prematurely.
	// Only the outermost writer should be responsible for the final flush.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteBytes writes a byte slice verbatim.
func (w *Writer) WriteBytes(buf []byte) {
	if buf == nil || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

func (w *Writer) staging() []byte {
	if w.stage == nil {
		w.stage = make([]byte, STAGE_SIZE)
	}
	return w.stage
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	w.WriteUint8(v)
	return w.err
}

func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt8(v int8)       { w.WriteUint8(uint8(v)) }
func (w *Writer) WriteInt16(v int16)     { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteInt32(v int32)     { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteInt64(v int64)     { w.WriteUint64(uint64(v)) }
func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

func (w *Writer) WriteChar(v Char)              { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteCurrency(v Currency)      { w.WriteInt64(int64(v)) }
func (w *Writer) WriteDuration(v time.Duration) { w.WriteInt64(int64(v)) }
func (w *Writer) WriteDateTime(v DateTime)      { w.WriteInt64(int64(v)) }

// WriteGuid writes the 16 identifier bytes, reversed under network order.
func (w *Writer) WriteGuid(v uuid.UUID) {
	if w.err != nil {
		return
	}
	var buf [16]byte
	putScalar(w.order, buf[:], v)
	_, _ = w.Write(buf[:])
}

// WriteUvarint writes v as a 7-bit encoded variable-length integer.
func (w *Writer) WriteUvarint(v uint64) {
	if w.err != nil {
		return
	}
	var buf [MaxVarintLen]byte
	n := PutUvarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}

// WriteSize writes a length or element count using the configured size policy.
func (w *Writer) WriteSize(n int) {
	if w.err != nil {
		return
	}
	if n < 0 || uint64(n) > math.MaxUint32 {
		w.setError(fmt.Errorf("%w: size %d does not fit a 32-bit size field", ErrArgument, n))
		return
	}
	if w.cfg.Size == VarIntSize {
		w.WriteUvarint(uint64(n))
	} else {
		w.WriteUint32(uint32(n))
	}
}

// WriteSizedString writes the byte length of s as a size field, then its UTF-8 bytes.
func (w *Writer) WriteSizedString(s string) {
	w.WriteSize(len(s))
	_, _ = w.WriteString(s)
}

// WriteUTF16 writes the byte length of units as a size field, then each
// 2-byte code unit in the configured byte order.
func (w *Writer) WriteUTF16(units []uint16) {
	w.WriteSize(2 * len(units))
	WriteRaw(w, units)
}
