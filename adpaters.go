package codec

import (
	"bufio"
	"bytes"
	"io"
)

type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
	bufioWriterAdapter       struct{ *bufio.Writer }
	bufioReaderAdapter       struct{ *bufio.Reader }

	// streamReaderAdapter reads straight from the collaborator without read-ahead,
	// so the stream position never runs past the last decoded field.
	streamReaderAdapter struct {
		r   io.Reader
		one [1]byte
	}
	// streamWriterAdapter writes straight through; there is nothing to flush.
	streamWriterAdapter struct {
		w   io.Writer
		one [1]byte
	}
)

func (r *bytesReaderAdapter) Close() error       { return nil }
func (r *bufioReaderAdapter) Close() error       { return nil }
func (w *bufioWriterAdapter) Close() error       { return nil }
func (r *bytesBufferReaderAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }
func (r *bytesBufferReaderAdapter) Size() int    { return r.Len() }
func (r *bytesReaderAdapter) Size() int          { return int(r.Reader.Size()) }

// Read rejects counts outside [0, len(p)] with ErrInvalidRead.
func (s *streamReaderAdapter) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n < 0 || n > len(p) {
		return 0, ErrInvalidRead
	}
	return n, err
}

func (s *streamReaderAdapter) Size() int { return 0 }

// ReadByte reads exactly one byte, retrying short reads that return no data.
func (s *streamReaderAdapter) ReadByte() (byte, error) {
	if _, err := io.ReadFull(s, s.one[:]); err != nil {
		return 0, err
	}
	return s.one[0], nil
}

// Close closes the underlying reader if it implements io.Closer.
func (s *streamReaderAdapter) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Write reports io.ErrShortWrite when the collaborator accepts fewer bytes
// than offered without saying why.
func (s *streamWriterAdapter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if n < 0 || n > len(p) {
		return 0, ErrInvalidWrite
	}
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (s *streamWriterAdapter) WriteByte(c byte) error {
	s.one[0] = c
	_, err := s.Write(s.one[:])
	return err
}

func (s *streamWriterAdapter) WriteString(str string) (int, error) {
	if sw, ok := s.w.(io.StringWriter); ok {
		n, err := sw.WriteString(str)
		if err == nil && n < len(str) {
			err = io.ErrShortWrite
		}
		return n, err
	}
	return s.Write([]byte(str))
}

func (s *streamWriterAdapter) Flush() error { return nil }
func (s *streamWriterAdapter) Size() int    { return 0 }

// Close closes the underlying writer if it implements io.Closer.
func (s *streamWriterAdapter) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
