package codec

import "io"

// LimitedReader stops after N bytes, reporting io.EOF as if the stream ended
// there. Decoding through it treats a unit cut by the limit as truncated.
type LimitedReader struct {
	*io.LimitedReader
}

// LimitReader returns a Reader over at most n bytes of r.
func LimitReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{&io.LimitedReader{R: r, N: n}}
}

// Close closes the underlying reader if it implements io.Closer.
func (r *LimitedReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Remaining returns how many bytes may still be read.
func (r *LimitedReader) Remaining() int64 { return r.N }
