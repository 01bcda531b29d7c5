package codec

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("codec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("codec: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("codec: reader or writer is already buffered")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative or outbound) count from Write.
	ErrInvalidWrite = errors.New("codec: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("codec: reader returned invalid count from Read")

	// ErrInvalidPolicy indicates an unknown byte-order or size-field policy name or value.
	ErrInvalidPolicy = errors.New("codec: unknown policy")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when bytes remain
	// after the value has been decoded.
	ErrTrailingData = errors.New("codec: trailing data found after decoding")

	// ErrFormat is the sentinel matched by every FormatError.
	ErrFormat = errors.New("codec: invalid data format")

	// ErrEndOfStream indicates the stream returned fewer bytes than the current field requires.
	// It is always joined with io.EOF (the stream ended cleanly before the first byte of a
	// unit) or io.ErrUnexpectedEOF (it ended inside a unit).
	ErrEndOfStream = errors.New("codec: end of stream")

	// ErrArgument is the sentinel matched by every ArgumentError.
	ErrArgument = errors.New("codec: invalid argument")
)

var (
	errCleanEnd      = fmt.Errorf("%w: %w", ErrEndOfStream, io.EOF)
	errUnexpectedEnd = fmt.Errorf("%w: %w", ErrEndOfStream, io.ErrUnexpectedEOF)
)

// FormatError reports a discriminator byte that does not belong to the family being
// decoded, or a malformed size field.
type FormatError struct {
	Expected string // family or field being decoded
	Tag      byte   // offending discriminator; meaningful when Name is set
	Name     string // symbolic name of Tag
	Detail   string
}

func (e *FormatError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("codec: invalid data type %s (0x%02X) while reading %s", e.Name, e.Tag, e.Expected)
	}
	return fmt.Sprintf("codec: %s while reading %s", e.Detail, e.Expected)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ArgumentError reports a fixed-capacity destination whose length does not match
// the decoded element count.
type ArgumentError struct {
	Name     string
	Expected int // destination capacity
	Actual   int // decoded count
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("codec: invalid argument size: %d, expected: %d, while reading %s", e.Actual, e.Expected, e.Name)
}

func (e *ArgumentError) Unwrap() error { return ErrArgument }

// readError maps stream exhaustion onto ErrEndOfStream and passes other failures through.
func readError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEndOfStream):
		return err
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		return errUnexpectedEnd
	}
	return err
}
