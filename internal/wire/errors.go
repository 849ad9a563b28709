package wire

import "errors"

var (
	// ErrEndOfBuffer is returned when a decode reads past the end of the buffer.
	ErrEndOfBuffer = errors.New("wire: end of buffer")

	// ErrMalformedVarint is returned when a varint exceeds ten continuation bytes.
	ErrMalformedVarint = errors.New("wire: malformed varint")
)
