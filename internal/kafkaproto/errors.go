package kafkaproto

import "errors"

var (
	ErrInvalidFrameSize = errors.New("kafkaproto: invalid frame size")
	ErrFrameTooLarge    = errors.New("kafkaproto: frame exceeds maximum size")
)

// MaxFrameSize bounds how large a single request frame may declare
// itself to be, guarding against a hostile or malformed length prefix.
const MaxFrameSize = 100 * 1024 * 1024
