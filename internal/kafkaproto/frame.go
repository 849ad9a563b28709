package kafkaproto

import (
	"encoding/binary"
	"io"
)

// ReadFrame reads one length-prefixed Kafka request: an INT32
// message_size followed by exactly that many bytes. It consumes
// exactly size+4 bytes off r, matching the wire contract regardless of
// whether the body turns out to be well-formed.
func ReadFrame(r io.Reader) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := int32(binary.BigEndian.Uint32(sizeBuf[:]))
	if size <= 0 {
		return nil, ErrInvalidFrameSize
	}
	if size > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteFrame writes a length-prefixed response: an INT32 message_size
// followed by body.
func WriteFrame(w io.Writer, body []byte) error {
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(body)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}
