// Package wire implements the byte-exact primitive codec used by the
// Kafka wire protocol: fixed-width big-endian integers, varints,
// compact strings/arrays, UUIDs, and tagged-field buffers.
package wire

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Reader is a cursor over an in-memory request or log buffer.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, ErrEndOfBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// PeekByte returns the byte at the given offset from the read cursor
// without consuming it. delta=0 peeks the next byte to be read.
func (r *Reader) PeekByte(delta int) (byte, error) {
	i := r.off + delta
	if i < 0 || i >= len(r.buf) {
		return 0, ErrEndOfBuffer
	}
	return r.buf[i], nil
}

func (r *Reader) Int8() (int8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int16() (int16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (r *Reader) Int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) Int64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// UUID reads a 16-byte UUID (big-endian / RFC 4122 byte order).
func (r *Reader) UUID() (uuid.UUID, error) {
	b, err := r.take(16)
	if err != nil {
		return uuid.Nil, err
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// Bytes consumes and returns n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.take(n)
}

// Uvarint reads an unsigned base-128 little-endian varint, 7 bits per
// byte, high bit set as the continuation flag. At most ten bytes are
// consumed for a 64-bit value.
func (r *Reader) Uvarint() (uint64, error) {
	var value uint64
	var shift uint
	for i := 0; i < 10; i++ {
		b, err := r.take(1)
		if err != nil {
			return 0, err
		}
		value |= uint64(b[0]&0x7F) << shift
		if b[0]&0x80 == 0 {
			return value, nil
		}
		shift += 7
	}
	return 0, ErrMalformedVarint
}

// Svarint reads a zig-zag encoded signed varint.
func (r *Reader) Svarint() (int64, error) {
	u, err := r.Uvarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// CompactString reads a UVARINT length_plus_one followed by
// length_plus_one-1 bytes. A length byte of zero means null; invalid
// UTF-8 is replaced lossily rather than rejected.
func (r *Reader) CompactString() (*string, error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, err := r.take(int(n - 1))
	if err != nil {
		return nil, err
	}
	s := toValidUTF8(b)
	return &s, nil
}

// CompactBytes reads a UVARINT length_plus_one followed by
// length_plus_one-1 raw bytes, the encoding Fetch uses for a
// partition's record-batch payload. A length byte of zero means null.
func (r *Reader) CompactBytes() ([]byte, error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.take(int(n - 1))
}

// NullableString reads the legacy (non-compact) header string: an
// INT16 length followed by that many UTF-8 bytes; length -1 is null.
func (r *Reader) NullableString() (*string, error) {
	n, err := r.Int16()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// CompactArrayLen reads the UVARINT count+1 prefix shared by every
// compact array. ok is false when the array is null (count byte 0).
func (r *Reader) CompactArrayLen() (n int, ok bool, err error) {
	u, err := r.Uvarint()
	if err != nil {
		return 0, false, err
	}
	if u == 0 {
		return 0, false, nil
	}
	return int(u - 1), true, nil
}

// TagBuffer reads a tagged-field buffer: a UVARINT count followed by
// that many (tag, length, payload) triples. This decoder skips every
// field's payload; unrecognized tags are silently discarded.
func (r *Reader) TagBuffer() error {
	n, err := r.Uvarint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if _, err := r.Uvarint(); err != nil { // tag
			return err
		}
		length, err := r.Uvarint()
		if err != nil {
			return err
		}
		if _, err := r.take(int(length)); err != nil {
			return err
		}
	}
	return nil
}

func toValidUTF8(b []byte) string {
	s := string(b)
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
