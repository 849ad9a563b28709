package wire

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Writer accumulates an encoded response or re-encoded log batch.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) Int8(v int8) {
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Int16(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) UUID(u uuid.UUID) {
	w.buf = append(w.buf, u[:]...)
}

// Uvarint emits ceil(bits_needed(v)/7) bytes, at least one; v=0 emits
// a single 0x00 byte.
func (w *Writer) Uvarint(v uint64) {
	for v > 0x7F {
		w.buf = append(w.buf, byte(v&0x7F)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

// Svarint zig-zag encodes a signed value and writes it as a Uvarint.
func (w *Writer) Svarint(v int64) {
	w.Uvarint(uint64(v<<1) ^ uint64(v>>63))
}

// CompactString writes length+1 as a Uvarint followed by the raw
// UTF-8 bytes. A nil pointer encodes as null (0x00).
func (w *Writer) CompactString(s *string) {
	if s == nil {
		w.Uvarint(0)
		return
	}
	w.Uvarint(uint64(len(*s)) + 1)
	w.buf = append(w.buf, *s...)
}

// NullableString writes the legacy (non-compact) request-header
// client_id encoding: an INT16 length followed by the raw bytes, or
// -1 for nil.
func (w *Writer) NullableString(s *string) {
	if s == nil {
		w.Int16(-1)
		return
	}
	w.Int16(int16(len(*s)))
	w.buf = append(w.buf, *s...)
}

// CompactBytes writes length+1 as a Uvarint followed by the raw
// bytes. A nil slice encodes as null (0x00), distinguishing "no
// records" from "zero-length records".
func (w *Writer) CompactBytes(b []byte) {
	if b == nil {
		w.Uvarint(0)
		return
	}
	w.Uvarint(uint64(len(b)) + 1)
	w.buf = append(w.buf, b...)
}

// CompactArrayLen writes the count+1 prefix shared by every compact
// array. A null array is signaled by passing ok=false.
func (w *Writer) CompactArrayLen(n int, ok bool) {
	if !ok {
		w.Uvarint(0)
		return
	}
	w.Uvarint(uint64(n) + 1)
}

// TagBuffer always emits a single empty tag buffer (0x00): this
// implementation never produces tagged fields of its own.
func (w *Writer) TagBuffer() {
	w.Uvarint(0)
}

// ReserveInt32 appends a zero-valued placeholder and returns its
// offset so the caller can backfill it once the final value (a
// length or a CRC) is known.
func (w *Writer) ReserveInt32() int {
	off := len(w.buf)
	w.Int32(0)
	return off
}

func (w *Writer) PatchInt32(offset int, v int32) {
	binary.BigEndian.PutUint32(w.buf[offset:offset+4], uint32(v))
}
