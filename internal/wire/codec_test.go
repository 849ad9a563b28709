package wire

import (
	"math"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 127, 128, 16384, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		w := NewWriter()
		w.Uvarint(v)
		got, err := NewReader(w.Bytes()).Uvarint()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("uvarint round trip: got %d, want %d", got, v)
		}
	}
}

func TestUvarintBoundaryEncodings(t *testing.T) {
	w := NewWriter()
	w.Uvarint(0x7F)
	if got := w.Bytes(); len(got) != 1 || got[0] != 0x7F {
		t.Fatalf("0x7F should encode to one byte, got %x", got)
	}

	w = NewWriter()
	w.Uvarint(0x80)
	want := []byte{0x80, 0x01}
	got := w.Bytes()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("0x80 should encode to %x, got %x", want, got)
	}
}

func TestUvarintMalformed(t *testing.T) {
	malformed := make([]byte, 11)
	for i := range malformed {
		malformed[i] = 0x80
	}
	_, err := NewReader(malformed).Uvarint()
	if err != ErrMalformedVarint {
		t.Fatalf("expected ErrMalformedVarint, got %v", err)
	}
}

func TestSvarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, math.MinInt64, math.MaxInt64, -12345678, 12345678}
	for _, v := range values {
		w := NewWriter()
		w.Svarint(v)
		got, err := NewReader(w.Bytes()).Svarint()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("svarint round trip: got %d, want %d", got, v)
		}
	}
}

func TestCompactStringNull(t *testing.T) {
	r := NewReader([]byte{0x00})
	s, err := r.CompactString()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatalf("expected null string, got %q", *s)
	}

	w := NewWriter()
	w.CompactString(nil)
	if got := w.Bytes(); len(got) != 1 || got[0] != 0x00 {
		t.Fatalf("encoding null should produce 0x00, got %x", got)
	}
}

func TestCompactStringRoundTrip(t *testing.T) {
	values := []string{"", "foo", "bar-baz", "unicode: éè"}
	for _, v := range values {
		w := NewWriter()
		w.CompactString(&v)
		got, err := NewReader(w.Bytes()).CompactString()
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || *got != v {
			t.Fatalf("compact string round trip: got %v, want %q", got, v)
		}
	}
}

func TestCompactStringInvalidUTF8IsLossy(t *testing.T) {
	// length_plus_one = 3 (two raw bytes), both invalid UTF-8 lead bytes.
	raw := []byte{0x03, 0xFF, 0xFE}
	s, err := NewReader(raw).CompactString()
	if err != nil {
		t.Fatalf("invalid utf-8 must not fail decode: %v", err)
	}
	if s == nil {
		t.Fatal("expected a non-null replacement string")
	}
}

func TestCompactArrayLenBoundaries(t *testing.T) {
	n, ok, err := NewReader([]byte{0x00}).CompactArrayLen()
	if err != nil || ok || n != 0 {
		t.Fatalf("0x00 should decode to null array, got n=%d ok=%v err=%v", n, ok, err)
	}

	n, ok, err = NewReader([]byte{0x01}).CompactArrayLen()
	if err != nil || !ok || n != 0 {
		t.Fatalf("0x01 should decode to empty non-null array, got n=%d ok=%v err=%v", n, ok, err)
	}
}

func TestCompactArrayRoundTrip(t *testing.T) {
	items := []int32{1, 2, 3, -7}
	w := NewWriter()
	EncodeCompactArray(w, items, EncodeInt32)

	got, ok, err := DecodeCompactArray(NewReader(w.Bytes()), DecodeInt32)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(got) != len(items) {
		t.Fatalf("got %v, want %v", got, items)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], items[i])
		}
	}
}

func TestNullableStringRoundTrip(t *testing.T) {
	s := "my-client"
	w := NewWriter()
	w.NullableString(&s)
	got, err := NewReader(w.Bytes()).NullableString()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != s {
		t.Fatalf("got %v, want %q", got, s)
	}
}

func TestNullableStringNull(t *testing.T) {
	w := NewWriter()
	w.NullableString(nil)
	got, err := NewReader(w.Bytes()).NullableString()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
}

func TestCompactBytesRoundTrip(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	w := NewWriter()
	w.CompactBytes(data)
	got, err := NewReader(w.Bytes()).CompactBytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Fatalf("got %x, want %x", got, data)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("got %x, want %x", got, data)
		}
	}
}

func TestCompactBytesNull(t *testing.T) {
	w := NewWriter()
	w.CompactBytes(nil)
	if got := w.Bytes(); len(got) != 1 || got[0] != 0x00 {
		t.Fatalf("nil compact bytes should encode as 0x00, got %x", got)
	}
	got, err := NewReader([]byte{0x00}).CompactBytes()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %x", got)
	}
}

func TestTagBufferEmptyEncodesOneZeroByte(t *testing.T) {
	w := NewWriter()
	w.TagBuffer()
	if got := w.Bytes(); len(got) != 1 || got[0] != 0x00 {
		t.Fatalf("empty tag buffer must encode as single 0x00 byte, got %x", got)
	}
}

func TestTagBufferSkipsUnknownFields(t *testing.T) {
	w := NewWriter()
	w.Uvarint(2) // two tagged fields
	w.Uvarint(5) // tag
	w.Uvarint(3) // length
	w.WriteRaw([]byte{1, 2, 3})
	w.Uvarint(9) // tag
	w.Uvarint(1) // length
	w.WriteRaw([]byte{0xAB})

	r := NewReader(w.Bytes())
	if err := r.TagBuffer(); err != nil {
		t.Fatalf("unexpected error skipping tagged fields: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes left", r.Remaining())
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	w := NewWriter()
	var raw [16]byte
	for i := range raw {
		raw[i] = byte(i)
	}
	w.WriteRaw(raw[:])
	u, err := NewReader(w.Bytes()).UUID()
	if err != nil {
		t.Fatal(err)
	}
	if [16]byte(u) != raw {
		t.Fatalf("uuid round trip mismatch: got %x, want %x", u, raw)
	}
}

func TestFixedWidthIntegers(t *testing.T) {
	w := NewWriter()
	w.Int8(-1)
	w.Uint8(0xFF)
	w.Int16(-2)
	w.Int32(-3)
	w.Int64(-4)

	r := NewReader(w.Bytes())
	if v, _ := r.Int8(); v != -1 {
		t.Fatalf("int8: got %d", v)
	}
	if v, _ := r.Uint8(); v != 0xFF {
		t.Fatalf("uint8: got %d", v)
	}
	if v, _ := r.Int16(); v != -2 {
		t.Fatalf("int16: got %d", v)
	}
	if v, _ := r.Int32(); v != -3 {
		t.Fatalf("int32: got %d", v)
	}
	if v, _ := r.Int64(); v != -4 {
		t.Fatalf("int64: got %d", v)
	}
}

func TestEndOfBuffer(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Int32(); err != ErrEndOfBuffer {
		t.Fatalf("expected ErrEndOfBuffer, got %v", err)
	}
}
