package kraft

import "kraftbroker/internal/wire"

// Record is a single entry inside a RecordBatch's record set.
type Record struct {
	Attributes     int8
	TimestampDelta int64
	OffsetDelta    int64
	KeyLength      int64 // preserved as decoded: -1 null, 0 empty-but-present, >0 length
	Key            []byte
	Value          Value
	HeadersCount   int8
}

// decodeRecord reads one record's framing, then dispatches on the
// value's record_type to the corresponding typed decoder (or RawBytes
// for anything unrecognized).
func decodeRecord(r *wire.Reader) (Record, error) {
	var rec Record

	if _, err := r.Svarint(); err != nil { // length; recomputed on encode
		return rec, err
	}

	var err error
	if rec.Attributes, err = r.Int8(); err != nil {
		return rec, err
	}
	if rec.TimestampDelta, err = r.Svarint(); err != nil {
		return rec, err
	}
	if rec.OffsetDelta, err = r.Svarint(); err != nil {
		return rec, err
	}

	keyLen, err := r.Svarint()
	if err != nil {
		return rec, err
	}
	rec.KeyLength = keyLen
	if keyLen > 0 {
		var raw []byte
		if raw, err = r.Bytes(int(keyLen)); err != nil {
			return rec, err
		}
		rec.Key = append([]byte(nil), raw...)
	}

	valueLen, err := r.Svarint()
	if err != nil {
		return rec, err
	}
	rec.Value, err = decodeValue(r, int(valueLen))
	if err != nil {
		return rec, err
	}

	if rec.HeadersCount, err = r.Int8(); err != nil {
		return rec, err
	}

	return rec, nil
}

// encode writes the record, computing its own length prefix by
// encoding the body first.
func (rec Record) encode(w *wire.Writer) {
	body := wire.NewWriter()
	body.Int8(rec.Attributes)
	body.Svarint(rec.TimestampDelta)
	body.Svarint(rec.OffsetDelta)

	body.Svarint(rec.KeyLength)
	if rec.KeyLength > 0 {
		body.WriteRaw(rec.Key)
	}

	valueBody := wire.NewWriter()
	rec.Value.encode(valueBody)
	body.Svarint(int64(valueBody.Len()))
	body.WriteRaw(valueBody.Bytes())

	body.Int8(rec.HeadersCount)

	w.Svarint(int64(body.Len()))
	w.WriteRaw(body.Bytes())
}
