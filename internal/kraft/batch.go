package kraft

import (
	"hash/crc32"

	"kraftbroker/internal/wire"
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// RecordBatch is one KRaft log record batch (Kafka RecordBatch v2).
type RecordBatch struct {
	BaseOffset           int64
	BatchLength          int32
	PartitionLeaderEpoch int32
	Magic                int8
	CRC                  uint32
	Attributes           int16
	LastOffsetDelta      int32
	BaseTimestamp        int64
	MaxTimestamp         int64
	ProducerID           int64
	ProducerEpoch        int16
	BaseSequence         int32
	Records              []Record
}

// DecodeLog parses a concatenation of record batches until the buffer
// is exhausted. Empty input yields zero batches.
func DecodeLog(data []byte) ([]RecordBatch, error) {
	r := wire.NewReader(data)
	var batches []RecordBatch
	for r.Remaining() > 0 {
		batch, err := decodeBatch(r)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// decodeBatch reads the fixed header, then records_count records, and
// verifies the decoder lands exactly on the declared end-of-batch
// offset. The CRC is retained, not validated, on read — only a
// re-encode is checked against it.
func decodeBatch(r *wire.Reader) (RecordBatch, error) {
	var b RecordBatch

	startOffset := r.Offset()

	var err error
	if b.BaseOffset, err = r.Int64(); err != nil {
		return b, err
	}
	if b.BatchLength, err = r.Int32(); err != nil {
		return b, err
	}

	expectedEnd := startOffset + 12 + int(b.BatchLength)
	if expectedEnd > startOffset+12+r.Remaining() {
		return b, ErrShortBatch
	}

	if b.PartitionLeaderEpoch, err = r.Int32(); err != nil {
		return b, err
	}
	if b.Magic, err = r.Int8(); err != nil {
		return b, err
	}
	crc, err := r.Int32()
	if err != nil {
		return b, err
	}
	b.CRC = uint32(crc)
	if b.Attributes, err = r.Int16(); err != nil {
		return b, err
	}
	if b.LastOffsetDelta, err = r.Int32(); err != nil {
		return b, err
	}
	if b.BaseTimestamp, err = r.Int64(); err != nil {
		return b, err
	}
	if b.MaxTimestamp, err = r.Int64(); err != nil {
		return b, err
	}
	if b.ProducerID, err = r.Int64(); err != nil {
		return b, err
	}
	producerEpoch, err := r.Int16()
	if err != nil {
		return b, err
	}
	b.ProducerEpoch = producerEpoch
	if b.BaseSequence, err = r.Int32(); err != nil {
		return b, err
	}
	recordsCount, err := r.Int32()
	if err != nil {
		return b, err
	}

	b.Records = make([]Record, 0, recordsCount)
	for i := int32(0); i < recordsCount; i++ {
		rec, err := decodeRecord(r)
		if err != nil {
			return b, err
		}
		b.Records = append(b.Records, rec)
	}

	if r.Offset() != expectedEnd {
		return b, ErrBatchMisaligned
	}

	return b, nil
}

// EncodeBatch re-encodes a batch, backfilling batch_length and CRC32C
// after the body is written. Re-encoding a batch decoded with only
// recognized record types is byte-identical to the source bytes,
// including the CRC field.
func EncodeBatch(b RecordBatch, w *wire.Writer) {
	w.Int64(b.BaseOffset)
	batchLengthOffset := w.ReserveInt32()
	w.Int32(b.PartitionLeaderEpoch)
	w.Int8(b.Magic)
	crcOffset := w.ReserveInt32()

	crcStart := w.Len()
	w.Int16(b.Attributes)
	w.Int32(b.LastOffsetDelta)
	w.Int64(b.BaseTimestamp)
	w.Int64(b.MaxTimestamp)
	w.Int64(b.ProducerID)
	w.Int16(b.ProducerEpoch)
	w.Int32(b.BaseSequence)
	w.Int32(int32(len(b.Records)))
	for _, rec := range b.Records {
		rec.encode(w)
	}

	crc := crc32.Checksum(w.Bytes()[crcStart:], castagnoliTable)
	w.PatchInt32(crcOffset, int32(crc))

	batchLength := int32(w.Len() - batchLengthOffset - 4)
	w.PatchInt32(batchLengthOffset, batchLength)
}

// EncodeLog re-encodes a sequence of batches back-to-back.
func EncodeLog(batches []RecordBatch) []byte {
	w := wire.NewWriter()
	for _, b := range batches {
		EncodeBatch(b, w)
	}
	return w.Bytes()
}
