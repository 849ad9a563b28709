package kraft

import (
	"github.com/google/uuid"

	"kraftbroker/internal/wire"
)

// Record type bytes recognized in the KRaft metadata log's tagged
// record-value union (Kafka KIP-500 metadata record schema).
const (
	recordTypeTopic        = 2
	recordTypePartition    = 3
	recordTypeFeatureLevel = 12
)

// Value is the tagged union of a Record's value payload. Anything
// this decoder doesn't model (e.g. broker registration records) comes
// back as RawBytes, preserved verbatim so re-encoding a batch that
// mixes known and unknown record kinds still round-trips byte-for-byte.
type Value interface {
	isValue()
	encode(w *wire.Writer)
}

// TopicRecord (type 2): registers a topic name against a UUID.
type TopicRecord struct {
	FrameVersion int8
	RecordType   int8
	Version      int8
	Name         string
	UUID         uuid.UUID
}

func (TopicRecord) isValue() {}

func (v TopicRecord) encode(w *wire.Writer) {
	w.Int8(v.FrameVersion)
	w.Int8(v.RecordType)
	w.Int8(v.Version)
	name := v.Name
	w.CompactString(&name)
	w.UUID(v.UUID)
	w.TagBuffer()
}

// PartitionRecord (type 3): one partition's replica assignment and leadership state.
type PartitionRecord struct {
	FrameVersion     int8
	RecordType       int8
	Version          int8
	PartitionID      int32
	TopicUUID        uuid.UUID
	Replicas         []int32
	ISR              []int32
	RemovingReplicas []int32
	AddingReplicas   []int32
	LeaderID         int32
	LeaderEpoch      int32
	PartitionEpoch   int32
	Directories      []uuid.UUID
}

func (PartitionRecord) isValue() {}

func (v PartitionRecord) encode(w *wire.Writer) {
	w.Int8(v.FrameVersion)
	w.Int8(v.RecordType)
	w.Int8(v.Version)
	w.Int32(v.PartitionID)
	w.UUID(v.TopicUUID)
	wire.EncodeCompactArray(w, v.Replicas, wire.EncodeInt32)
	wire.EncodeCompactArray(w, v.ISR, wire.EncodeInt32)
	wire.EncodeCompactArray(w, v.RemovingReplicas, wire.EncodeInt32)
	wire.EncodeCompactArray(w, v.AddingReplicas, wire.EncodeInt32)
	w.Int32(v.LeaderID)
	w.Int32(v.LeaderEpoch)
	w.Int32(v.PartitionEpoch)
	wire.EncodeCompactArray(w, v.Directories, func(w *wire.Writer, u uuid.UUID) { w.UUID(u) })
	w.TagBuffer()
}

// FeatureLevelRecord (type 12): a cluster-wide feature version gate.
type FeatureLevelRecord struct {
	FrameVersion int8
	RecordType   int8
	Version      int8
	Name         string
	FeatureLevel int16
}

func (FeatureLevelRecord) isValue() {}

func (v FeatureLevelRecord) encode(w *wire.Writer) {
	w.Int8(v.FrameVersion)
	w.Int8(v.RecordType)
	w.Int8(v.Version)
	name := v.Name
	w.CompactString(&name)
	w.Int16(v.FeatureLevel)
	w.TagBuffer()
}

// RawBytes preserves any record-value payload this decoder doesn't
// model, copied verbatim so the batch it belongs to still re-encodes
// identically.
type RawBytes struct {
	Data []byte
}

func (RawBytes) isValue() {}

func (v RawBytes) encode(w *wire.Writer) {
	w.WriteRaw(v.Data)
}

// decodeValue reads a record's value payload. record_type is the
// second byte of the payload (offset +1 from frame_version), peeked
// without consuming so the dispatch can happen before any
// type-specific field is read.
func decodeValue(r *wire.Reader, length int) (Value, error) {
	recordType, err := r.PeekByte(1)
	if err != nil {
		return nil, err
	}

	switch recordType {
	case recordTypeTopic:
		return decodeTopicRecord(r)
	case recordTypePartition:
		return decodePartitionRecord(r)
	case recordTypeFeatureLevel:
		return decodeFeatureLevelRecord(r)
	default:
		raw, err := r.Bytes(length)
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return RawBytes{Data: cp}, nil
	}
}

func decodeTopicRecord(r *wire.Reader) (TopicRecord, error) {
	var v TopicRecord
	var err error
	if v.FrameVersion, err = r.Int8(); err != nil {
		return v, err
	}
	if v.RecordType, err = r.Int8(); err != nil {
		return v, err
	}
	if v.Version, err = r.Int8(); err != nil {
		return v, err
	}
	name, err := r.CompactString()
	if err != nil {
		return v, err
	}
	if name != nil {
		v.Name = *name
	}
	if v.UUID, err = r.UUID(); err != nil {
		return v, err
	}
	if err := r.TagBuffer(); err != nil {
		return v, err
	}
	return v, nil
}

func decodePartitionRecord(r *wire.Reader) (PartitionRecord, error) {
	var v PartitionRecord
	var err error
	if v.FrameVersion, err = r.Int8(); err != nil {
		return v, err
	}
	if v.RecordType, err = r.Int8(); err != nil {
		return v, err
	}
	if v.Version, err = r.Int8(); err != nil {
		return v, err
	}
	if v.PartitionID, err = r.Int32(); err != nil {
		return v, err
	}
	if v.TopicUUID, err = r.UUID(); err != nil {
		return v, err
	}
	if v.Replicas, _, err = wire.DecodeCompactArray(r, wire.DecodeInt32); err != nil {
		return v, err
	}
	if v.ISR, _, err = wire.DecodeCompactArray(r, wire.DecodeInt32); err != nil {
		return v, err
	}
	if v.RemovingReplicas, _, err = wire.DecodeCompactArray(r, wire.DecodeInt32); err != nil {
		return v, err
	}
	if v.AddingReplicas, _, err = wire.DecodeCompactArray(r, wire.DecodeInt32); err != nil {
		return v, err
	}
	if v.LeaderID, err = r.Int32(); err != nil {
		return v, err
	}
	if v.LeaderEpoch, err = r.Int32(); err != nil {
		return v, err
	}
	if v.PartitionEpoch, err = r.Int32(); err != nil {
		return v, err
	}
	if v.Directories, _, err = wire.DecodeCompactArray(r, func(r *wire.Reader) (uuid.UUID, error) { return r.UUID() }); err != nil {
		return v, err
	}
	if err := r.TagBuffer(); err != nil {
		return v, err
	}
	return v, nil
}

func decodeFeatureLevelRecord(r *wire.Reader) (FeatureLevelRecord, error) {
	var v FeatureLevelRecord
	var err error
	if v.FrameVersion, err = r.Int8(); err != nil {
		return v, err
	}
	if v.RecordType, err = r.Int8(); err != nil {
		return v, err
	}
	if v.Version, err = r.Int8(); err != nil {
		return v, err
	}
	name, err := r.CompactString()
	if err != nil {
		return v, err
	}
	if name != nil {
		v.Name = *name
	}
	if v.FeatureLevel, err = r.Int16(); err != nil {
		return v, err
	}
	if err := r.TagBuffer(); err != nil {
		return v, err
	}
	return v, nil
}
