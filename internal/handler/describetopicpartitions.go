package handler

import (
	"github.com/google/uuid"

	"kraftbroker/internal/kraft"
	"kraftbroker/internal/wire"
)

const (
	errUnknownTopicOrPartition = 3

	// describeTopicPartitionsOperations is the ACL operations bitmap
	// this broker reports for every topic it describes. It grants
	// every bit DescribeTopicPartitions' authorized-operations schema
	// defines, since this broker implements no ACL layer of its own.
	describeTopicPartitionsOperations = 0x0DF8
)

type describeTopicPartitionsRequest struct {
	TopicNames             []string
	ResponsePartitionLimit int32
}

func decodeDescribeTopicPartitionsRequest(r *wire.Reader) (describeTopicPartitionsRequest, error) {
	var req describeTopicPartitionsRequest

	names, _, err := wire.DecodeCompactArray(r, decodeTopicRequestName)
	if err != nil {
		return req, err
	}
	req.TopicNames = names

	if req.ResponsePartitionLimit, err = r.Int32(); err != nil {
		return req, err
	}

	// Cursor: a single INT8, -1 (0xFF) when absent. This broker never
	// paginates, so a present cursor is read only to keep the decoder
	// aligned, never acted on.
	if _, err := r.Int8(); err != nil {
		return req, err
	}

	if err := r.TagBuffer(); err != nil {
		return req, err
	}

	return req, nil
}

func decodeTopicRequestName(r *wire.Reader) (string, error) {
	name, err := r.CompactString()
	if err != nil {
		return "", err
	}
	if err := r.TagBuffer(); err != nil {
		return "", err
	}
	if name == nil {
		return "", nil
	}
	return *name, nil
}

// DescribeTopicPartitions answers a client's request to enumerate
// partitions for the named topics, looking each one up in the
// metadata log snapshot. This broker never paginates, so next_cursor
// is always the null marker.
func DescribeTopicPartitions(snapshot kraft.Snapshot, reqBody []byte, w *wire.Writer) error {
	req, err := decodeDescribeTopicPartitionsRequest(wire.NewReader(reqBody))
	if err != nil {
		return err
	}

	w.Int32(0) // throttle_time_ms
	wire.EncodeCompactArray(w, req.TopicNames, func(w *wire.Writer, name string) {
		encodeTopicDescription(w, snapshot, name)
	})
	w.Uint8(0xFF) // next_cursor: null
	w.TagBuffer()

	return nil
}

func encodeTopicDescription(w *wire.Writer, snapshot kraft.Snapshot, name string) {
	topic, found := snapshot.TopicByName(name)
	if !found {
		w.Int16(errUnknownTopicOrPartition)
		nameCopy := name
		w.CompactString(&nameCopy)
		w.UUID(uuid.Nil)
		w.Int8(0) // is_internal
		wire.EncodeCompactArray[kraft.PartitionRecord](w, nil, nil)
		w.Int32(0) // topic_authorized_operations
		w.TagBuffer()
		return
	}

	w.Int16(0)
	nameCopy := topic.Name
	w.CompactString(&nameCopy)
	w.UUID(topic.UUID)
	w.Int8(0) // is_internal

	partitions := snapshot.PartitionsOf(topic.UUID)
	wire.EncodeCompactArray(w, partitions, encodePartitionDescription)

	w.Int32(describeTopicPartitionsOperations)
	w.TagBuffer()
}

func encodePartitionDescription(w *wire.Writer, p kraft.PartitionRecord) {
	w.Int16(0) // error_code
	w.Int32(p.PartitionID)
	w.Int32(p.LeaderID)
	w.Int32(p.LeaderEpoch)
	wire.EncodeCompactArray(w, p.Replicas, wire.EncodeInt32)
	wire.EncodeCompactArray(w, p.ISR, wire.EncodeInt32)
	wire.EncodeCompactArray(w, []int32{}, wire.EncodeInt32) // eligible_leader_replicas
	wire.EncodeCompactArray(w, []int32{}, wire.EncodeInt32) // last_known_elr
	wire.EncodeCompactArray(w, []int32{}, wire.EncodeInt32) // offline_replicas
	w.TagBuffer()
}
