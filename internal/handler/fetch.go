package handler

import (
	"github.com/google/uuid"

	"kraftbroker/internal/kraft"
	"kraftbroker/internal/logdir"
	"kraftbroker/internal/wire"
)

const (
	errUnknownTopicID = 100
)

type fetchPartitionRequest struct {
	Partition int32
}

type fetchTopicRequest struct {
	TopicID    uuid.UUID
	Partitions []fetchPartitionRequest
}

type fetchRequest struct {
	Topics []fetchTopicRequest
}

// decodeFetchRequest reads only the fields this broker's full-file
// splice strategy needs: topic ids and partition indexes. Per-fetch
// offsets, max bytes, isolation level and session fields are read to
// stay aligned with the wire format but otherwise ignored — this
// broker always returns a partition's entire on-disk segment.
func decodeFetchRequest(r *wire.Reader) (fetchRequest, error) {
	var req fetchRequest

	if _, err := r.Int32(); err != nil { // max_wait_ms
		return req, err
	}
	if _, err := r.Int32(); err != nil { // min_bytes
		return req, err
	}
	if _, err := r.Int32(); err != nil { // max_bytes
		return req, err
	}
	if _, err := r.Int8(); err != nil { // isolation_level
		return req, err
	}
	if _, err := r.Int32(); err != nil { // session_id
		return req, err
	}
	if _, err := r.Int32(); err != nil { // session_epoch
		return req, err
	}

	topics, _, err := wire.DecodeCompactArray(r, decodeFetchTopicRequest)
	if err != nil {
		return req, err
	}
	req.Topics = topics

	if _, _, err := wire.DecodeCompactArray(r, decodeFetchTopicRequest); err != nil { // forgotten_topics_data
		return req, err
	}
	if _, err := r.CompactString(); err != nil { // rack_id
		return req, err
	}
	if err := r.TagBuffer(); err != nil {
		return req, err
	}

	return req, nil
}

func decodeFetchTopicRequest(r *wire.Reader) (fetchTopicRequest, error) {
	var t fetchTopicRequest
	var err error
	if t.TopicID, err = r.UUID(); err != nil {
		return t, err
	}
	t.Partitions, _, err = wire.DecodeCompactArray(r, decodeFetchPartitionRequest)
	if err != nil {
		return t, err
	}
	if err := r.TagBuffer(); err != nil {
		return t, err
	}
	return t, nil
}

func decodeFetchPartitionRequest(r *wire.Reader) (fetchPartitionRequest, error) {
	var p fetchPartitionRequest
	var err error
	if p.Partition, err = r.Int32(); err != nil {
		return p, err
	}
	if _, err := r.Int32(); err != nil { // current_leader_epoch
		return p, err
	}
	if _, err := r.Int64(); err != nil { // fetch_offset
		return p, err
	}
	if _, err := r.Int32(); err != nil { // last_fetched_epoch
		return p, err
	}
	if _, err := r.Int64(); err != nil { // log_start_offset
		return p, err
	}
	if _, err := r.Int32(); err != nil { // partition_max_bytes
		return p, err
	}
	if err := r.TagBuffer(); err != nil {
		return p, err
	}
	return p, nil
}

// Fetch answers a fetch request by splicing each requested
// topic-partition's entire on-disk log segment into the response,
// ignoring fetch offsets and byte limits: producing, retention and
// incremental fetch sessions are all Non-goals, so there is nothing to
// trim against.
func Fetch(snapshot kraft.Snapshot, dir logdir.Dir, reqBody []byte, w *wire.Writer) error {
	req, err := decodeFetchRequest(wire.NewReader(reqBody))
	if err != nil {
		return err
	}

	w.Int32(0) // throttle_time_ms
	w.Int16(0) // error_code
	w.Int32(0) // session_id

	wire.EncodeCompactArray(w, req.Topics, func(w *wire.Writer, t fetchTopicRequest) {
		encodeFetchTopicResponse(w, snapshot, dir, t)
	})
	w.TagBuffer()

	return nil
}

// encodeFetchTopicResponse answers one requested topic. An unknown
// topic id gets a single UNKNOWN_TOPIC_ID partition entry regardless of
// how many partitions were requested; a known topic answers only the
// requested partitions that actually appear in its metadata partition
// list, dropping the rest rather than inventing entries for them.
func encodeFetchTopicResponse(w *wire.Writer, snapshot kraft.Snapshot, dir logdir.Dir, t fetchTopicRequest) {
	w.UUID(t.TopicID)

	topic, found := topicByUUID(snapshot, t.TopicID)
	if !found {
		wire.EncodeCompactArray(w, []int32{0}, encodeUnknownFetchPartition)
		w.TagBuffer()
		return
	}

	requested := make(map[int32]bool, len(t.Partitions))
	for _, p := range t.Partitions {
		requested[p.Partition] = true
	}

	var matched []kraft.PartitionRecord
	for _, p := range snapshot.PartitionsOf(topic.UUID) {
		if requested[p.PartitionID] {
			matched = append(matched, p)
		}
	}

	wire.EncodeCompactArray(w, matched, func(w *wire.Writer, p kraft.PartitionRecord) {
		encodeFetchPartitionResponse(w, dir, topic.Name, p.PartitionID)
	})
	w.TagBuffer()
}

func encodeFetchPartitionResponse(w *wire.Writer, dir logdir.Dir, topicName string, partition int32) {
	w.Int32(partition)

	records, errCode := readPartitionRecords(dir, topicName, partition)
	w.Int16(errCode)
	w.Int64(0) // high_watermark
	w.Int64(0) // last_stable_offset
	w.Int64(0) // log_start_offset
	wire.EncodeCompactArray[struct{}](w, nil, nil) // aborted_transactions
	w.Int32(-1)                                    // preferred_read_replica
	w.CompactBytes(records)
	w.TagBuffer()
}

func topicByUUID(snapshot kraft.Snapshot, id uuid.UUID) (kraft.TopicRecord, bool) {
	for _, t := range snapshot.Topics() {
		if t.UUID == id {
			return t, true
		}
	}
	return kraft.TopicRecord{}, false
}

func encodeUnknownFetchPartition(w *wire.Writer, partition int32) {
	w.Int32(partition)
	w.Int16(errUnknownTopicID)
	w.Int64(0) // high_watermark
	w.Int64(0) // last_stable_offset
	w.Int64(0) // log_start_offset
	wire.EncodeCompactArray[struct{}](w, nil, nil) // aborted_transactions
	w.Int32(-1)                                    // preferred_read_replica
	w.CompactBytes(nil)
	w.TagBuffer()
}

func readPartitionRecords(dir logdir.Dir, topicName string, partition int32) ([]byte, int16) {
	f, err := dir.OpenTopicPartitionLog(topicName, partition)
	if err != nil {
		return nil, 0 // unreadable log: no error code, empty record set
	}
	defer f.Close()

	return append([]byte(nil), f.Bytes()...), 0
}
