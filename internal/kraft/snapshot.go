package kraft

import "github.com/google/uuid"

// Snapshot is a decoded metadata log, queryable for the topic and
// partition records a broker needs to answer DescribeTopicPartitions.
type Snapshot struct {
	batches []RecordBatch
}

// NewSnapshot decodes a metadata log's raw bytes into a queryable Snapshot.
func NewSnapshot(data []byte) (Snapshot, error) {
	batches, err := DecodeLog(data)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{batches: batches}, nil
}

// Topics returns every TopicRecord found across the log, in log order.
// A topic that was later deleted still appears here; this decoder does
// not model tombstones or remove-record semantics.
func (s Snapshot) Topics() []TopicRecord {
	var topics []TopicRecord
	for _, b := range s.batches {
		for _, rec := range b.Records {
			if t, ok := rec.Value.(TopicRecord); ok {
				topics = append(topics, t)
			}
		}
	}
	return topics
}

// TopicByName returns the first TopicRecord with the given name.
func (s Snapshot) TopicByName(name string) (TopicRecord, bool) {
	for _, t := range s.Topics() {
		if t.Name == name {
			return t, true
		}
	}
	return TopicRecord{}, false
}

// PartitionsOf returns every PartitionRecord belonging to the given
// topic UUID, in log order.
func (s Snapshot) PartitionsOf(topicUUID uuid.UUID) []PartitionRecord {
	var partitions []PartitionRecord
	for _, b := range s.batches {
		for _, rec := range b.Records {
			if p, ok := rec.Value.(PartitionRecord); ok && p.TopicUUID == topicUUID {
				partitions = append(partitions, p)
			}
		}
	}
	return partitions
}
