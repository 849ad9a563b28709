package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"kraftbroker/internal/kraft"
)

// TopicFixture describes one topic and its partitions for WriteLogDir.
type TopicFixture struct {
	Name       string
	UUID       uuid.UUID
	Partitions []int32
}

// WriteLogDir materializes a minimal KRaft log directory under root:
// a __cluster_metadata-0 segment containing a TopicRecord and a
// PartitionRecord per fixture partition, and an empty segment file for
// each topic-partition so Fetch has something to splice. It exists so
// integration tests can drive the broker against on-disk state that
// looks like a real KRaft cluster's metadata log, without hand-rolling
// batch bytes per test.
func WriteLogDir(root string, topics []TopicFixture) error {
	var records []kraft.Record
	for _, topic := range topics {
		records = append(records, kraft.Record{
			KeyLength: -1,
			Value: kraft.TopicRecord{
				FrameVersion: 1,
				RecordType:   2,
				Name:         topic.Name,
				UUID:         topic.UUID,
			},
		})
		for _, p := range topic.Partitions {
			records = append(records, kraft.Record{
				KeyLength: -1,
				Value: kraft.PartitionRecord{
					FrameVersion:     1,
					RecordType:       3,
					PartitionID:      p,
					TopicUUID:        topic.UUID,
					Replicas:         []int32{1},
					ISR:              []int32{1},
					RemovingReplicas: []int32{},
					AddingReplicas:   []int32{},
					LeaderID:         1,
					Directories:      []uuid.UUID{},
				},
			})
		}
	}

	batch := kraft.RecordBatch{
		Magic:           2,
		LastOffsetDelta: int32(len(records) - 1),
		ProducerID:      -1,
		ProducerEpoch:   -1,
		BaseSequence:    -1,
		Records:         records,
	}

	metadataDir := filepath.Join(root, "__cluster_metadata-0")
	if err := os.MkdirAll(metadataDir, 0o755); err != nil {
		return err
	}
	logBytes := kraft.EncodeLog([]kraft.RecordBatch{batch})
	if err := os.WriteFile(filepath.Join(metadataDir, "00000000000000000000.log"), logBytes, 0o644); err != nil {
		return err
	}

	for _, topic := range topics {
		for _, p := range topic.Partitions {
			partitionDir := filepath.Join(root, fmt.Sprintf("%s-%d", topic.Name, p))
			if err := os.MkdirAll(partitionDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(partitionDir, "00000000000000000000.log")
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := os.WriteFile(path, nil, 0o644); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
