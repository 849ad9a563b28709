package handler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"kraftbroker/internal/logdir"
	"kraftbroker/internal/wire"
)

func buildFetchRequest(topicID uuid.UUID, partitions ...int32) []byte {
	w := wire.NewWriter()
	w.Int32(500) // max_wait_ms
	w.Int32(1)   // min_bytes
	w.Int32(1 << 20)
	w.Int8(0)  // isolation_level
	w.Int32(0) // session_id
	w.Int32(0) // session_epoch

	topics := []fetchTopicRequest{}
	parts := []fetchPartitionRequest{}
	for _, p := range partitions {
		parts = append(parts, fetchPartitionRequest{Partition: p})
	}
	topics = append(topics, fetchTopicRequest{TopicID: topicID, Partitions: parts})

	wire.EncodeCompactArray(w, topics, func(w *wire.Writer, t fetchTopicRequest) {
		w.UUID(t.TopicID)
		wire.EncodeCompactArray(w, t.Partitions, func(w *wire.Writer, p fetchPartitionRequest) {
			w.Int32(p.Partition)
			w.Int32(0)  // current_leader_epoch
			w.Int64(0)  // fetch_offset
			w.Int32(-1) // last_fetched_epoch
			w.Int64(0)  // log_start_offset
			w.Int32(1 << 20)
			w.TagBuffer()
		})
		w.TagBuffer()
	})
	wire.EncodeCompactArray[struct{}](w, nil, nil) // forgotten_topics_data
	w.CompactString(nil)                           // rack_id
	w.TagBuffer()

	return w.Bytes()
}

func TestFetchKnownPartitionSplicesWholeLog(t *testing.T) {
	topicUUID := uuid.New()
	snap := snapshotWithTopic(t, "orders", topicUUID, []int32{0})

	root := t.TempDir()
	segDir := filepath.Join(root, "orders-0")
	if err := os.MkdirAll(segDir, 0o755); err != nil {
		t.Fatal(err)
	}
	logBytes := []byte{1, 2, 3, 4, 5, 6}
	if err := os.WriteFile(filepath.Join(segDir, "00000000000000000000.log"), logBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	dir := logdir.Dir{Root: root}

	reqBody := buildFetchRequest(topicUUID, 0)
	w := wire.NewWriter()
	if err := Fetch(snap, dir, reqBody, w); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	r := wire.NewReader(w.Bytes())
	r.Int32() // throttle_time_ms
	errCode, _ := r.Int16()
	if errCode != 0 {
		t.Fatalf("expected top-level error_code 0, got %d", errCode)
	}
	r.Int32() // session_id

	n, ok, err := r.CompactArrayLen()
	if err != nil || !ok || n != 1 {
		t.Fatalf("expected 1 topic response, n=%d ok=%v err=%v", n, ok, err)
	}
	gotUUID, _ := r.UUID()
	if gotUUID != topicUUID {
		t.Fatalf("topic id mismatch")
	}

	pn, ok, err := r.CompactArrayLen()
	if err != nil || !ok || pn != 1 {
		t.Fatalf("expected 1 partition response, pn=%d ok=%v err=%v", pn, ok, err)
	}
	partIdx, _ := r.Int32()
	if partIdx != 0 {
		t.Fatalf("expected partition 0, got %d", partIdx)
	}
	partErr, _ := r.Int16()
	if partErr != 0 {
		t.Fatalf("expected partition error_code 0, got %d", partErr)
	}
	r.Int64() // high_watermark
	r.Int64() // last_stable_offset
	r.Int64() // log_start_offset
	r.CompactArrayLen() // aborted_transactions
	r.Int32()           // preferred_read_replica

	records, err := r.CompactBytes()
	if err != nil {
		t.Fatalf("CompactBytes: %v", err)
	}
	if string(records) != string(logBytes) {
		t.Fatalf("expected spliced log bytes %x, got %x", logBytes, records)
	}
}

func TestFetchPartitionNotInMetadataIsDropped(t *testing.T) {
	topicUUID := uuid.New()
	snap := snapshotWithTopic(t, "orders", topicUUID, []int32{0})
	dir := logdir.Dir{Root: t.TempDir()}

	reqBody := buildFetchRequest(topicUUID, 0, 7)
	w := wire.NewWriter()
	if err := Fetch(snap, dir, reqBody, w); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	r := wire.NewReader(w.Bytes())
	r.Int32() // throttle_time_ms
	r.Int16() // top-level error_code
	r.Int32() // session_id
	r.CompactArrayLen()
	r.UUID()

	pn, ok, err := r.CompactArrayLen()
	if err != nil || !ok || pn != 1 {
		t.Fatalf("expected only the one partition present in metadata, pn=%d ok=%v err=%v", pn, ok, err)
	}
	partIdx, _ := r.Int32()
	if partIdx != 0 {
		t.Fatalf("expected partition 0, got %d", partIdx)
	}
}

func TestFetchUnknownTopicIDReturnsSinglePartitionError(t *testing.T) {
	snap := snapshotWithTopic(t, "orders", uuid.New(), []int32{0})
	dir := logdir.Dir{Root: t.TempDir()}

	unknownTopic := uuid.New()
	reqBody := buildFetchRequest(unknownTopic, 0)
	w := wire.NewWriter()
	if err := Fetch(snap, dir, reqBody, w); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	r := wire.NewReader(w.Bytes())
	r.Int32() // throttle_time_ms
	r.Int16() // top-level error_code
	r.Int32() // session_id
	r.CompactArrayLen()
	r.UUID()
	r.CompactArrayLen()
	r.Int32() // partition index
	errCode, _ := r.Int16()
	if errCode != errUnknownTopicID {
		t.Fatalf("expected error_code %d, got %d", errUnknownTopicID, errCode)
	}
}
