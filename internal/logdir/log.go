package logdir

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// File is a read-only memory-mapped view of a single log segment file.
// The only segment this broker ever reads is the base segment
// (00000000000000000000.log); log rolling and later segments are a
// Non-goal, so there is nothing to select between.
type File struct {
	f    *os.File
	data []byte
}

// openFile mmaps path read-only. An empty file mmaps to a zero-length
// slice rather than erroring, since a freshly created topic directory
// may not have appended anything yet.
func openFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if fi.Size() == 0 {
		return &File{f: f, data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{f: f, data: data}, nil
}

// Bytes returns the file's raw contents. Callers must not hold onto
// the slice past Close.
func (lf *File) Bytes() []byte {
	return lf.data
}

func (lf *File) Close() error {
	if lf.data != nil {
		_ = unix.Munmap(lf.data)
	}
	return lf.f.Close()
}

// Dir resolves and opens the on-disk log segments this broker serves.
type Dir struct {
	Root string
}

// baseSegmentName is the only log segment filename this broker ever
// looks for, since every KRaft cluster's metadata and topic logs this
// broker is pointed at start at offset zero.
const baseSegmentName = "00000000000000000000.log"

// OpenMetadataLog mmaps the cluster's __cluster_metadata-0 segment.
func (d Dir) OpenMetadataLog() (*File, error) {
	return d.openSegment(filepath.Join(d.Root, "__cluster_metadata-0", baseSegmentName))
}

// OpenTopicPartitionLog mmaps the segment for one topic-partition,
// named "<topic>-<partition>" beneath the log directory root.
func (d Dir) OpenTopicPartitionLog(topic string, partition int32) (*File, error) {
	dirName := fmt.Sprintf("%s-%d", topic, partition)
	return d.openSegment(filepath.Join(d.Root, dirName, baseSegmentName))
}

func (d Dir) openSegment(path string) (*File, error) {
	lf, err := openFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSuchLog
		}
		return nil, err
	}
	return lf, nil
}
