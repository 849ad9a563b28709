package logdir

import "errors"

var (
	// ErrNoSuchLog is returned when a topic-partition or the cluster
	// metadata log has no segment file on disk (whether or not its
	// directory exists).
	ErrNoSuchLog = errors.New("logdir: no such log directory")
)
