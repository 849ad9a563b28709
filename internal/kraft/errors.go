package kraft

import "errors"

var (
	// ErrShortBatch is returned when a record batch's declared
	// batch_length runs past the end of the available bytes.
	ErrShortBatch = errors.New("kraft: record batch truncated")

	// ErrBatchMisaligned is returned when decoding a batch's records
	// does not land exactly on the expected end-of-batch offset.
	ErrBatchMisaligned = errors.New("kraft: record batch did not consume its declared length")
)
