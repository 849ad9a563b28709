package handler

import (
	"fmt"
	"log/slog"

	"kraftbroker/internal/kafkaproto"
	"kraftbroker/internal/kraft"
	"kraftbroker/internal/logdir"
	"kraftbroker/internal/wire"
)

// Dispatcher routes decoded requests to the three APIs this broker
// implements, reading the metadata-log snapshot fresh for each
// request: the snapshot is rebuilt once per connection driver tick,
// never mutated in place, since write-back to the metadata log is a
// Non-goal.
type Dispatcher struct {
	Snapshot kraft.Snapshot
	LogDir   logdir.Dir
	Logger   *slog.Logger
}

// Dispatch decodes a request frame's header, routes it to the
// matching handler, and returns the fully framed response body
// (response header included). ApiVersions always reaches its handler,
// which answers its own unsupported versions. Any other api_key this
// broker does not know, or a known api_key at an unsupported version,
// gets the generic UNSUPPORTED_VERSION fallback rather than reaching a
// handler.
func (d *Dispatcher) Dispatch(frame []byte) ([]byte, error) {
	header, body, err := kafkaproto.DecodeRequestHeader(frame)
	if err != nil {
		return nil, fmt.Errorf("decode request header: %w", err)
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("dispatching request",
		"api_key", header.APIKey, "api_version", header.APIVersion, "correlation_id", header.CorrelationID)

	w := wire.NewWriter()

	if header.APIKey == kafkaproto.APIKeyApiVersions {
		kafkaproto.EncodeResponseHeaderV0(w, header.CorrelationID)
		ApiVersions(header.APIVersion, w)
		return w.Bytes(), nil
	}

	known, supported := kafkaproto.IsSupportedVersion(header.APIKey, header.APIVersion)
	if !known || !supported {
		kafkaproto.EncodeResponseHeaderV0(w, header.CorrelationID)
		w.Int16(kafkaproto.UnsupportedVersion)
		return w.Bytes(), nil
	}

	kafkaproto.EncodeResponseHeaderV1(w, header.CorrelationID)

	switch header.APIKey {
	case kafkaproto.APIKeyDescribeTopicPartitions:
		err = DescribeTopicPartitions(d.Snapshot, body, w)
	case kafkaproto.APIKeyFetch:
		err = Fetch(d.Snapshot, d.LogDir, body, w)
	default:
		err = fmt.Errorf("unhandled supported api_key %d", header.APIKey)
	}
	if err != nil {
		return nil, fmt.Errorf("handle api_key %d v%d: %w", header.APIKey, header.APIVersion, err)
	}

	return w.Bytes(), nil
}
