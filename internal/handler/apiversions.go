package handler

import (
	"kraftbroker/internal/kafkaproto"
	"kraftbroker/internal/wire"
)

// apiVersionEntry is one (api_key, min_version, max_version) triple in
// an ApiVersions response.
type apiVersionEntry struct {
	APIKey     int16
	MinVersion int16
	MaxVersion int16
}

var apiVersionEntries = []apiVersionEntry{
	{APIKey: kafkaproto.APIKeyFetch, MinVersion: 0, MaxVersion: 16},
	{APIKey: kafkaproto.APIKeyApiVersions, MinVersion: 0, MaxVersion: 4},
	{APIKey: kafkaproto.APIKeyDescribeTopicPartitions, MinVersion: 0, MaxVersion: 0},
}

// ApiVersions answers the client's ApiVersions request with this
// broker's full supported-API table. An unsupported request version
// never fails framing: the response header always stays v0 and the
// body is just the UNSUPPORTED_VERSION error code with no further
// fields (the same shape the dispatcher's fallback gives other APIs),
// so a client speaking a version this broker has outgrown can still
// read enough to downgrade.
func ApiVersions(requestVersion int16, w *wire.Writer) {
	_, supported := kafkaproto.IsSupportedVersion(kafkaproto.APIKeyApiVersions, requestVersion)
	if !supported {
		w.Int16(kafkaproto.UnsupportedVersion)
		return
	}

	w.Int16(0) // error_code
	wire.EncodeCompactArray(w, apiVersionEntries, encodeAPIVersionEntry)
	w.Int32(0) // throttle_time_ms
	w.TagBuffer()
}

func encodeAPIVersionEntry(w *wire.Writer, e apiVersionEntry) {
	w.Int16(e.APIKey)
	w.Int16(e.MinVersion)
	w.Int16(e.MaxVersion)
	w.TagBuffer()
}
