package kafkaproto

import "kraftbroker/internal/wire"

// RequestHeader is Kafka's RequestHeader v2: the version every
// flexible-version API (all three this broker speaks) requires.
type RequestHeader struct {
	APIKey        int16
	APIVersion    int16
	CorrelationID int32
	ClientID      *string
}

// DecodeRequestHeader reads a RequestHeader v2 off the front of a
// request frame's body and returns the header plus the remaining
// request payload.
func DecodeRequestHeader(body []byte) (RequestHeader, []byte, error) {
	r := wire.NewReader(body)

	var h RequestHeader
	var err error
	if h.APIKey, err = r.Int16(); err != nil {
		return h, nil, err
	}
	if h.APIVersion, err = r.Int16(); err != nil {
		return h, nil, err
	}
	if h.CorrelationID, err = r.Int32(); err != nil {
		return h, nil, err
	}
	if h.ClientID, err = r.NullableString(); err != nil {
		return h, nil, err
	}
	if err := r.TagBuffer(); err != nil {
		return h, nil, err
	}

	return h, body[r.Offset():], nil
}

// EncodeResponseHeaderV0 writes a bare correlation_id, used by
// ApiVersions whose response header is never flexible (it must stay
// parseable even when the client speaks an unsupported version).
func EncodeResponseHeaderV0(w *wire.Writer, correlationID int32) {
	w.Int32(correlationID)
}

// EncodeResponseHeaderV1 writes correlation_id followed by an empty
// tag buffer, used by every flexible-version response.
func EncodeResponseHeaderV1(w *wire.Writer, correlationID int32) {
	w.Int32(correlationID)
	w.TagBuffer()
}
