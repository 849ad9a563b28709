package kafkaproto

// API keys this broker understands, matching the Kafka protocol's
// registry numbering so clients' own API tables line up.
const (
	APIKeyFetch                   = 1
	APIKeyApiVersions             = 18
	APIKeyDescribeTopicPartitions = 75
)

// UnsupportedVersion is the error_code a client sees when it asks for
// an api_version this broker does not implement for an otherwise-known
// api_key.
const UnsupportedVersion = 35

// apiRange describes the inclusive version window this broker
// supports for one API key.
type apiRange struct {
	MinVersion int16
	MaxVersion int16
}

// SupportedAPIs is the broker's full API table: every api_key this
// broker will ever dispatch, each paired with the version range it
// accepts. The ApiVersions handler advertises the same ranges from its
// own entries list, and only to a request at a supported version.
var SupportedAPIs = map[int16]apiRange{
	APIKeyApiVersions:             {MinVersion: 0, MaxVersion: 4},
	APIKeyFetch:                   {MinVersion: 0, MaxVersion: 16},
	APIKeyDescribeTopicPartitions: {MinVersion: 0, MaxVersion: 0},
}

// IsSupportedVersion reports whether apiKey is known to this broker at
// all, and if so whether apiVersion falls within its supported range.
func IsSupportedVersion(apiKey, apiVersion int16) (known bool, supported bool) {
	r, known := SupportedAPIs[apiKey]
	if !known {
		return false, false
	}
	return true, apiVersion >= r.MinVersion && apiVersion <= r.MaxVersion
}
