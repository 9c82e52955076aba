package errors

import "encoding/json"

// ErrorCode identifies an application error category
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_INVALID_PAYLOAD

	// Pipeline errors
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_SUMMARY_FAILED

	// Persistence errors
	ErrorCode_PERSISTENCE_FAILED
	ErrorCode_EXPORT_FAILED

	// Integration errors
	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED
	ErrorCode_INTEGRATION_MODEL_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_SUMMARY_FAILED:             "SUMMARY_FAILED",
	ErrorCode_PERSISTENCE_FAILED:         "PERSISTENCE_FAILED",
	ErrorCode_EXPORT_FAILED:              "EXPORT_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_MODEL_FAILED:   "INTEGRATION_MODEL_FAILED",
}

// String returns the symbolic name for the error code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalJSON renders the symbolic name so response bodies stay stable
// across reorderings of the enum.
func (c ErrorCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
