package errors

// Error codes for the pubsub contracts. Keep stable; used across adapters and the registry.
const (
	ErrCodeInvalidChannel      = "pubsub.invalid_channel"
	ErrCodeInvalidCallback     = "pubsub.invalid_callback"
	ErrCodeClosed              = "pubsub.closed"
	ErrCodeReportFailed        = "pubsub.report_failed"
	ErrCodeSerializationFailed = "pubsub.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	// ErrInvalidChannel is returned for a missing or empty channel where one is required.
	ErrInvalidChannel = Code(ErrCodeInvalidChannel)
	// ErrInvalidCallback is returned for a missing or nil callback where one is required.
	ErrInvalidCallback     = Code(ErrCodeInvalidCallback)
	ErrClosed              = Code(ErrCodeClosed)
	ErrReportFailed        = Code(ErrCodeReportFailed)
	ErrSerializationFailed = Code(ErrCodeSerializationFailed)
)
