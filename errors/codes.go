package errors

// ErrorCode identifies a class of application error
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND

	// Session lifecycle errors (caller contract violations)
	ErrorCode_INVALID_SESSION
	ErrorCode_SESSION_NOT_FOUND

	// Pipeline errors (recoverable, swallowed at component boundaries)
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_EXTRACTION_FAILED
	ErrorCode_SUMMARIZATION_FAILED

	// Integration errors
	ErrorCode_CONNECTOR_FAILED
	ErrorCode_TASK_SYNC_FAILED
	ErrorCode_STORAGE_FAILED
	ErrorCode_ARCHIVE_FAILED
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:              "UNKNOWN",
	ErrorCode_INTERNAL:             "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:     "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:            "NOT_FOUND",
	ErrorCode_INVALID_SESSION:      "INVALID_SESSION",
	ErrorCode_SESSION_NOT_FOUND:    "SESSION_NOT_FOUND",
	ErrorCode_TRANSCRIPTION_FAILED: "TRANSCRIPTION_FAILED",
	ErrorCode_EXTRACTION_FAILED:    "EXTRACTION_FAILED",
	ErrorCode_SUMMARIZATION_FAILED: "SUMMARIZATION_FAILED",
	ErrorCode_CONNECTOR_FAILED:     "CONNECTOR_FAILED",
	ErrorCode_TASK_SYNC_FAILED:     "TASK_SYNC_FAILED",
	ErrorCode_STORAGE_FAILED:       "STORAGE_FAILED",
	ErrorCode_ARCHIVE_FAILED:       "ARCHIVE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
