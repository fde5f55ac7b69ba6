package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the application error type. Orchestrator-level errors
// (INVALID_SESSION, SESSION_NOT_FOUND) propagate to callers as distinct
// codes; pipeline errors exist mostly for logging before being degraded
// to empty results at the component boundary.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements the error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code ErrorCode) bool {
	var ae AppError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsInvalidSession reports an ingest against a session that is not active
func IsInvalidSession(err error) bool {
	return IsCode(err, ErrorCode_INVALID_SESSION)
}

// IsSessionNotFound reports an end against a session that does not exist
func IsSessionNotFound(err error) bool {
	return IsCode(err, ErrorCode_SESSION_NOT_FOUND)
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Session lifecycle errors

// ErrInvalidSession reports audio ingestion against an unknown session or
// one that is not IN_PROGRESS. Callers may retry after checking state.
func ErrInvalidSession(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_INVALID_SESSION,
		Message:  "Session is not accepting audio",
	}.WithDetail("session_id", sessionID)
}

// ErrSessionNotFound reports endMeeting against a session id that is not in
// the active table. The session is gone; retrying is pointless.
func ErrSessionNotFound(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_SESSION_NOT_FOUND,
		Message:  "Session not found",
	}.WithDetail("session_id", sessionID)
}

// Pipeline errors

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

func ErrExtractionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_EXTRACTION_FAILED,
		Message:  "Insight extraction failed",
	}
}

func ErrSummarizationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_SUMMARIZATION_FAILED,
		Message:  "Summary generation failed",
	}
}

// Integration errors

func ErrConnectorFailed(platform string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_CONNECTOR_FAILED,
		Message:  fmt.Sprintf("Platform connector failed: %s", platform),
	}
}

func ErrTaskSyncFailed(platform string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TASK_SYNC_FAILED,
		Message:  fmt.Sprintf("Task sync failed: %s", platform),
	}
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrArchiveFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ARCHIVE_FAILED,
		Message:  "Failed to archive session",
	}
}
