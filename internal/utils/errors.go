package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnreadableDocument = "UNREADABLE_DOCUMENT"
	CodeNoDataExtracted    = "NO_DATA_EXTRACTED"
	CodeRenderingFailed    = "RENDERING_FAILED"
	CodeMergeFailed        = "MERGE_FAILED"
	CodeTimeout            = "TIMEOUT"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// AppError is an error that carries the HTTP status and a user-facing message.
type AppError struct {
	Code       string
	StatusCode int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code string, status int, message string, cause error) *AppError {
	return &AppError{
		Code:       code,
		StatusCode: status,
		Message:    message,
		Cause:      cause,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeInvalidInput, http.StatusBadRequest, message, nil)
}

func NewUnreadableDocumentError(message string, cause error) *AppError {
	return NewAppError(CodeUnreadableDocument, http.StatusBadRequest, message, cause)
}

func NewNoDataExtractedError(message string) *AppError {
	return NewAppError(CodeNoDataExtracted, http.StatusBadRequest, message, nil)
}

func NewRenderingFailedError(message string, cause error) *AppError {
	return NewAppError(CodeRenderingFailed, http.StatusInternalServerError, message, cause)
}

func NewMergeFailedError(message string, cause error) *AppError {
	return NewAppError(CodeMergeFailed, http.StatusInternalServerError, message, cause)
}

func NewTimeoutError(message string, cause error) *AppError {
	return NewAppError(CodeTimeout, http.StatusRequestTimeout, message, cause)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, http.StatusNotFound, message, nil)
}

func NewInternalError(message string) *AppError {
	return NewAppError(CodeInternal, http.StatusInternalServerError, message, nil)
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
