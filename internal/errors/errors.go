package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Jot error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrFolderNotFound    ErrorCode = "FOLDER_NOT_FOUND"    // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrConflict          ErrorCode = "CONFLICT"            // 409
	ErrProtectedFolder   ErrorCode = "PROTECTED_FOLDER"    // 409
	ErrMemoTooLarge      ErrorCode = "MEMO_TOO_LARGE"      // 413
	ErrFileTooLarge      ErrorCode = "FILE_TOO_LARGE"      // 413
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrCancelled         ErrorCode = "CANCELLED"           // 499
	ErrInsufficientInput ErrorCode = "INSUFFICIENT_INPUT"  // 422
	ErrAssistUnavailable ErrorCode = "ASSIST_UNAVAILABLE"  // 503
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// JotError represents a structured error with code, status, and details.
type JotError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JotError {
	return &JotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a memo cannot be found.
func NewNotFound(id string) *JotError {
	return &JotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("memo not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFolderNotFound creates a 404 error for an unknown folder.
func NewFolderNotFound(id string) *JotError {
	return &JotError{
		Code:    ErrFolderNotFound,
		Status:  404,
		Message: fmt.Sprintf("folder not found: %s", id),
		Details: map[string]any{"folder_id": id},
	}
}

// NewNameAlreadyExists creates a 409 error for folder name collisions.
func NewNameAlreadyExists(name string) *JotError {
	return &JotError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("folder with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *JotError {
	return &JotError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewProtectedFolder creates a 409 error for changes to a built-in folder.
func NewProtectedFolder(id, action string) *JotError {
	return &JotError{
		Code:    ErrProtectedFolder,
		Status:  409,
		Message: fmt.Sprintf("cannot %s built-in folder %q", action, id),
		Details: map[string]any{"folder_id": id, "action": action},
	}
}

// NewMemoTooLarge creates a 413 error when memo content exceeds the size limit.
func NewMemoTooLarge(max, actual int) *JotError {
	return &JotError{
		Code:    ErrMemoTooLarge,
		Status:  413,
		Message: fmt.Sprintf("memo exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInsufficientInput creates a 422 error for text too short for an assist operation.
// Operations surface this as a result flag; the error form is for callers that
// require a result.
func NewInsufficientInput(operation string, minChars int) *JotError {
	return &JotError{
		Code:    ErrInsufficientInput,
		Status:  422,
		Message: fmt.Sprintf("text too short for %s (min %d chars)", operation, minChars),
		Details: map[string]any{"operation": operation, "min_chars": minChars},
	}
}

// NewAssistUnavailable creates a 503 error when no text helper could produce a result.
func NewAssistUnavailable(err error) *JotError {
	msg := "assist unavailable"
	if err != nil {
		msg = fmt.Sprintf("assist unavailable: %v", err)
	}
	return &JotError{
		Code:    ErrAssistUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewFileTooLarge creates a 413 error when an import file exceeds the size limit.
func NewFileTooLarge(max, actual int64) *JotError {
	return &JotError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *JotError {
	return &JotError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates an error for an operation stopped by context cancellation.
func NewCancelled(operation string) *JotError {
	return &JotError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the cause is kept in Details for logging.
func NewInternal(err error) *JotError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &JotError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a JotError with the given code.
func Is(err error, code ErrorCode) bool {
	var jErr *JotError
	if stderrors.As(err, &jErr) {
		return jErr.Code == code
	}
	return false
}

// As returns the JotError in err's chain, if any.
func As(err error) (*JotError, bool) {
	var jErr *JotError
	ok := stderrors.As(err, &jErr)
	return jErr, ok
}
