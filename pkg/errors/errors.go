package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes per failure family. The family prefix decides the process
// exit code, the full code pins down the site for tests and logs.
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors: bad manifest, bad flags, bad engine config
	ErrConfigLoad      ErrorCode = "CONFIG_LOAD"
	ErrConfigParse     ErrorCode = "CONFIG_PARSE"
	ErrManifestLoad    ErrorCode = "MANIFEST_LOAD"
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"
	ErrTaskUnknown     ErrorCode = "TASK_UNKNOWN"
	ErrInvalidInput    ErrorCode = "INVALID_INPUT"

	// Privilege errors: missing scope rights or a concurrent session
	ErrPrivilege   ErrorCode = "PRIVILEGE"
	ErrSessionLock ErrorCode = "SESSION_LOCK"

	// Deployment errors: payload and target filesystem mutations
	ErrPayloadMissing ErrorCode = "PAYLOAD_MISSING"
	ErrPayloadExtract ErrorCode = "PAYLOAD_EXTRACT"
	ErrFileCopy       ErrorCode = "FILE_COPY"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrShortcutWrite  ErrorCode = "SHORTCUT_WRITE"

	// Integration errors: system store writes and journal durability
	ErrStoreRead     ErrorCode = "STORE_READ"
	ErrStoreWrite    ErrorCode = "STORE_WRITE"
	ErrJournalWrite  ErrorCode = "JOURNAL_WRITE"
	ErrJournalRead   ErrorCode = "JOURNAL_READ"
	ErrNotInstalled  ErrorCode = "NOT_INSTALLED"
	ErrStoreBackend  ErrorCode = "STORE_BACKEND"
	ErrUninstallPart ErrorCode = "UNINSTALL_PARTIAL"
)

// SetupError represents a structured error with code and details
type SetupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SetupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SetupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SetupError) Is(target error) bool {
	var targetErr *SetupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SetupError with the given code and message
func New(code ErrorCode, message string) *SetupError {
	return &SetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SetupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SetupError {
	return &SetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SetupError
func Wrap(err error, code ErrorCode, message string) *SetupError {
	if err == nil {
		return nil
	}
	return &SetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SetupError {
	if err == nil {
		return nil
	}
	return &SetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SetupError) WithDetail(key string, value interface{}) *SetupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SetupError
func GetErrorCode(err error) ErrorCode {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Code
	}
	return ErrUnknown
}
