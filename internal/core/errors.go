package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Engine (remote backtest service) errors
	ErrEngineUnavailable = &Error{Code: "ENGINE_UNAVAILABLE", Message: "backtest engine unreachable"}
	ErrEngineRejected    = &Error{Code: "ENGINE_REJECTED", Message: "backtest engine rejected the request"}
	ErrBacktestNotFound  = &Error{Code: "BACKTEST_NOT_FOUND", Message: "backtest not found"}

	// Adapter / validation errors
	ErrRecordInvalid    = &Error{Code: "RECORD_INVALID", Message: "record failed validation"}
	ErrFieldMissing     = &Error{Code: "FIELD_MISSING", Message: "required field missing"}
	ErrUnknownTradeType = &Error{Code: "UNKNOWN_TRADE_TYPE", Message: "unrecognized trade type"}
	ErrNotCompleted     = &Error{Code: "NOT_COMPLETED", Message: "backtest has not completed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Supplement feature errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "report archive operation failed"}
	ErrInsightFailed = &Error{Code: "INSIGHT_FAILED", Message: "insight generation failed"}
)
