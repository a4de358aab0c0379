package assistant

import "fmt"

// ErrorCode classifies assistant failures.
type ErrorCode string

const (
	ErrNotConfigured     ErrorCode = "NOT_CONFIGURED"
	ErrUnauthorized      ErrorCode = "UPSTREAM_UNAUTHORIZED"
	ErrQuotaExceeded     ErrorCode = "QUOTA_EXCEEDED"
	ErrRateLimited       ErrorCode = "RATE_LIMITED"
	ErrTimeout           ErrorCode = "TIMEOUT"
	ErrCanceled          ErrorCode = "CANCELED"
	ErrUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
	ErrBadRequest        ErrorCode = "BAD_REQUEST"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
)

// Error is a structured error for text-generation failures.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int // upstream HTTP status, 0 when no response arrived
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsConfiguration reports whether the failure is a configuration or account
// policy problem that retrying will not fix.
func (e *Error) IsConfiguration() bool {
	switch e.Code {
	case ErrNotConfigured, ErrUnauthorized, ErrQuotaExceeded:
		return true
	}
	return false
}
