package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"rideshare-backend/internal/telegramauth"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Auth
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeMissingSignature  ErrorCode = "MISSING_SIGNATURE"
	ErrCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"
	ErrCodeMalformedPayload  ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeAuthExpired       ErrorCode = "AUTH_EXPIRED"

	// Users
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserBanned   ErrorCode = "USER_BANNED"
)

// AppError is a typed application error rendered to clients as JSON.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail entry.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// HTTPStatus maps the error code to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeMalformedPayload:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeUserNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeMissingSignature, ErrCodeSignatureMismatch, ErrCodeAuthExpired:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeUserBanned:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewUserNotFoundError(userID int64) *AppError {
	return New(ErrCodeUserNotFound, fmt.Sprintf("User not found: %d", userID)).
		WithDetail("user_id", userID)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// FromRejection converts a rejected verification into a client error.
func FromRejection(r telegramauth.Rejected) *AppError {
	var appErr *AppError
	switch r.Reason {
	case telegramauth.ReasonMissingSignature:
		appErr = New(ErrCodeMissingSignature, "Auth payload is not signed")
	case telegramauth.ReasonSignatureMismatch:
		appErr = New(ErrCodeSignatureMismatch, "Auth payload signature is invalid")
	case telegramauth.ReasonMalformedPayload:
		appErr = New(ErrCodeMalformedPayload, "Auth payload is malformed")
	case telegramauth.ReasonExpired:
		appErr = New(ErrCodeAuthExpired, "Auth payload has expired")
	default:
		appErr = New(ErrCodeInternal, "Auth payload could not be verified")
	}
	return appErr.WithDetail("reason", string(r.Reason))
}

// AsAppError unwraps err into an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, telegramauth.ErrMissingCredential) {
		return Wrap(err, ErrCodeMissingCredential, "Bot token is not configured")
	}
	return Wrap(err, ErrCodeInternal, "Internal server error")
}
