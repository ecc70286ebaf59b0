package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeUpstreamAuth        = "UPSTREAM_AUTH"
	ErrCodeUpstreamCreate      = "UPSTREAM_CREATE"
	ErrCodeUpstreamCapture     = "UPSTREAM_CAPTURE"
	ErrCodeCaptureNotCompleted = "CAPTURE_NOT_COMPLETED"
	ErrCodeTokenMissing        = "TOKEN_MISSING"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeRecordWrite         = "RECORD_WRITE"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func NewUpstreamAuthError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstreamAuth,
		Message:    "provider rejected the credential exchange",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewUpstreamCreateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstreamCreate,
		Message:    "provider failed to create the order",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewUpstreamCaptureError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstreamCapture,
		Message:    "provider failed to capture the order",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewCaptureNotCompletedError(orderID, status string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeCaptureNotCompleted,
		Message:    fmt.Sprintf("capture of order %s finished with provider status %q", orderID, status),
		HTTPStatus: http.StatusConflict,
	}
}

// Post-capture bookkeeping errors. Money has already moved upstream, so these
// carry 500-class statuses but their codes stay distinct from a failed capture.

func NewTokenMissingError(orderID string, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTokenMissing,
		Message:    fmt.Sprintf("order %s captured but the correlation token is missing", orderID),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewTokenInvalidError(orderID string, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTokenInvalid,
		Message:    fmt.Sprintf("order %s captured but the correlation token does not decode", orderID),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewRecordWriteError(orderID string, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeRecordWrite,
		Message:    fmt.Sprintf("order %s captured but the payment record write failed", orderID),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInvalidStateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidState,
		Message:    "invalid state",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewTimeoutError(operation string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("timeout waiting for %s", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// IsReconciliationError reports whether the error represents a capture whose
// bookkeeping did not complete. Callers must never fold these into ordinary
// failures: the upstream payment succeeded.
func IsReconciliationError(err error) bool {
	svcErr, ok := IsServiceError(err)
	if !ok {
		return false
	}
	switch svcErr.Code {
	case ErrCodeTokenMissing, ErrCodeTokenInvalid, ErrCodeRecordWrite:
		return true
	}
	return false
}
