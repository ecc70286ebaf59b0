package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/davidakinola/tierpay/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryReconciliation ErrorCategory = "RECONCILIATION"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	// Context Errors (Transient - network/timeout issues)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	// Validation errors are rejected before any remote call is made
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvalidTier, domain.ErrCodeMissingUser, domain.ErrCodeInvalidUser, domain.ErrCodeOrderNotFound:
			return CategoryClientError
		case domain.ErrCodeInvalidToken, domain.ErrCodeMissingToken:
			return CategoryReconciliation
		case domain.ErrCodeInvalidTransition:
			return CategoryClientError
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput, ErrCodeInvalidState, ErrCodeCaptureNotCompleted:
			return CategoryClientError
		case ErrCodeTokenMissing, ErrCodeTokenInvalid, ErrCodeRecordWrite:
			return CategoryReconciliation
		case ErrCodeUpstreamAuth, ErrCodeUpstreamCreate, ErrCodeUpstreamCapture, ErrCodeTimeout:
			return CategoryTransient
		case ErrCodeInternal:
			return CategoryInfrastructure
		}
	}

	// Provider errors (external API)
	if provErr, ok := IsProviderError(err); ok {
		if provErr.IsRetryable() {
			return CategoryTransient
		}

		switch provErr.Code {
		case "UNPROCESSABLE_ENTITY", "ORDER_NOT_APPROVED", "ORDER_ALREADY_CAPTURED":
			return CategoryPermanent
		case "RESOURCE_NOT_FOUND", "INVALID_REQUEST":
			return CategoryClientError
		case "INTERNAL_SERVICE_ERROR":
			return CategoryTransient
		default:
			return CategoryPermanent
		}
	}

	if _, ok := IsRecordStoreError(err); ok {
		return CategoryReconciliation
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvalidTier, domain.ErrCodeMissingUser, domain.ErrCodeInvalidUser:
			return http.StatusBadRequest
		case domain.ErrCodeOrderNotFound:
			return http.StatusNotFound
		case domain.ErrCodeInvalidTransition:
			return http.StatusConflict
		case domain.ErrCodeInvalidToken, domain.ErrCodeMissingToken:
			return http.StatusInternalServerError
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if provErr, ok := IsProviderError(err); ok {
		if provErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return provErr.StatusCode
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if provErr, ok := IsProviderError(err); ok {
		if provErr.Code != "" {
			return provErr.Code
		}
		return "UPSTREAM_ERROR"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
