package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Domain validation errors
const (
	ErrCodeInvalidTier       = "INVALID_TIER"
	ErrCodeMissingUser       = "MISSING_USER"
	ErrCodeInvalidUser       = "INVALID_USER"
	ErrCodeInvalidToken      = "TOKEN_INVALID"
	ErrCodeMissingToken      = "TOKEN_MISSING"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
)

func NewInvalidTierError(tag string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTier,
		Message: fmt.Sprintf("unknown tier %q", tag),
	}
}

func NewMissingUserError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingUser,
		Message: "user id is required",
	}
}

func NewInvalidUserError(userID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidUser,
		Message: fmt.Sprintf("user id %q must not contain %q", userID, TokenSeparator),
	}
}

func NewInvalidTokenError(token string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidToken,
		Message: fmt.Sprintf("correlation token %q does not decode to a user and a known tier", token),
	}
}

func NewMissingTokenError(orderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingToken,
		Message: fmt.Sprintf("capture response for order %s carries no correlation token", orderID),
	}
}

func NewInvalidTransitionError(from, to OrderState) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewOrderNotFoundError(orderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("order %s not found", orderID),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
