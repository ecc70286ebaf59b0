package application

import (
	"errors"
	"fmt"
)

// ProviderError is a non-success response from the payment provider, kept with
// the raw diagnostic payload for reconciliation logging.
type ProviderError struct {
	Op         string
	Code       string
	Message    string
	StatusCode int
	Raw        []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s error [%s]: %s (status: %d)", e.Op, e.Code, e.Message, e.StatusCode)
}

func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}

// RecordStoreError is a failed write against the remote record store.
type RecordStoreError struct {
	Key        string
	StatusCode int
	Err        error
}

func (e *RecordStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record store write for key %s failed: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("record store write for key %s failed with status %d", e.Key, e.StatusCode)
}

func (e *RecordStoreError) Unwrap() error {
	return e.Err
}

func IsRecordStoreError(err error) (*RecordStoreError, bool) {
	var storeErr *RecordStoreError
	ok := errors.As(err, &storeErr)
	return storeErr, ok
}
