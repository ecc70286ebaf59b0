package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/application/services"
	"github.com/davidakinola/tierpay/internal/config"
	"github.com/davidakinola/tierpay/internal/infrastructure/provider"
)

func newRetryClient(inner application.PaymentProvider) application.PaymentProvider {
	return provider.NewRetryClient(inner, config.RetryConfig{
		BaseDelay:  0,
		MaxRetries: 3,
	})
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	inner := &services.MockProvider{}
	client := newRetryClient(inner)

	resp, err := client.CaptureOrder(context.Background(), nil, "O-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusCompleted, resp.Status)
	assert.Equal(t, 1, inner.GetCalls("CaptureOrder"))
}

func TestRetry_RecoversFromTransientFailure(t *testing.T) {
	attempts := 0
	inner := &services.MockProvider{
		CaptureOrderFn: func(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error) {
			attempts++
			if attempts < 3 {
				return nil, &application.ProviderError{Op: "capture_order", StatusCode: 503}
			}
			return &application.CaptureOrderResponse{OrderID: orderID, Status: application.StatusCompleted}, nil
		},
	}
	client := newRetryClient(inner)

	resp, err := client.CaptureOrder(context.Background(), nil, "O-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusCompleted, resp.Status)
	assert.Equal(t, 3, inner.GetCalls("CaptureOrder"))
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	inner := &services.MockProvider{
		CreateOrderFn: func(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
			return nil, &application.ProviderError{Op: "create_order", StatusCode: 500}
		},
	}
	client := newRetryClient(inner)

	resp, err := client.CreateOrder(context.Background(), nil, application.CreateOrderRequest{})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	assert.Equal(t, 3, inner.GetCalls("CreateOrder"))
}

func TestRetry_TransportErrorRetried(t *testing.T) {
	attempts := 0
	inner := &services.MockProvider{
		CaptureOrderFn: func(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("connection reset by peer")
			}
			return &application.CaptureOrderResponse{OrderID: orderID, Status: application.StatusCompleted}, nil
		},
	}
	client := newRetryClient(inner)

	resp, err := client.CaptureOrder(context.Background(), nil, "O-1")
	require.NoError(t, err)
	assert.Equal(t, application.StatusCompleted, resp.Status)
	assert.Equal(t, 2, inner.GetCalls("CaptureOrder"))
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	inner := &services.MockProvider{
		CreateOrderFn: func(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
			return nil, &application.ProviderError{Op: "create_order", StatusCode: 422}
		},
	}
	client := newRetryClient(inner)

	_, err := client.CreateOrder(context.Background(), nil, application.CreateOrderRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.GetCalls("CreateOrder"))
}

func TestRetry_ContextCancelledStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	inner := &services.MockProvider{
		ExchangeCredentialsFn: func(ctx context.Context) (*application.AccessCredential, error) {
			cancel()
			return nil, &application.ProviderError{Op: "exchange_credentials", StatusCode: 503}
		},
	}
	client := newRetryClient(inner)

	start := time.Now()
	_, err := client.ExchangeCredentials(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, 1, inner.GetCalls("ExchangeCredentials"))
}
