package provider

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/config"
)

type RetryClient struct {
	inner      application.PaymentProvider
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner application.PaymentProvider, cfg config.RetryConfig) application.PaymentProvider {
	return &RetryClient{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
	}
}

// ExchangeCredentials with retry logic
func (r *RetryClient) ExchangeCredentials(ctx context.Context) (*application.AccessCredential, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.AccessCredential, error) {
			return r.inner.ExchangeCredentials(ctx)
		},
	)
}

// CreateOrder with retry logic
func (r *RetryClient) CreateOrder(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.CreateOrderResponse, error) {
			return r.inner.CreateOrder(ctx, cred, req)
		},
	)
}

// CaptureOrder with retry logic. Safe to repeat against the provider: capture
// of an order is idempotent on the provider side and replays are absorbed by
// the ledger anyway.
func (r *RetryClient) CaptureOrder(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.CaptureOrderResponse, error) {
			return r.inner.CaptureOrder(ctx, cred, orderID)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors. Defers to the shared categorizer so the
// decorator and the workers agree on what counts as transient; a cancelled
// context is never worth another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return application.IsRetryable(err)
}

// Backoff calculation with exponential delay and jitter
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
