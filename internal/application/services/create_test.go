package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/application/services"
	"github.com/davidakinola/tierpay/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCreateService(tokens *services.MockTokenSource, provider *services.MockProvider, ledger *services.MockLedger) *services.CreateOrderService {
	return services.NewCreateOrderService(
		tokens,
		provider,
		ledger,
		"https://shop.example/success",
		"https://shop.example/cancel",
		testLogger(),
	)
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()

	tokens := &services.MockTokenSource{}
	provider := &services.MockProvider{}
	ledger := services.NewMockLedger()

	var sentReq application.CreateOrderRequest
	provider.CreateOrderFn = func(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
		sentReq = req
		return &application.CreateOrderResponse{
			OrderID:     "O-1",
			ApprovalURL: "https://provider.example/approve/O-1",
		}, nil
	}

	svc := newCreateService(tokens, provider, ledger)

	result, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier1", UserID: "user-42"})
	require.NoError(t, err)

	assert.Equal(t, "O-1", result.OrderID)
	assert.Equal(t, "https://provider.example/approve/O-1", result.ApprovalURL)

	assert.Equal(t, "10.00", sentReq.Amount)
	assert.Equal(t, "USD", sentReq.Currency)
	assert.Equal(t, "user-42:Tier1", sentReq.CorrelationToken)
	assert.Equal(t, "https://shop.example/success", sentReq.ReturnURL)

	entry, err := ledger.FindByOrderID(ctx, "O-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCreated, entry.State)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-42", *entry.UserID)
}

func TestCreate_UnknownTier_NoRemoteCalls(t *testing.T) {
	ctx := context.Background()

	tokens := &services.MockTokenSource{}
	provider := &services.MockProvider{}
	svc := newCreateService(tokens, provider, services.NewMockLedger())

	_, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Gold", UserID: "user-42"})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidTier))
	assert.Equal(t, 0, tokens.Calls())
	assert.Equal(t, 0, provider.GetCalls("CreateOrder"))
}

func TestCreate_MissingUser_NoRemoteCalls(t *testing.T) {
	ctx := context.Background()

	tokens := &services.MockTokenSource{}
	provider := &services.MockProvider{}
	svc := newCreateService(tokens, provider, services.NewMockLedger())

	_, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier1", UserID: ""})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingUser))
	assert.Equal(t, 0, tokens.Calls())
	assert.Equal(t, 0, provider.GetCalls("CreateOrder"))
}

func TestCreate_UserWithSeparator_Rejected(t *testing.T) {
	ctx := context.Background()

	tokens := &services.MockTokenSource{}
	provider := &services.MockProvider{}
	svc := newCreateService(tokens, provider, services.NewMockLedger())

	_, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier1", UserID: "user:42"})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidUser))
	assert.Equal(t, 0, provider.GetCalls("CreateOrder"))
}

func TestCreate_AuthFailure_Propagated(t *testing.T) {
	ctx := context.Background()

	tokens := &services.MockTokenSource{
		TokenFn: func(ctx context.Context) (*application.AccessCredential, error) {
			return nil, application.NewUpstreamAuthError(nil)
		},
	}
	provider := &services.MockProvider{}
	svc := newCreateService(tokens, provider, services.NewMockLedger())

	_, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier1", UserID: "user-42"})

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeUpstreamAuth, svcErr.Code)
	assert.Equal(t, 0, provider.GetCalls("CreateOrder"))
}

func TestCreate_ProviderFailure_NoLedgerRow(t *testing.T) {
	ctx := context.Background()

	provider := &services.MockProvider{
		CreateOrderFn: func(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
			return nil, &application.ProviderError{
				Op:         "create_order",
				Code:       "INTERNAL_SERVICE_ERROR",
				StatusCode: 500,
			}
		},
	}
	ledger := services.NewMockLedger()
	svc := newCreateService(&services.MockTokenSource{}, provider, ledger)

	_, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier1", UserID: "user-42"})

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeUpstreamCreate, svcErr.Code)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, 500, provErr.StatusCode)

	_, err = ledger.FindByOrderID(ctx, "O-1")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
}

func TestCreate_LedgerFailure_DoesNotFailRequest(t *testing.T) {
	ctx := context.Background()

	ledger := services.NewMockLedger()
	ledger.CreatePendingFn = func(ctx context.Context, entry *application.LedgerEntry) error {
		return assert.AnError
	}
	svc := newCreateService(&services.MockTokenSource{}, &services.MockProvider{}, ledger)

	result, err := svc.Create(ctx, services.CreateOrderCommand{Tier: "Tier2", UserID: "user-42"})
	require.NoError(t, err)
	assert.Equal(t, "O-1", result.OrderID)
}
