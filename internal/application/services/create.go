package services

import (
	"context"
	"log/slog"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

type CreateOrderService struct {
	tokens    application.TokenSource
	provider  application.PaymentProvider
	ledger    application.OrderLedger
	returnURL string
	cancelURL string
	logger    *slog.Logger
}

func NewCreateOrderService(
	tokens application.TokenSource,
	provider application.PaymentProvider,
	ledger application.OrderLedger,
	returnURL string,
	cancelURL string,
	logger *slog.Logger,
) *CreateOrderService {
	return &CreateOrderService{
		tokens:    tokens,
		provider:  provider,
		ledger:    ledger,
		returnURL: returnURL,
		cancelURL: cancelURL,
		logger:    logger,
	}
}

// Create validates the command, opens an order with the provider and returns
// the approval handle. Validation failures are rejected before any remote
// call; a provider failure leaves no local state behind.
func (s *CreateOrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	tier, err := domain.TierByTag(cmd.Tier)
	if err != nil {
		return nil, err
	}

	token, err := domain.EncodeCorrelationToken(cmd.UserID, tier)
	if err != nil {
		return nil, err
	}

	cred, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.CreateOrder(ctx, cred, application.CreateOrderRequest{
		Amount:           tier.Amount,
		Currency:         domain.Currency,
		CorrelationToken: token,
		ReturnURL:        s.returnURL,
		CancelURL:        s.cancelURL,
	})
	if err != nil {
		return nil, application.NewUpstreamCreateError(err)
	}

	// The ledger row is advisory at this point: the provider is the source of
	// truth until capture. A failed insert must not fail the request.
	userID := cmd.UserID
	tierTag := string(tier.Tag)
	entry := &application.LedgerEntry{
		OrderID: resp.OrderID,
		UserID:  &userID,
		Tier:    &tierTag,
		State:   domain.StateCreated,
	}
	if err := s.ledger.CreatePending(ctx, entry); err != nil {
		s.logger.Error("failed to record created order in ledger",
			"order_id", resp.OrderID,
			"error", err,
		)
	}

	s.logger.Info("order created",
		"order_id", resp.OrderID,
		"tier", tier.Tag,
		"user_id", cmd.UserID,
	)

	return &CreateOrderResult{
		OrderID:     resp.OrderID,
		ApprovalURL: resp.ApprovalURL,
	}, nil
}
