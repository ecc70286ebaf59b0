package services

import (
	"context"
	"log/slog"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

type CancelService struct {
	ledger application.OrderLedger
	logger *slog.Logger
}

func NewCancelService(ledger application.OrderLedger, logger *slog.Logger) *CancelService {
	return &CancelService{ledger: ledger, logger: logger}
}

// Cancel is purely informational: the order stays untouched at the provider,
// the ledger just stops expecting a capture. Orders past capture cannot be
// cancelled.
func (s *CancelService) Cancel(ctx context.Context, orderID string) (*CancelResult, error) {
	entry, err := s.ledger.FindByOrderID(ctx, orderID)
	if err != nil && !domain.IsErrorCode(err, domain.ErrCodeOrderNotFound) {
		return nil, application.NewInternalError(err)
	}

	if entry != nil {
		if entry.State == domain.StateCancelled {
			return &CancelResult{OrderID: orderID, State: domain.StateCancelled}, nil
		}

		order := &domain.Order{OrderID: orderID, State: entry.State}
		if err := order.Cancel(); err != nil {
			return nil, application.NewInvalidStateError(err)
		}
	}

	if err := s.ledger.RecordOutcome(ctx, &application.LedgerEntry{
		OrderID: orderID,
		State:   domain.StateCancelled,
	}); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("order cancelled", "order_id", orderID)

	return &CancelResult{OrderID: orderID, State: domain.StateCancelled}, nil
}
