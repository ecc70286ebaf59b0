package services

import (
	"context"

	"github.com/davidakinola/tierpay/internal/application"
)

type QueryService struct {
	ledger application.OrderLedger
}

func NewQueryService(ledger application.OrderLedger) *QueryService {
	return &QueryService{ledger: ledger}
}

// GetOrder returns the ledger view of an order.
func (s *QueryService) GetOrder(ctx context.Context, orderID string) (*application.LedgerEntry, error) {
	return s.ledger.FindByOrderID(ctx, orderID)
}
