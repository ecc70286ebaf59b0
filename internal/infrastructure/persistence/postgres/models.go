package postgres

import (
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

// OrderModel mirrors the orders table. UserID and Tier stay nullable: an order
// whose correlation token never decoded has neither.
type OrderModel struct {
	OrderID         string
	UserID          *string
	Tier            *string
	State           string
	ProviderPayload []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
	RecordedAt      *time.Time
}

// toLedgerEntry: maps db model to the application-level entry
func toLedgerEntry(m OrderModel) *application.LedgerEntry {
	return &application.LedgerEntry{
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		Tier:            m.Tier,
		State:           domain.OrderState(m.State),
		ProviderPayload: m.ProviderPayload,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		RecordedAt:      m.RecordedAt,
	}
}
