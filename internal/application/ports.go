package application

import (
	"context"
	"time"

	"github.com/davidakinola/tierpay/internal/domain"
)

// AccessCredential is a bearer token obtained from the payment provider via a
// client-credentials exchange. Never persisted; cached in-process only.
type AccessCredential struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the credential can still be presented at time now.
func (c *AccessCredential) Valid(now time.Time) bool {
	return c != nil && c.Value != "" && now.Before(c.ExpiresAt)
}

// CreateOrderRequest is what the gateway sends to the provider to open an order.
type CreateOrderRequest struct {
	Amount           string
	Currency         string
	CorrelationToken string
	ReturnURL        string
	CancelURL        string
}

// CreateOrderResponse carries the provider-assigned order id and the approval
// link the client must follow to complete the payment out-of-band.
type CreateOrderResponse struct {
	OrderID     string
	ApprovalURL string
}

// CaptureOrderResponse is the provider's answer to a capture call. The
// correlation token is the free-form field echoed back; RawPayload keeps the
// provider's body for reconciliation logging.
type CaptureOrderResponse struct {
	OrderID          string
	Status           string
	CorrelationToken string
	RawPayload       []byte
}

// StatusCompleted is the provider status that releases the funds.
const StatusCompleted = "COMPLETED"

// PaymentProvider is the port for the external hosted-checkout API.
type PaymentProvider interface {
	ExchangeCredentials(ctx context.Context) (*AccessCredential, error)
	CreateOrder(ctx context.Context, cred *AccessCredential, req CreateOrderRequest) (*CreateOrderResponse, error)
	CaptureOrder(ctx context.Context, cred *AccessCredential, orderID string) (*CaptureOrderResponse, error)
}

// TokenSource hands out a live provider credential, refreshing it when expired.
type TokenSource interface {
	Token(ctx context.Context) (*AccessCredential, error)
}

// RecordStore is the port for the remote keyed datastore that owns payment
// records once written. Writes are keyed by user id and overwrite (the payload
// is a deterministic function of the order, so replays are no-ops in effect).
type RecordStore interface {
	WriteRecord(ctx context.Context, record *domain.PaymentRecord) error
}

// LedgerEntry is the local per-order bookkeeping row used for idempotent
// capture replay and reconciliation of captured-but-unrecorded payments.
type LedgerEntry struct {
	OrderID         string
	UserID          *string
	Tier            *string
	State           domain.OrderState
	ProviderPayload []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
	RecordedAt      *time.Time
}

// OrderLedger is the port for the local reconciliation ledger.
type OrderLedger interface {
	CreatePending(ctx context.Context, entry *LedgerEntry) error
	RecordOutcome(ctx context.Context, entry *LedgerEntry) error
	FindByOrderID(ctx context.Context, orderID string) (*LedgerEntry, error)
	FindUnrecorded(ctx context.Context, limit int) ([]*LedgerEntry, error)
	MarkRecorded(ctx context.Context, orderID string, recordedAt time.Time) error
}
