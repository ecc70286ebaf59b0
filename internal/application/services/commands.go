package services

import "github.com/davidakinola/tierpay/internal/domain"

// CreateOrderCommand carries the validated-at-the-edge inputs for opening an
// order with the provider.
type CreateOrderCommand struct {
	Tier   string
	UserID string
}

// CreateOrderResult is returned to the caller so it can redirect the user to
// the provider's approval page.
type CreateOrderResult struct {
	OrderID     string
	ApprovalURL string
}

// CaptureResult is a tagged outcome. State distinguishes a clean capture from
// a failed one and from a captured-but-unrecorded one; callers have to handle
// the reconciliation case explicitly instead of matching on an error shape.
type CaptureResult struct {
	State    domain.OrderState
	Record   *domain.PaymentRecord
	Replayed bool
}

// CancelResult acknowledges a cancellation.
type CancelResult struct {
	OrderID string
	State   domain.OrderState
}
