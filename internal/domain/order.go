// Package domain encodes the payment-order lifecycle and its attributes
package domain

import (
	"slices"
	"time"
)

// OrderState represents the current state of an order in its lifecycle
type OrderState string

const (
	StateCreated   OrderState = "CREATED"
	StateCaptured  OrderState = "CAPTURED"
	StateFailed    OrderState = "FAILED"
	StateCancelled OrderState = "CANCELLED"

	// StateCapturedUnrecorded means the provider confirmed the capture but the
	// payment record never reached the record store. Money has moved; the order
	// needs reconciliation and must not be treated as a plain failure.
	StateCapturedUnrecorded OrderState = "CAPTURED_UNRECORDED"
)

// Order is a transient view of a provider-held order. No order table is the
// source of truth here; state is reconstructed per request from the provider
// response plus the decoded correlation token.
type Order struct {
	OrderID string
	UserID  string
	Tier    Tier
	State   OrderState

	CreatedAt  time.Time
	CapturedAt *time.Time
}

func NewOrder(orderID, userID string, tier Tier) *Order {
	return &Order{
		OrderID:   orderID,
		UserID:    userID,
		Tier:      tier,
		State:     StateCreated,
		CreatedAt: time.Now(),
	}
}

func (o *Order) transition(target OrderState) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.State = target
	return nil
}

// defines the order states that can be transitioned to
func (o *Order) canTransitionTo(target OrderState) error {
	switch o.State {
	case StateCreated:
		return o.allow(target, StateCaptured, StateFailed, StateCancelled, StateCapturedUnrecorded)
	case StateCapturedUnrecorded:
		// late record write promotes the order after reconciliation
		return o.allow(target, StateCaptured)
	}
	return NewInvalidTransitionError(o.State, target)
}

// Helper to check allowed state transitions
func (o *Order) allow(target OrderState, allowed ...OrderState) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.State, target)
}

// Capture transitions the order to captured once the record write has acked.
func (o *Order) Capture(capturedAt time.Time) error {
	if err := o.transition(StateCaptured); err != nil {
		return err
	}
	o.CapturedAt = &capturedAt
	return nil
}

// Fail marks the order failed after a non-completed provider capture.
func (o *Order) Fail() error {
	return o.transition(StateFailed)
}

// Cancel is purely informational, nothing is voided at the provider.
func (o *Order) Cancel() error {
	return o.transition(StateCancelled)
}

// MarkCapturedUnrecorded flags a capture whose bookkeeping did not complete.
// The provider holds the money; only the local record is missing.
func (o *Order) MarkCapturedUnrecorded(capturedAt time.Time) error {
	if err := o.transition(StateCapturedUnrecorded); err != nil {
		return err
	}
	o.CapturedAt = &capturedAt
	return nil
}

// helper to identify order states that are terminal
func (o *Order) IsTerminal() bool {
	switch o.State {
	case StateCaptured, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// PaymentRecord is what gets written to the record store after a completed
// capture. Once the write acks the record store owns it.
type PaymentRecord struct {
	UserID      string    `json:"user_id"`
	Tier        TierTag   `json:"tier"`
	OrderID     string    `json:"order_id"`
	CompletedAt time.Time `json:"completed_at"`
}
