package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/interfaces/rest"
)

type paymentRecordResponse struct {
	UserID      string    `json:"user_id"`
	Tier        string    `json:"tier"`
	OrderID     string    `json:"order_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type captureOrderResponse struct {
	OrderID  string                 `json:"order_id"`
	State    string                 `json:"state"`
	Replayed bool                   `json:"replayed,omitempty"`
	Record   *paymentRecordResponse `json:"record,omitempty"`
}

func (h *Handlers) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		rest.WriteError(w, application.NewInvalidInputError(nil))
		return
	}

	result, err := h.captureService.Capture(r.Context(), orderID)
	if err != nil {
		// A failed or captured-but-unrecorded outcome still carries a terminal
		// state; expose it next to the error code so callers can tell the two
		// apart without parsing messages.
		var details map[string]string
		if result != nil {
			details = map[string]string{"state": string(result.State)}
		}
		rest.WriteErrorWithDetails(w, err, details)
		return
	}

	resp := captureOrderResponse{
		OrderID:  orderID,
		State:    string(result.State),
		Replayed: result.Replayed,
	}
	if result.Record != nil {
		resp.Record = &paymentRecordResponse{
			UserID:      result.Record.UserID,
			Tier:        string(result.Record.Tier),
			OrderID:     result.Record.OrderID,
			CompletedAt: result.Record.CompletedAt,
		}
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}
