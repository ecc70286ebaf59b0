package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/interfaces/rest"
)

type orderResponse struct {
	OrderID    string     `json:"order_id"`
	UserID     *string    `json:"user_id,omitempty"`
	Tier       *string    `json:"tier,omitempty"`
	State      string     `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		rest.WriteError(w, application.NewInvalidInputError(nil))
		return
	}

	entry, err := h.queryService.GetOrder(r.Context(), orderID)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, orderResponse{
		OrderID:    entry.OrderID,
		UserID:     entry.UserID,
		Tier:       entry.Tier,
		State:      string(entry.State),
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
		RecordedAt: entry.RecordedAt,
	})
}
