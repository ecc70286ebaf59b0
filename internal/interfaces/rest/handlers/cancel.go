package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/interfaces/rest"
)

type cancelOrderResponse struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		rest.WriteError(w, application.NewInvalidInputError(nil))
		return
	}

	result, err := h.cancelService.Cancel(r.Context(), orderID)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, cancelOrderResponse{
		OrderID: result.OrderID,
		State:   string(result.State),
	})
}
