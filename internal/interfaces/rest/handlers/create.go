package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/application/services"
	"github.com/davidakinola/tierpay/internal/interfaces/rest"
)

// UserID carries no required tag: an empty user id is the domain's call and
// comes back as MISSING_USER, not as a generic input error.
type createOrderRequest struct {
	Tier   string `json:"tier" validate:"required"`
	UserID string `json:"user_id"`
}

type createOrderResponse struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(fmt.Errorf("malformed request body: %w", err)))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	result, err := h.createService.Create(r.Context(), services.CreateOrderCommand{
		Tier:   req.Tier,
		UserID: req.UserID,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:     result.OrderID,
		ApprovalURL: result.ApprovalURL,
	})
}
