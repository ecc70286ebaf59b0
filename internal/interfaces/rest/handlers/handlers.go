// Package handlers exposes the order lifecycle over HTTP.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/application/services"
)

// Handlers depends on narrow service interfaces so tests can stand in for the
// full services without a provider or a database.
type CreateService interface {
	Create(ctx context.Context, cmd services.CreateOrderCommand) (*services.CreateOrderResult, error)
}

type CaptureService interface {
	Capture(ctx context.Context, orderID string) (*services.CaptureResult, error)
}

type CancelService interface {
	Cancel(ctx context.Context, orderID string) (*services.CancelResult, error)
}

type QueryService interface {
	GetOrder(ctx context.Context, orderID string) (*application.LedgerEntry, error)
}

type Handlers struct {
	createService  CreateService
	captureService CaptureService
	cancelService  CancelService
	queryService   QueryService
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewHandlers(
	createService CreateService,
	captureService CaptureService,
	cancelService CancelService,
	queryService QueryService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		createService:  createService,
		captureService: captureService,
		cancelService:  cancelService,
		queryService:   queryService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// Router mounts all order routes.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.GetOrder)
			r.Post("/capture", h.CaptureOrder)
			r.Post("/cancel", h.CancelOrder)
		})
	})

	return r
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
