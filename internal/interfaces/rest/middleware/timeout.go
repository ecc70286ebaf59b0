package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/interfaces/rest"
)

// Timeout bounds every request and answers an overrun with the service's
// standard error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.ErrorResponse{
		Error: rest.ErrorDetail{
			Code:    application.ErrCodeTimeout,
			Message: "request deadline exceeded",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			http.TimeoutHandler(next, timeout, string(body)).ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
