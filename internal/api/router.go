package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/api/handler"
	"github.com/rideshare-market/backend/internal/api/middleware"
)

// Routable is a handler that splits its routes into a public surface and an
// internal one gated by the shared service credential.
type Routable interface {
	RegisterRoutes(r chi.Router)
	RegisterInternalRoutes(r chi.Router)
}

// NewRouter builds the standard per-service router: base middlewares, the
// public endpoints, and the internal endpoints behind the internal key.
// Internal endpoints must additionally never be exposed beyond the internal
// network.
func NewRouter(h Routable, internalKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	h.RegisterRoutes(r)

	r.Group(func(internal chi.Router) {
		internal.Use(middleware.InternalOnly(internalKey))
		h.RegisterInternalRoutes(internal)
	})

	return r
}

var (
	_ Routable = (*handler.IdentityHandler)(nil)
	_ Routable = (*handler.AvailabilityHandler)(nil)
	_ Routable = (*handler.PaymentsHandler)(nil)
	_ Routable = (*handler.ReservationsHandler)(nil)
)
