package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pwnz15/Kre/internal/handler"
	"github.com/pwnz15/Kre/internal/middleware"
	"go.uber.org/zap"
)

// New builds the HTTP surface: reads are public, mutations require a valid
// bearer token. Every request runs inside a span and carries the configured
// deadline on its context.
func New(h *handler.ListingHandler, jwtSecret string, requestTimeout time.Duration, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(middleware.Tracing())
	if requestTimeout > 0 {
		mux.Use(chimiddleware.Timeout(requestTimeout))
	}

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, logger))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Patch("/api/listings/{id}/status", h.HandleUpdateListingStatus)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)
	})

	mux.Get("/api/listings", h.HandleListListings)
	mux.Get("/api/listings/{id}", h.HandleGetListingByID)

	return mux
}
