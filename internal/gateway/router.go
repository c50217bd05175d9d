// internal/gateway/router.go
package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// NewRouter assembles the public HTTP surface of the gateway.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createUser)
		r.Get("/", h.listUsers)
		r.Get("/{userId}", h.getUser)
		r.Patch("/{userId}", h.updateUser)
		r.Delete("/{userId}", h.deleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.createItem)
		r.Get("/", h.listItems)
		r.Get("/search", h.searchItems)
		r.Get("/{itemId}", h.getItem)
		r.Patch("/{itemId}", h.updateItem)
		r.Delete("/{itemId}", h.deleteItem)
		r.Post("/{itemId}/comment", h.addComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.createBooking)
		r.Get("/", h.listBookingsByBooker)
		r.Get("/owner", h.listBookingsByOwner)
		r.Get("/{bookingId}", h.getBooking)
		r.Patch("/{bookingId}", h.approveBooking)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.createRequest)
		r.Get("/", h.listOwnRequests)
		r.Get("/all", h.listOtherRequests)
		r.Get("/{requestId}", h.getRequest)
	})

	return r
}
