// internal/bookings/handler.go
package bookings

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shareit/internal/apperr"
)

type Handler struct {
	service Service
	log     *slog.Logger
}

func NewHandler(service Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleListByBooker)
	r.Get("/owner", h.handleListByOwner)
	r.Get("/{bookingId}", h.handleGet)
	r.Patch("/{bookingId}", h.handleApprove)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	bookerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), bookerID, req)
	if err != nil {
		h.log.Warn("create booking failed", "booker", bookerID, "item", req.ItemID, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, booking)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingId"), 10, 64)
	if err != nil {
		apperr.WriteError(w, apperr.Validation("invalid booking id"))
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		apperr.WriteError(w, apperr.Validation("approved query parameter is required"))
		return
	}

	booking, err := h.service.Approve(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		h.log.Warn("approve booking failed", "owner", ownerID, "booking", bookingID, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, booking)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingId"), 10, 64)
	if err != nil {
		apperr.WriteError(w, apperr.Validation("invalid booking id"))
		return
	}

	booking, err := h.service.GetByID(r.Context(), userID, bookingID)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, booking)
}

func (h *Handler) handleListByBooker(w http.ResponseWriter, r *http.Request) {
	bookerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	state, err := ParseState(r.URL.Query().Get("state"))
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	from, size, err := pagination(r, 0, 10)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	list, err := h.service.ListByBooker(r.Context(), bookerID, state, from, size)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	state, err := ParseState(r.URL.Query().Get("state"))
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	list, err := h.service.ListByOwner(r.Context(), ownerID, state)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

// actorID reads the acting user's identity from the X-Sharer-User-Id
// header.
func actorID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.Header.Get("X-Sharer-User-Id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("missing or invalid X-Sharer-User-Id header")
	}
	return id, nil
}

// pagination parses from/size query parameters with defaults.
func pagination(r *http.Request, defaultFrom, defaultSize int) (int, int, error) {
	from, size := defaultFrom, defaultSize
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return 0, 0, apperr.Validation("from must be a non-negative integer")
		}
		from = parsed
	}
	if v := q.Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return 0, 0, apperr.Validation("size must be a positive integer")
		}
		size = parsed
	}
	return from, size, nil
}
