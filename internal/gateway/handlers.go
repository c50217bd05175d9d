// internal/gateway/handlers.go
package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"shareit/internal/apperr"
	"shareit/internal/bookings"
)

// Handlers validates incoming requests and relays them to the server
// tier through the forwarding client.
type Handlers struct {
	client   *Client
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

func NewHandlers(client *Client, log *slog.Logger) *Handlers {
	return &Handlers{
		client:   client,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

func (h *Handlers) actorID(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-Sharer-User-Id")
	if raw == "" {
		return 0, apperr.Validation("X-Sharer-User-Id header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("X-Sharer-User-Id header is invalid")
	}
	return id, nil
}

// decode parses the body into dto and runs struct validation. dto must
// be a pointer.
func (h *Handlers) decode(r *http.Request, dto interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.validate.Struct(dto); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Validation("field %s failed validation on %s", verrs[0].Field(), verrs[0].Tag())
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

// pagination validates from/size query parameters and returns them for
// forwarding. Missing values fall back to the given defaults.
func pagination(r *http.Request, defaultFrom, defaultSize int) (int, int, error) {
	from, size := defaultFrom, defaultSize
	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, apperr.Validation("from must be a non-negative integer")
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, 0, apperr.Validation("size must be a positive integer")
		}
		size = v
	}
	return from, size, nil
}

// relay writes the server tier's reply verbatim, or translates
// transport-level failures into gateway errors.
func (h *Handlers) relay(w http.ResponseWriter, resp *Response, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrRateLimited):
			apperr.WriteJSON(w, http.StatusTooManyRequests, apperr.ErrorResponse{
				Error: "rate_limited", Message: "too many requests",
			})
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			apperr.WriteJSON(w, http.StatusServiceUnavailable, apperr.ErrorResponse{
				Error: "unavailable", Message: "service temporarily unavailable",
			})
		default:
			h.log.Error("forward to server tier failed", "error", err)
			apperr.WriteJSON(w, http.StatusBadGateway, apperr.ErrorResponse{
				Error: "bad_gateway", Message: "upstream request failed",
			})
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

// --- users ---

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var dto createUserDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPost, "/users", 0, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/users", 0, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/users/"+pathParam(r, "userId"), 0, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var dto updateUserDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPatch, "/users/"+pathParam(r, "userId"), 0, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Forward(r.Context(), http.MethodDelete, "/users/"+pathParam(r, "userId"), 0, nil, nil)
	h.relay(w, resp, err)
}

// --- items ---

func (h *Handlers) createItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var dto createItemDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPost, "/items", actor, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) updateItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var dto updateItemDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPatch, "/items/"+pathParam(r, "itemId"), actor, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) getItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/items/"+pathParam(r, "itemId"), actor, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) listItems(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/items", actor, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) deleteItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodDelete, "/items/"+pathParam(r, "itemId"), actor, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) searchItems(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	query := url.Values{"text": {r.URL.Query().Get("text")}}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/items/search", actor, query, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var dto createCommentDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPost, "/items/"+pathParam(r, "itemId")+"/comment", actor, nil, dto)
	h.relay(w, resp, err)
}

// --- bookings ---

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var dto createBookingDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	if !dto.validTimeRange(h.now()) {
		apperr.WriteError(w, apperr.Validation("booking period must lie in the future with start before end"))
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPost, "/bookings", actor, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) approveBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	raw := r.URL.Query().Get("approved")
	if _, err := strconv.ParseBool(raw); err != nil {
		apperr.WriteError(w, apperr.Validation("approved must be true or false"))
		return
	}
	query := url.Values{"approved": {raw}}
	resp, err := h.client.Forward(r.Context(), http.MethodPatch, "/bookings/"+pathParam(r, "bookingId"), actor, query, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/bookings/"+pathParam(r, "bookingId"), actor, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) listBookingsByBooker(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	state, err := bookings.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	from, size, err := pagination(r, 0, 10)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	query := url.Values{
		"state": {string(state)},
		"from":  {strconv.Itoa(from)},
		"size":  {strconv.Itoa(size)},
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/bookings", actor, query, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) listBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	state, err := bookings.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	query := url.Values{"state": {string(state)}}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/bookings/owner", actor, query, nil)
	h.relay(w, resp, err)
}

// --- requests ---

func (h *Handlers) createRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var dto createRequestDto
	if err := h.decode(r, &dto); err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodPost, "/requests", actor, nil, dto)
	h.relay(w, resp, err)
}

func (h *Handlers) listOwnRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/requests", actor, nil, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) listOtherRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	from, size, err := pagination(r, 0, 10)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	query := url.Values{
		"from": {strconv.Itoa(from)},
		"size": {strconv.Itoa(size)},
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/requests/all", actor, query, nil)
	h.relay(w, resp, err)
}

func (h *Handlers) getRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	resp, err := h.client.Forward(r.Context(), http.MethodGet, "/requests/"+pathParam(r, "requestId"), actor, nil, nil)
	h.relay(w, resp, err)
}
