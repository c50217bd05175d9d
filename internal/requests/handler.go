// internal/requests/handler.go
package requests

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
	r.Get("/", h.handleListByRequester)
	r.Get("/all", h.handleListOthers)
	r.Get("/{requestId}", h.handleGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	request, err := h.service.Create(r.Context(), userID, req.Description)
	if err != nil {
		h.log.Warn("create item request failed", "user", userID, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListByRequester(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	list, err := h.service.ListByRequester(r.Context(), userID)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListOthers(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	from, size := 0, 10
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			apperr.WriteError(w, apperr.Validation("from must be a non-negative integer"))
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			apperr.WriteError(w, apperr.Validation("size must be a positive integer"))
			return
		}
		size = parsed
	}

	list, err := h.service.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		apperr.WriteError(w, apperr.Validation("invalid request id"))
		return
	}

	request, err := h.service.GetByID(r.Context(), userID, requestID)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, request)
}

func actorID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.Header.Get("X-Sharer-User-Id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("missing or invalid X-Sharer-User-Id header")
	}
	return id, nil
}
