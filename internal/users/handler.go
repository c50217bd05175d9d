// internal/users/handler.go
package users

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
	r.Get("/", h.handleList)
	r.Get("/{userId}", h.handleGet)
	r.Patch("/{userId}", h.handleUpdate)
	r.Delete("/{userId}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.service.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		h.log.Warn("create user failed", "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		h.log.Warn("update user failed", "id", id, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	user, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.log.Warn("delete user failed", "id", id, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}
