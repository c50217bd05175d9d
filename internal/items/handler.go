// internal/items/handler.go
package items

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
	r.Get("/", h.handleListByOwner)
	r.Get("/search", h.handleSearch)
	r.Get("/{itemId}", h.handleGet)
	r.Patch("/{itemId}", h.handleUpdate)
	r.Delete("/{itemId}", h.handleDelete)
	r.Post("/{itemId}/comment", h.handleAddComment)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var req CreateItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		h.log.Warn("create item failed", "owner", ownerID, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	itemID, err := itemID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var upd UpdateItem
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	item, err := h.service.Update(r.Context(), ownerID, itemID, upd)
	if err != nil {
		h.log.Warn("update item failed", "owner", ownerID, "item", itemID, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, err := actorID(r); err != nil {
		apperr.WriteError(w, err)
		return
	}
	id, err := itemID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	list, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	id, err := itemID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	item, err := h.service.Delete(r.Context(), ownerID, id)
	if err != nil {
		h.log.Warn("delete item failed", "owner", ownerID, "item", id, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if _, err := actorID(r); err != nil {
		apperr.WriteError(w, err)
		return
	}

	list, err := h.service.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := actorID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	id, err := itemID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, apperr.Validation("invalid request body"))
		return
	}

	comment, err := h.service.AddComment(r.Context(), authorID, id, req.Text)
	if err != nil {
		h.log.Warn("add comment failed", "author", authorID, "item", id, "err", err)
		apperr.WriteError(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, comment)
}

func actorID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.Header.Get("X-Sharer-User-Id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("missing or invalid X-Sharer-User-Id header")
	}
	return id, nil
}

func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid item id")
	}
	return id, nil
}
