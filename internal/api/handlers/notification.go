package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationHandler(ns *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: ns}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	res, err := h.Notifications.List(r.Context(), a.ID, limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), a.ID); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Notifications.MarkAllRead(r.Context(), a.ID); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
