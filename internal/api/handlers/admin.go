package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/services"
)

type AdminHandler struct {
	Admin *services.AdminService
	Users *services.UserService
}

func NewAdminHandler(as *services.AdminService, us *services.UserService) *AdminHandler {
	return &AdminHandler{Admin: as, Users: us}
}

func (h *AdminHandler) GetSystemConfig(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Admin.SystemConfig())
}

func (h *AdminHandler) UpdateSystemConfig(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var patch services.SystemConfigPatch
	if !decode(w, r, &patch) {
		return
	}
	cfg, err := h.Admin.UpdateSystemConfig(r.Context(), a, patch)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) GetPayoutConfig(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Admin.PayoutConfig())
}

func (h *AdminHandler) UpdatePayoutConfig(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var patch services.PayoutConfigPatch
	if !decode(w, r, &patch) {
		return
	}
	cfg, err := h.Admin.UpdatePayoutConfig(r.Context(), a, patch)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	logs, err := h.Admin.ListAuditLogs(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	users, err := h.Users.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Admin.SetUserStatus(r.Context(), a, chi.URLParam(r, "id"), models.UserStatus(req.Status)); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RevenueStats(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	stats, err := h.Admin.RevenueStats(r.Context(), year)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
