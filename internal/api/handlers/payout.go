package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/api/validate"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/services"
)

type PayoutHandler struct {
	Payouts *services.PayoutService
}

func NewPayoutHandler(ps *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{Payouts: ps}
}

func (h *PayoutHandler) AddBeneficiary(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Method  string            `json:"method"`
		Details map[string]string `json:"details"`
	}
	if !decode(w, r, &req) {
		return
	}
	b, err := h.Payouts.AddBeneficiary(r.Context(), a, req.Method, req.Details)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *PayoutHandler) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	bs, err := h.Payouts.ListBeneficiaries(r.Context(), a.ID)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bs)
}

func (h *PayoutHandler) RemoveBeneficiary(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Payouts.RemoveBeneficiary(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PayoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		BeneficiaryID string `json:"beneficiary_id"`
		AmountCoins   int64  `json:"amount_coins"`
	}
	if !decode(w, r, &req) {
		return
	}
	var errs validate.Errs
	if e := validate.Required("beneficiary_id", req.BeneficiaryID); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("amount_coins", req.AmountCoins, 1); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request", errs)
		return
	}
	p, err := h.Payouts.Submit(r.Context(), a, req.BeneficiaryID, req.AmountCoins)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *PayoutHandler) History(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ps, err := h.Payouts.History(r.Context(), a.ID)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

// ListAll is the staff review queue; defaults to pending requests.
func (h *PayoutHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	status := models.PayoutStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.PayoutPending
	}
	limit, offset := pagination(r)
	ps, err := h.Payouts.ListAll(r.Context(), status, limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}

func (h *PayoutHandler) Review(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action"` // "approve" | "decline"
		Note   string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Action != "approve" && req.Action != "decline" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "action must be approve or decline", nil)
		return
	}
	p, err := h.Payouts.Review(r.Context(), a, chi.URLParam(r, "id"), req.Action == "approve", req.Note)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
