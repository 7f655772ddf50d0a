package handlers

import (
	"io"
	"net/http"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

func NewPaymentHandler(ps *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: ps}
}

func (h *PaymentHandler) CreateTopUp(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Coins int64 `json:"coins"`
	}
	if !decode(w, r, &req) {
		return
	}
	intent, err := h.Payments.CreateTopUp(r.Context(), a, req.Coins)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, intent)
}

// Webhook receives signed deliveries from the card processor. No bearer
// token here; the HMAC signature is the authentication.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "unreadable body", nil)
		return
	}
	if err := h.Payments.HandleWebhook(r.Context(), body, r.Header.Get("Payment-Signature")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
