package handlers

import (
	"net/http"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/services"
)

type WalletHandler struct {
	Wallets *services.WalletService
}

func NewWalletHandler(ws *services.WalletService) *WalletHandler {
	return &WalletHandler{Wallets: ws}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	wallet, err := h.Wallets.Balance(r.Context(), a.ID)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	txns, err := h.Wallets.History(r.Context(), a.ID, limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txns)
}

func (h *WalletHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	report, err := h.Wallets.Reconcile(r.Context(), a.ID)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}
