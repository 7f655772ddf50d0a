package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/middleware"
	"github.com/lumenlive/backend/internal/services"
)

type StreamHandler struct {
	Streams *services.StreamService
	Gifts   *services.GiftService
}

func NewStreamHandler(ss *services.StreamService, gs *services.GiftService) *StreamHandler {
	return &StreamHandler{Streams: ss, Gifts: gs}
}

func (h *StreamHandler) Start(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req services.StartParams
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Streams.Start(r.Context(), a, req)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

// Join runs behind optional auth: signed-in viewers get the paywall flow,
// anonymous ones fall back to the guest path.
func (h *StreamHandler) Join(w http.ResponseWriter, r *http.Request) {
	streamID := chi.URLParam(r, "id")
	a, ok := middleware.ActorFrom(r.Context())

	var (
		res services.JoinResult
		err error
	)
	if ok {
		res, err = h.Streams.Join(r.Context(), a, streamID)
	} else {
		res, err = h.Streams.JoinGuest(r.Context(), streamID)
	}
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *StreamHandler) Pay(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	res, err := h.Streams.Pay(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *StreamHandler) Stop(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Streams.Stop(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (h *StreamHandler) Resume(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.Streams.Resume(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
}

func (h *StreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Streams.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

func (h *StreamHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	var premium *bool
	switch r.URL.Query().Get("premium") {
	case "true":
		v := true
		premium = &v
	case "false":
		v := false
		premium = &v
	}
	streams, err := h.Streams.ListActive(r.Context(), premium, r.URL.Query().Get("category"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, streams)
}

func (h *StreamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Streams.Stats(r.Context())
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *StreamHandler) Like(w http.ResponseWriter, r *http.Request) {
	total, err := h.Streams.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"total_likes": total})
}

func (h *StreamHandler) Comment(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Streams.Comment(r.Context(), a, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *StreamHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	cs, err := h.Streams.Comments(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cs)
}

func (h *StreamHandler) SendGift(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Gifts.SendCoins(r.Context(), a, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// RoomWebhook receives signed room lifecycle events from the video provider.
func (h *StreamHandler) RoomWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "unreadable body", nil)
		return
	}
	if err := h.Streams.HandleRoomEvent(r.Context(), body, r.Header.Get("Authorization")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
