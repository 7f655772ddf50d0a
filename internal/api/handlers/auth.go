package handlers

import (
	"net/http"
	"time"

	"github.com/lumenlive/backend/internal/api/httpx"
	"github.com/lumenlive/backend/internal/api/validate"
	"github.com/lumenlive/backend/internal/auth"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/services"
)

type AuthHandler struct {
	TM    *auth.TokenManager
	Users *services.UserService
}

func NewAuthHandler(tm *auth.TokenManager, users *services.UserService) *AuthHandler {
	return &AuthHandler{TM: tm, Users: users}
}

type tokenResp struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterParams
	if !decode(w, r, &req) {
		return
	}
	var errs validate.Errs
	for field, v := range map[string]string{"username": req.Username, "email": req.Email, "password": req.Password} {
		if e := validate.Required(field, v); e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request", errs)
		return
	}
	u, err := h.Users.Register(r.Context(), req)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	h.writeTokens(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}
	h.writeTokens(w, http.StatusOK, u)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(w, r, &req) {
		return
	}
	claims, isRefresh, err := h.TM.ParseAny(req.RefreshToken)
	if err != nil || !isRefresh {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	// Re-read the user so a suspension or permission change since the
	// refresh token was minted takes effect now.
	u, err := h.Users.Get(r.Context(), claims.UserID)
	if err != nil || u.Status != models.StatusActive {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "account unavailable", nil)
		return
	}
	h.writeTokens(w, http.StatusOK, u)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	u, err := h.Users.Get(r.Context(), a.ID)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) writeTokens(w http.ResponseWriter, status int, u models.User) {
	access, refresh, exp, err := h.TM.GeneratePair(h.Users.Actor(u))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, status, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(exp).Seconds()),
		User:         u,
	})
}
