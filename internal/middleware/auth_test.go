package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumenlive/backend/internal/auth"
	"github.com/lumenlive/backend/internal/models"
)

func okHandler(t *testing.T, wantActor string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := ActorFrom(r.Context())
		if wantActor != "" && (!ok || a.ID != wantActor) {
			t.Errorf("actor in context = %+v (ok=%t), want %s", a, ok, wantActor)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingAndRefreshTokens(t *testing.T) {
	tm := auth.NewTokenManager("a-secret", "r-secret", "test", time.Minute, time.Hour)
	am := NewAuthMiddleware(tm)
	h := am.Auth(okHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	_, refresh, _, err := tm.GeneratePair(models.Actor{ID: "u1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh token on access route: status = %d, want 401", rec.Code)
	}
}

func TestAuthPlacesActorInContext(t *testing.T) {
	tm := auth.NewTokenManager("a-secret", "r-secret", "test", time.Minute, time.Hour)
	am := NewAuthMiddleware(tm)
	h := am.Auth(okHandler(t, "u1"))

	access, _, _, err := tm.GeneratePair(models.Actor{ID: "u1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	tm := auth.NewTokenManager("a-secret", "r-secret", "test", time.Minute, time.Hour)
	am := NewAuthMiddleware(tm)
	h := am.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); ok {
			t.Error("anonymous request has an actor")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	guard := RequirePermission(models.PermApprovePayouts)(okHandler(t, ""))

	// Moderator without the capability is refused.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), models.Actor{ID: "m", Role: models.RoleModerator}))
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	// Admin passes without the explicit permission.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), models.Actor{ID: "root", Role: models.RoleAdmin}))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}
