package auth

import (
	"testing"
	"time"

	"github.com/lumenlive/backend/internal/models"
)

func testTM() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "test", 15*time.Minute, 24*time.Hour)
}

func TestGeneratePairRoundTrip(t *testing.T) {
	tm := testTM()
	a := models.Actor{
		ID:          "user-1",
		DisplayName: "Alice",
		Role:        models.RoleModerator,
		Permissions: []string{models.PermApprovePayouts},
	}

	access, refresh, exp, err := tm.GeneratePair(a)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("access expiry in the past")
	}

	claims, isRefresh, err := tm.ParseAny(access)
	if err != nil || isRefresh {
		t.Fatalf("parse access: %v (refresh=%t)", err, isRefresh)
	}
	got := claims.Actor()
	if got.ID != a.ID || got.Role != a.Role {
		t.Errorf("actor = %+v", got)
	}
	if !got.Can(models.PermApprovePayouts) || got.Can(models.PermManageConfig) {
		t.Errorf("permissions not preserved: %+v", got.Permissions)
	}

	_, isRefresh, err = tm.ParseAny(refresh)
	if err != nil || !isRefresh {
		t.Fatalf("parse refresh: %v (refresh=%t)", err, isRefresh)
	}
}

func TestParseAnyRejectsForeignTokens(t *testing.T) {
	tm := testTM()
	other := NewTokenManager("other-access", "other-refresh", "test", time.Minute, time.Hour)

	access, _, _, err := other.GeneratePair(models.Actor{ID: "user-1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := tm.ParseAny(access); err == nil {
		t.Error("token under a different secret accepted")
	}
	if _, _, err := tm.ParseAny("not-a-token"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestAdminImpliesAllPermissions(t *testing.T) {
	a := models.Actor{ID: "root", Role: models.RoleAdmin}
	if !a.Can(models.PermManageConfig) || !a.Can(models.PermApprovePayouts) || !a.IsAdmin() {
		t.Errorf("admin must hold every capability")
	}
	u := models.Actor{ID: "u", Role: models.RoleUser}
	if u.Can(models.PermModerateStreams) || u.IsAdmin() {
		t.Errorf("plain user holds staff capability")
	}
}
