package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumenlive/backend/internal/models"
)

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type Claims struct {
	UserID      string      `json:"uid"`
	DisplayName string      `json:"name"`
	Role        models.Role `json:"role"`
	Permissions []string    `json:"perms,omitempty"`
	Type        string      `json:"typ"` // "access" | "refresh"
	jwt.RegisteredClaims
}

func (c *Claims) Actor() models.Actor {
	return models.Actor{
		ID:          c.UserID,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
}

// GeneratePair mints an access and a refresh token for the given actor.
func (tm *TokenManager) GeneratePair(a models.Actor) (access, refresh string, accessExp time.Time, err error) {
	now := time.Now()
	base := Claims{
		UserID:      a.ID,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Permissions: a.Permissions,
	}

	acc := base
	acc.Type = "access"
	acc.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tm.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTTL)),
	}
	ref := base
	ref.Type = "refresh"
	ref.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tm.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.refreshTTL)),
	}

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, acc).SignedString(tm.accessSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, ref).SignedString(tm.refreshSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return access, refresh, acc.ExpiresAt.Time, nil
}

// ParseAny tries the access secret first, then refresh. The bool reports
// whether the token was a refresh token.
func (tm *TokenManager) ParseAny(tokenStr string) (*Claims, bool, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return tm.accessSecret, nil
	})
	if err == nil && claims.Type == "access" {
		return claims, false, nil
	}

	claims = &Claims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return tm.refreshSecret, nil
	})
	if err == nil && claims.Type == "refresh" {
		return claims, true, nil
	}
	return nil, false, errors.New("invalid token")
}
