// Package video integrates the external video-room provider: room join
// credentials, signed webhooks, and server-initiated participant removal.
package video

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Grant describes what a participant may do inside a room.
type Grant struct {
	RoomJoin       bool   `json:"roomJoin"`
	Room           string `json:"room"`
	RoomAdmin      bool   `json:"roomAdmin,omitempty"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

type roomClaims struct {
	Name   string `json:"name,omitempty"`
	Video  Grant  `json:"video"`
	Sha256 string `json:"sha256,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	apiKey    string
	apiSecret []byte
	ttl       time.Duration
}

func NewTokenIssuer(apiKey, apiSecret string) *TokenIssuer {
	return &TokenIssuer{apiKey: apiKey, apiSecret: []byte(apiSecret), ttl: 6 * time.Hour}
}

// RoomToken mints a join credential for (identity, room). Subscription is
// the playback gate for premium streams: unpaid viewers get
// canSubscribe=false and see the blurred preview only.
func (i *TokenIssuer) RoomToken(identity, name, room string, canPublish, canSubscribe bool) (string, error) {
	now := time.Now()
	claims := roomClaims{
		Name: name,
		Video: Grant{
			RoomJoin:       true,
			Room:           room,
			CanPublish:     canPublish,
			CanSubscribe:   canSubscribe,
			CanPublishData: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.apiSecret)
}

func (i *TokenIssuer) adminToken(room string) (string, error) {
	now := time.Now()
	claims := roomClaims{
		Video: Grant{Room: room, RoomAdmin: true},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   i.apiKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.apiSecret)
}

// WebhookEvent is the provider's room lifecycle payload.
type WebhookEvent struct {
	Event string `json:"event"`
	Room  struct {
		Name string `json:"name"`
	} `json:"room"`
}

// VerifyWebhook checks the Authorization JWT and that its sha256 claim
// matches the request body, then decodes the event.
func (i *TokenIssuer) VerifyWebhook(body []byte, authHeader string) (WebhookEvent, error) {
	var ev WebhookEvent
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if tokenStr == "" {
		return ev, errors.New("missing webhook authorization")
	}

	claims := &roomClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return i.apiSecret, nil
	})
	if err != nil {
		return ev, err
	}

	sum := sha256.Sum256(body)
	if claims.Sha256 != hex.EncodeToString(sum[:]) {
		return ev, errors.New("webhook body digest mismatch")
	}

	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, err
	}
	return ev, nil
}
