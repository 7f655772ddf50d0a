package video

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RoomClient talks to the provider's server API.
type RoomClient struct {
	baseURL string
	issuer  *TokenIssuer
	hc      *http.Client
}

func NewRoomClient(baseURL string, issuer *TokenIssuer) *RoomClient {
	return &RoomClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		issuer:  issuer,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// RemoveParticipant kicks an identity out of a room. Used by the paid-stream
// preview revocation when the window expires unpaid.
func (c *RoomClient) RemoveParticipant(ctx context.Context, room, identity string) error {
	token, err := c.issuer.adminToken(room)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/rooms/%s/participants/%s", c.baseURL,
		url.PathEscape(room), url.PathEscape(identity))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("remove participant: status %d", resp.StatusCode)
	}
	return nil
}
