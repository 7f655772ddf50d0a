package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is a webhook delivery from the processor.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID          string            `json:"id"`
			Status      string            `json:"status"`
			AmountCents int64             `json:"amount"`
			Metadata    map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

const EventPaymentSucceeded = "payment_intent.succeeded"

var ErrBadSignature = errors.New("invalid webhook signature")

const signatureTolerance = 5 * time.Minute

// VerifySignature checks the processor's "t=<unix>,v1=<hmac>" header: an
// HMAC-SHA256 of "<t>.<payload>" under the webhook secret, with a bounded
// timestamp skew to block replays.
func VerifySignature(payload []byte, header, secret string) error {
	var ts string
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return ErrBadSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if d := time.Since(time.Unix(unix, 0)); d > signatureTolerance || d < -signatureTolerance {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", ts, payload)
	expect := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expect), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, err
	}
	if ev.ID == "" || ev.Type == "" {
		return ev, errors.New("malformed webhook event")
	}
	return ev, nil
}

// Sign builds the signature header for a payload. Used by tests and by the
// local webhook replayer.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", ts, payload)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
