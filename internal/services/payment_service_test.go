package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/payments"
)

func succeededEvent(eventID, userID string, coins int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_1",
			"status": "succeeded",
			"amount": 99,
			"metadata": {"user_id": %q, "coins": "%d"}
		}}
	}`, eventID, userID, coins))
}

func TestCreateTopUpValidatesPackage(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	intent, err := e.paymentSvc.CreateTopUp(ctx, actorOf("alice", models.RoleUser), 100)
	if err != nil {
		t.Fatalf("create topup: %v", err)
	}
	if intent.IntentID == "" || intent.ClientSecret == "" || intent.AmountCents != 99 {
		t.Errorf("intent = %+v", intent)
	}
	if got := e.wallets.balance("alice"); got != 0 {
		t.Errorf("intent creation credited coins: %d", got)
	}

	_, err = e.paymentSvc.CreateTopUp(ctx, actorOf("alice", models.RoleUser), 123)
	if ae := apperr.From(err); ae == nil || ae.Kind != apperr.KindValidation {
		t.Fatalf("want validation error for unknown package, got %v", err)
	}
}

func TestWebhookCreditsOncePerEvent(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	body := succeededEvent("evt_1", "alice", 500)
	sig := payments.Sign(body, testWebhookSecret, time.Now())

	if err := e.paymentSvc.HandleWebhook(ctx, body, sig); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if got := e.wallets.balance("alice"); got != 500 {
		t.Errorf("balance = %d, want 500", got)
	}

	// Redelivery of the same event id is acknowledged but not applied.
	if err := e.paymentSvc.HandleWebhook(ctx, body, sig); err != nil {
		t.Fatalf("duplicate webhook: %v", err)
	}
	if got := e.wallets.balance("alice"); got != 500 {
		t.Errorf("duplicate delivery credited again: %d", got)
	}
	if n := len(e.txns.byReason("alice", models.ReasonTopup)); n != 1 {
		t.Errorf("topup entries = %d, want 1", n)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	body := succeededEvent("evt_2", "alice", 500)

	err := e.paymentSvc.HandleWebhook(ctx, body, payments.Sign(body, "wrong-secret", time.Now()))
	if ae := apperr.From(err); ae == nil || ae.Kind != apperr.KindValidation {
		t.Fatalf("want validation error for bad signature, got %v", err)
	}

	// Stale timestamp is a replay and is rejected too.
	err = e.paymentSvc.HandleWebhook(ctx, body, payments.Sign(body, testWebhookSecret, time.Now().Add(-time.Hour)))
	if ae := apperr.From(err); ae == nil || ae.Kind != apperr.KindValidation {
		t.Fatalf("want validation error for stale signature, got %v", err)
	}
	if got := e.wallets.balance("alice"); got != 0 {
		t.Errorf("rejected webhook credited coins: %d", got)
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	body := []byte(`{"id":"evt_3","type":"payment_intent.created","data":{"object":{"id":"pi_9","metadata":{"user_id":"alice","coins":"500"}}}}`)
	if err := e.paymentSvc.HandleWebhook(ctx, body, payments.Sign(body, testWebhookSecret, time.Now())); err != nil {
		t.Fatalf("non-success event should be acknowledged: %v", err)
	}
	if got := e.wallets.balance("alice"); got != 0 {
		t.Errorf("non-success event credited coins: %d", got)
	}
}
