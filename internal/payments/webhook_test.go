package payments

import (
	"testing"
	"time"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	secret := "whsec_test"

	if err := VerifySignature(payload, Sign(payload, secret, time.Now()), secret); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	header := Sign(payload, secret, time.Now())

	tampered := []byte(`{"id":"evt_2","type":"payment_intent.succeeded"}`)
	if err := VerifySignature(tampered, header, secret); err == nil {
		t.Error("tampered payload accepted")
	}
	if err := VerifySignature(payload, header, "other-secret"); err == nil {
		t.Error("wrong secret accepted")
	}
	if err := VerifySignature(payload, "garbage", secret); err == nil {
		t.Error("malformed header accepted")
	}
}

func TestVerifySignatureRejectsReplay(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"

	if err := VerifySignature(payload, Sign(payload, secret, time.Now().Add(-10*time.Minute)), secret); err == nil {
		t.Error("stale timestamp accepted")
	}
	if err := VerifySignature(payload, Sign(payload, secret, time.Now().Add(10*time.Minute)), secret); err == nil {
		t.Error("future timestamp accepted")
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":499,"metadata":{"user_id":"u1","coins":"500"}}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.ID != "evt_1" || ev.Data.Object.AmountCents != 499 || ev.Data.Object.Metadata["coins"] != "500" {
		t.Errorf("event = %+v", ev)
	}

	if _, err := ParseEvent([]byte(`{"type":"x"}`)); err == nil {
		t.Error("event without id accepted")
	}
	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Error("non-json accepted")
	}
}
