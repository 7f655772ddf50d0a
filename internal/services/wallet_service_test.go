package services

import (
	"context"
	"testing"
	"time"

	"github.com/lumenlive/backend/internal/models"
)

func TestReconcileMatchesLedger(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	e.fund("alice", 0)
	alice := actorOf("alice", models.RoleUser)

	// Build balance through real flows so ledger and wallet move together.
	body := succeededEvent("evt_r1", "alice", 1000)
	sig := signPaymentEvent(body)
	if err := e.paymentSvc.HandleWebhook(ctx, body, sig); err != nil {
		t.Fatalf("topup: %v", err)
	}
	s := liveStream(t, e, "bob", false, 0)
	if _, err := e.giftSvc.SendCoins(ctx, alice, s.ID, 300); err != nil {
		t.Fatalf("gift: %v", err)
	}

	report, err := e.walletSvc.Reconcile(ctx, "alice")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent {
		t.Errorf("ledger out of sync: balance=%d sum=%d", report.Balance, report.LedgerSum)
	}
	if report.Balance != 700 {
		t.Errorf("balance = %d, want 700", report.Balance)
	}

	hostReport, err := e.walletSvc.Reconcile(ctx, "bob")
	if err != nil {
		t.Fatalf("reconcile host: %v", err)
	}
	if !hostReport.Consistent || hostReport.Balance != 300 {
		t.Errorf("host report = %+v", hostReport)
	}
}

func TestReconcileFlagsDrift(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	// A raw credit with no paired log entry is exactly the drift the
	// report exists to catch.
	e.fund("alice", 500)

	report, err := e.walletSvc.Reconcile(ctx, "alice")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.Consistent {
		t.Error("unlogged credit reported as consistent")
	}
}

func TestHistoryFiltersByUser(t *testing.T) {
	e := newTestEnv(t, time.Second)
	ctx := context.Background()

	e.fund("alice", 1000)
	e.fund("carol", 1000)
	s := liveStream(t, e, "bob", false, 0)
	if _, err := e.giftSvc.SendCoins(ctx, actorOf("alice", models.RoleUser), s.ID, 100); err != nil {
		t.Fatalf("gift: %v", err)
	}
	if _, err := e.giftSvc.SendCoins(ctx, actorOf("carol", models.RoleUser), s.ID, 50); err != nil {
		t.Fatalf("gift: %v", err)
	}

	hist, err := e.walletSvc.History(ctx, "alice", 50, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, txn := range hist {
		if txn.UserID != "alice" {
			t.Errorf("foreign transaction in history: %+v", txn)
		}
	}
	if len(hist) != 1 {
		t.Errorf("history entries = %d, want 1", len(hist))
	}
}
