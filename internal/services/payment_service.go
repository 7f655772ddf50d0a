package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/payments"
	repo "github.com/lumenlive/backend/internal/repository"
)

// IntentAPI is the slice of the card processor the top-up flow needs.
type IntentAPI interface {
	CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (payments.Intent, error)
}

type PaymentService struct {
	client        IntentAPI
	events        repo.PaymentEvents
	wallets       repo.Wallets
	txns          repo.Transactions
	notify        *NotificationService
	webhookSecret string
}

func NewPaymentService(client IntentAPI, events repo.PaymentEvents, wallets repo.Wallets, txns repo.Transactions,
	notify *NotificationService, webhookSecret string) *PaymentService {
	return &PaymentService{
		client:        client,
		events:        events,
		wallets:       wallets,
		txns:          txns,
		notify:        notify,
		webhookSecret: webhookSecret,
	}
}

// Coin packages purchasable through the processor, priced in cents.
var coinPackages = map[int64]int64{
	100:   99,
	500:   449,
	1000:  849,
	5000:  3999,
	10000: 7499,
}

type TopUpIntent struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Coins        int64  `json:"coins"`
	AmountCents  int64  `json:"amount_cents"`
}

// CreateTopUp opens a payment intent for a coin package. No coins move here;
// the wallet is credited only by the success webhook.
func (s *PaymentService) CreateTopUp(ctx context.Context, actor models.Actor, coins int64) (TopUpIntent, error) {
	cents, ok := coinPackages[coins]
	if !ok {
		return TopUpIntent{}, apperr.Validation(fmt.Sprintf("no coin package of size %d", coins))
	}
	intent, err := s.client.CreateIntent(ctx, cents, map[string]string{
		"user_id": actor.ID,
		"coins":   strconv.FormatInt(coins, 10),
	})
	if err != nil {
		return TopUpIntent{}, apperr.External("payment processor unavailable", err)
	}
	return TopUpIntent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Coins:        coins,
		AmountCents:  cents,
	}, nil
}

// HandleWebhook verifies, deduplicates, and applies a processor delivery.
// The event id is claimed before the credit, so a redelivered event can never
// credit twice.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := payments.VerifySignature(payload, sigHeader, s.webhookSecret); err != nil {
		return apperr.Validation("invalid webhook signature")
	}
	ev, err := payments.ParseEvent(payload)
	if err != nil {
		return apperr.Validation("malformed webhook payload")
	}
	if ev.Type != payments.EventPaymentSucceeded {
		return nil
	}

	fresh, err := s.events.MarkProcessed(ctx, ev.ID, ev.Type)
	if err != nil {
		return err
	}
	if !fresh {
		metrics.WebhookDuplicates.Inc()
		slog.Info("duplicate payment webhook dropped", "event_id", ev.ID)
		return nil
	}

	userID := ev.Data.Object.Metadata["user_id"]
	coins, convErr := strconv.ParseInt(ev.Data.Object.Metadata["coins"], 10, 64)
	if userID == "" || convErr != nil || coins <= 0 {
		return apperr.Validation("webhook metadata missing user_id or coins")
	}

	if _, err := s.wallets.Credit(ctx, userID, coins); err != nil {
		return err
	}
	if _, err := s.txns.Record(ctx, models.Transaction{
		UserID:          userID,
		Amount:          coins,
		Direction:       models.TxnCredit,
		Reason:          models.ReasonTopup,
		RelatedEntityID: &ev.Data.Object.ID,
		Description:     fmt.Sprintf("purchased %d coins", coins),
	}); err != nil {
		return err
	}

	metrics.CoinsMoved.WithLabelValues(string(models.ReasonTopup)).Add(float64(coins))
	s.notify.Push(userID, models.NotifyFinance, "Coins added",
		fmt.Sprintf("%d coins were added to your wallet.", coins), ev.Data.Object.ID)
	return nil
}
