package services

import (
	"context"
	"fmt"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
)

// RoomEvents fans platform events into the stream's live chat room.
type RoomEvents interface {
	GiftSent(streamID, senderID, senderName string, amount int64)
}

type GiftService struct {
	wallets  repo.Wallets
	txns     repo.Transactions
	streams  repo.Streams
	giftLogs repo.GiftLogs
	admin    *AdminService
	notify   *NotificationService
	events   RoomEvents
}

func NewGiftService(wallets repo.Wallets, txns repo.Transactions, streams repo.Streams, giftLogs repo.GiftLogs, admin *AdminService, notify *NotificationService, events RoomEvents) *GiftService {
	return &GiftService{wallets: wallets, txns: txns, streams: streams, giftLogs: giftLogs, admin: admin, notify: notify, events: events}
}

type GiftResult struct {
	Gift    models.GiftLog `json:"gift"`
	Balance int64          `json:"balance"`
}

// SendCoins moves coins from a viewer to the host of a live stream. The
// wallet transfer runs in one database transaction with a conditional debit,
// so a sender racing their own balance cannot overdraw.
func (s *GiftService) SendCoins(ctx context.Context, sender models.Actor, streamID string, amount int64) (GiftResult, error) {
	if amount <= 0 {
		return GiftResult{}, apperr.Validation("gift amount must be positive")
	}
	if err := s.admin.CheckFeature(models.FeatureGifting); err != nil {
		return GiftResult{}, err
	}

	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return GiftResult{}, err
	}
	if stream.Status != models.StreamLive {
		return GiftResult{}, apperr.NotFound("stream is not live")
	}
	if stream.HostID == sender.ID {
		return GiftResult{}, apperr.Validation("cannot send coins to your own stream")
	}

	if err := s.wallets.Transfer(ctx, sender.ID, stream.HostID, amount); err != nil {
		return GiftResult{}, err
	}
	if err := s.streams.AddEarnings(ctx, streamID, amount); err != nil {
		return GiftResult{}, err
	}

	gift, err := s.giftLogs.Create(ctx, models.GiftLog{
		SenderID:   sender.ID,
		ReceiverID: stream.HostID,
		StreamID:   streamID,
		Amount:     amount,
	})
	if err != nil {
		return GiftResult{}, err
	}

	desc := fmt.Sprintf("gift on stream %s", stream.Title)
	if _, err := s.txns.Record(ctx, models.Transaction{
		UserID:          sender.ID,
		Amount:          amount,
		Direction:       models.TxnDebit,
		Reason:          models.ReasonGiftSent,
		RelatedEntityID: &gift.ID,
		Description:     desc,
	}); err != nil {
		return GiftResult{}, err
	}
	if _, err := s.txns.Record(ctx, models.Transaction{
		UserID:          stream.HostID,
		Amount:          amount,
		Direction:       models.TxnCredit,
		Reason:          models.ReasonGiftReceived,
		RelatedEntityID: &gift.ID,
		Description:     desc,
	}); err != nil {
		return GiftResult{}, err
	}

	metrics.CoinsMoved.WithLabelValues(string(models.ReasonGiftSent)).Add(float64(amount))
	s.events.GiftSent(streamID, sender.ID, sender.DisplayName, amount)
	s.notify.Push(stream.HostID, models.NotifyFinance, "Gift received",
		fmt.Sprintf("%s sent you %d coins", sender.DisplayName, amount), gift.ID)

	w, err := s.wallets.Get(ctx, sender.ID)
	if err != nil {
		return GiftResult{}, err
	}
	return GiftResult{Gift: gift, Balance: w.Coins}, nil
}
