package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
	"github.com/lumenlive/backend/internal/video"
)

// RoomAPI is the slice of the video provider the stream flow needs.
type RoomAPI interface {
	RemoveParticipant(ctx context.Context, room, identity string) error
}

type StreamService struct {
	streams  repo.Streams
	viewers  repo.Viewers
	comments repo.Comments
	wallets  repo.Wallets
	txns     repo.Transactions
	admin    *AdminService
	notify   *NotificationService
	issuer   *video.TokenIssuer
	rooms    RoomAPI
	previews *previewScheduler

	previewWindow time.Duration
}

func NewStreamService(streams repo.Streams, viewers repo.Viewers, comments repo.Comments,
	wallets repo.Wallets, txns repo.Transactions,
	admin *AdminService, notify *NotificationService, issuer *video.TokenIssuer, rooms RoomAPI,
	previewWindow time.Duration) *StreamService {
	return &StreamService{
		streams:       streams,
		viewers:       viewers,
		comments:      comments,
		wallets:       wallets,
		txns:          txns,
		admin:         admin,
		notify:        notify,
		issuer:        issuer,
		rooms:         rooms,
		previews:      newPreviewScheduler(),
		previewWindow: previewWindow,
	}
}

type StartParams struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	IsPremium bool   `json:"is_premium"`
	EntryFee  int64  `json:"entry_fee"`
}

type StartResult struct {
	Stream models.Stream `json:"stream"`
	Token  string        `json:"token"`
}

// Start opens a live stream. Premium hosts pay the entry fee amount up front
// as a listing fee for the paid slot.
func (s *StreamService) Start(ctx context.Context, host models.Actor, p StartParams) (StartResult, error) {
	if p.Title == "" {
		return StartResult{}, apperr.Validation("title is required")
	}
	if p.IsPremium {
		if err := s.admin.CheckFeature(models.FeaturePaidStreams); err != nil {
			return StartResult{}, err
		}
		if p.EntryFee <= 0 {
			return StartResult{}, apperr.Validation("entry_fee must be positive for premium streams")
		}
	} else {
		p.EntryFee = 0
	}

	channel := fmt.Sprintf("live_%s_%d", host.ID, time.Now().Unix())

	stream, err := s.streams.Create(ctx, models.Stream{
		HostID:      host.ID,
		ChannelName: channel,
		Title:       p.Title,
		Category:    p.Category,
		IsPremium:   p.IsPremium,
		EntryFee:    p.EntryFee,
		Status:      models.StreamLive,
		StartTime:   time.Now(),
	})
	if err != nil {
		return StartResult{}, err
	}

	if p.IsPremium {
		if _, err := s.wallets.Debit(ctx, host.ID, p.EntryFee); err != nil {
			if endErr := s.streams.SetStatus(ctx, stream.ID, models.StreamEnded); endErr != nil {
				slog.Error("premium stream rollback failed", "stream_id", stream.ID, "err", endErr)
			}
			return StartResult{}, err
		}
		if _, err := s.txns.Record(ctx, models.Transaction{
			UserID:          host.ID,
			Amount:          p.EntryFee,
			Direction:       models.TxnDebit,
			Reason:          models.ReasonHostStreamFee,
			RelatedEntityID: &stream.ID,
			Description:     "fee to open premium stream " + stream.Title,
		}); err != nil {
			return StartResult{}, err
		}
		metrics.CoinsMoved.WithLabelValues(string(models.ReasonHostStreamFee)).Add(float64(p.EntryFee))
	}

	token, err := s.issuer.RoomToken(host.ID, host.DisplayName, channel, true, true)
	if err != nil {
		return StartResult{}, apperr.External("video token mint failed", err)
	}
	return StartResult{Stream: stream, Token: token}, nil
}

type JoinResult struct {
	Token       string `json:"token"`
	ChannelName string `json:"channel_name"`
	IsPremium   bool   `json:"is_premium"`
	EntryFee    int64  `json:"entry_fee"`
	HasPaid     bool   `json:"has_paid"`
	PreviewSecs int    `json:"preview_seconds,omitempty"`
}

// Join admits a viewer. Premium streams grant unpaid viewers a preview token
// without subscription rights and arm a revocation timer; staff and the host
// bypass the paywall.
func (s *StreamService) Join(ctx context.Context, viewer models.Actor, streamID string) (JoinResult, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return JoinResult{}, err
	}
	if stream.Status != models.StreamLive {
		return JoinResult{}, apperr.NotFound("stream is not live")
	}

	hasPaid := !stream.IsPremium
	bypass := viewer.ID == stream.HostID || viewer.IsAdmin() || viewer.Can(models.PermModerateStreams)
	if bypass {
		hasPaid = true
	}

	v, err := s.viewers.Get(ctx, streamID, viewer.ID)
	switch {
	case err == nil:
		hasPaid = hasPaid || v.HasPaid
	case apperr.From(err) != nil && apperr.From(err).Kind == apperr.KindNotFound:
		if err := s.viewers.Create(ctx, models.StreamViewer{
			StreamID: streamID,
			UserID:   viewer.ID,
			HasPaid:  hasPaid,
		}); err != nil {
			return JoinResult{}, err
		}
		if err := s.streams.IncrementViews(ctx, streamID); err != nil {
			return JoinResult{}, err
		}
	default:
		return JoinResult{}, err
	}

	res := JoinResult{
		ChannelName: stream.ChannelName,
		IsPremium:   stream.IsPremium,
		EntryFee:    stream.EntryFee,
		HasPaid:     hasPaid,
	}

	if stream.IsPremium && !hasPaid {
		res.PreviewSecs = int(s.previewWindow.Seconds())
		channel, identity := stream.ChannelName, viewer.ID
		s.previews.Schedule(streamID, viewer.ID, s.previewWindow, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.rooms.RemoveParticipant(ctx, channel, identity); err != nil {
				slog.Error("preview revocation failed", "stream_id", streamID, "user_id", identity, "err", err)
				return
			}
			slog.Info("preview expired, viewer removed", "stream_id", streamID, "user_id", identity)
		})
	}

	token, err := s.issuer.RoomToken(viewer.ID, viewer.DisplayName, stream.ChannelName, false, hasPaid)
	if err != nil {
		return JoinResult{}, apperr.External("video token mint failed", err)
	}
	res.Token = token
	return res, nil
}

// JoinGuest admits an anonymous viewer to a free stream. Premium streams
// require an account so the paywall can attach to someone.
func (s *StreamService) JoinGuest(ctx context.Context, streamID string) (JoinResult, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return JoinResult{}, err
	}
	if stream.Status != models.StreamLive {
		return JoinResult{}, apperr.NotFound("stream is not live")
	}
	if stream.IsPremium {
		return JoinResult{}, apperr.Permission("sign in to join a premium stream")
	}
	if err := s.streams.IncrementViews(ctx, streamID); err != nil {
		return JoinResult{}, err
	}
	identity := "guest_" + uuid.NewString()[:8]
	token, err := s.issuer.RoomToken(identity, "Guest", stream.ChannelName, false, true)
	if err != nil {
		return JoinResult{}, apperr.External("video token mint failed", err)
	}
	return JoinResult{
		Token:       token,
		ChannelName: stream.ChannelName,
		IsPremium:   false,
		HasPaid:     true,
	}, nil
}

type PayResult struct {
	Token   string `json:"token"`
	Balance int64  `json:"balance"`
}

// Pay settles a premium entry fee. Repeat calls after a successful payment
// return a fresh full-access token without charging again.
func (s *StreamService) Pay(ctx context.Context, viewer models.Actor, streamID string) (PayResult, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return PayResult{}, err
	}
	if stream.Status != models.StreamLive {
		return PayResult{}, apperr.NotFound("stream is not live")
	}
	if !stream.IsPremium {
		return PayResult{}, apperr.Validation("stream has no entry fee")
	}

	v, err := s.viewers.Get(ctx, streamID, viewer.ID)
	if err != nil {
		if e := apperr.From(err); e != nil && e.Kind == apperr.KindNotFound {
			return PayResult{}, apperr.Validation("join the stream before paying")
		}
		return PayResult{}, err
	}

	if !v.HasPaid {
		if err := s.wallets.Transfer(ctx, viewer.ID, stream.HostID, stream.EntryFee); err != nil {
			return PayResult{}, err
		}
		paid, err := s.viewers.MarkPaid(ctx, streamID, viewer.ID, stream.EntryFee)
		if err != nil {
			return PayResult{}, err
		}
		if !paid {
			// A concurrent payment won; undo this one.
			if err := s.wallets.Transfer(ctx, stream.HostID, viewer.ID, stream.EntryFee); err != nil {
				slog.Error("duplicate entry fee refund failed",
					"stream_id", streamID, "user_id", viewer.ID, "err", err)
			}
		} else {
			if err := s.streams.AddEarnings(ctx, streamID, stream.EntryFee); err != nil {
				return PayResult{}, err
			}
			desc := "entry fee for stream " + stream.Title
			if _, err := s.txns.Record(ctx, models.Transaction{
				UserID:          viewer.ID,
				Amount:          stream.EntryFee,
				Direction:       models.TxnDebit,
				Reason:          models.ReasonEntryFeePaid,
				RelatedEntityID: &stream.ID,
				Description:     desc,
			}); err != nil {
				return PayResult{}, err
			}
			if _, err := s.txns.Record(ctx, models.Transaction{
				UserID:          stream.HostID,
				Amount:          stream.EntryFee,
				Direction:       models.TxnCredit,
				Reason:          models.ReasonEntryFeeReceived,
				RelatedEntityID: &stream.ID,
				Description:     desc,
			}); err != nil {
				return PayResult{}, err
			}
			metrics.CoinsMoved.WithLabelValues(string(models.ReasonEntryFeePaid)).Add(float64(stream.EntryFee))
			s.notify.Push(stream.HostID, models.NotifyFinance, "Entry fee received",
				fmt.Sprintf("%s paid %d coins to join your stream", viewer.DisplayName, stream.EntryFee), stream.ID)
		}
	}

	// Disarm any pending preview revocation; a timer that already fired is
	// moot because the viewer gets a fresh full-access token below.
	s.previews.Resolve(streamID, viewer.ID)

	token, err := s.issuer.RoomToken(viewer.ID, viewer.DisplayName, stream.ChannelName, false, true)
	if err != nil {
		return PayResult{}, apperr.External("video token mint failed", err)
	}
	w, err := s.wallets.GetOrCreate(ctx, viewer.ID)
	if err != nil {
		return PayResult{}, err
	}
	return PayResult{Token: token, Balance: w.Coins}, nil
}

// Stop ends a stream. The host may stop their own; staff with the moderation
// capability may stop any, which is audited.
func (s *StreamService) Stop(ctx context.Context, actor models.Actor, streamID string) error {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if stream.Status != models.StreamLive {
		return apperr.Conflict("stream is not live")
	}
	isStaff := actor.ID != stream.HostID
	if isStaff && !actor.Can(models.PermModerateStreams) {
		return apperr.Permission("only the host or a moderator can stop a stream")
	}
	if err := s.streams.SetStatus(ctx, streamID, models.StreamEnded); err != nil {
		return err
	}
	if isStaff {
		if err := s.admin.Audit(ctx, actor, "stream_stopped", "stream:"+streamID,
			models.SeverityMedium, "host: "+stream.HostID); err != nil {
			return err
		}
		s.notify.Push(stream.HostID, models.NotifyLive, "Stream stopped",
			"Your stream was stopped by a moderator.", streamID)
	}
	return nil
}

// Resume puts a staff-stopped stream back on air.
func (s *StreamService) Resume(ctx context.Context, actor models.Actor, streamID string) error {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if stream.Status != models.StreamEnded {
		return apperr.Conflict("stream is already live")
	}
	isStaff := actor.ID != stream.HostID
	if isStaff && !actor.Can(models.PermModerateStreams) {
		return apperr.Permission("only the host or a moderator can resume a stream")
	}
	if err := s.streams.SetStatus(ctx, streamID, models.StreamLive); err != nil {
		return err
	}
	if isStaff {
		if err := s.admin.Audit(ctx, actor, "stream_resumed", "stream:"+streamID,
			models.SeverityMedium, "host: "+stream.HostID); err != nil {
			return err
		}
		s.notify.Push(stream.HostID, models.NotifyLive, "Stream resumed",
			"Your stream is live again.", streamID)
	}
	return nil
}

// Like bumps the stream's like counter and returns the new total. Repeat
// taps from the same viewer all count.
func (s *StreamService) Like(ctx context.Context, streamID string) (int64, error) {
	if _, err := s.streams.GetByID(ctx, streamID); err != nil {
		return 0, err
	}
	return s.streams.IncrementLikes(ctx, streamID)
}

// Comment attaches a persistent comment to a stream and bumps its counter.
func (s *StreamService) Comment(ctx context.Context, author models.Actor, streamID, content string) (models.StreamComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.StreamComment{}, apperr.Validation("comment content is required")
	}
	if _, err := s.streams.GetByID(ctx, streamID); err != nil {
		return models.StreamComment{}, err
	}
	c, err := s.comments.Create(ctx, models.StreamComment{
		StreamID: streamID,
		UserID:   author.ID,
		UserName: author.DisplayName,
		Content:  content,
	})
	if err != nil {
		return models.StreamComment{}, err
	}
	if err := s.streams.IncrementComments(ctx, streamID); err != nil {
		return models.StreamComment{}, err
	}
	return c, nil
}

// Comments lists a stream's comments newest-first.
func (s *StreamService) Comments(ctx context.Context, streamID string, limit, offset int) ([]models.StreamComment, error) {
	if _, err := s.streams.GetByID(ctx, streamID); err != nil {
		return nil, err
	}
	cs, err := s.comments.ListByStream(ctx, streamID, limit, offset)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		cs = []models.StreamComment{}
	}
	return cs, nil
}

func (s *StreamService) Get(ctx context.Context, id string) (models.Stream, error) {
	return s.streams.GetByID(ctx, id)
}

func (s *StreamService) ListActive(ctx context.Context, premium *bool, category string) ([]models.Stream, error) {
	streams, err := s.streams.ListActive(ctx, premium, category)
	if err != nil {
		return nil, err
	}
	if streams == nil {
		streams = []models.Stream{}
	}
	return streams, nil
}

func (s *StreamService) Stats(ctx context.Context) (models.StreamStats, error) {
	return s.streams.Stats(ctx)
}

// HandleRoomEvent processes the video provider's signed webhook. Only
// room_finished is acted on; other events are acknowledged and dropped.
func (s *StreamService) HandleRoomEvent(ctx context.Context, body []byte, authHeader string) error {
	ev, err := s.issuer.VerifyWebhook(body, authHeader)
	if err != nil {
		return apperr.Validation("invalid webhook: " + err.Error())
	}
	if ev.Event != "room_finished" {
		return nil
	}
	stream, err := s.streams.GetLiveByChannel(ctx, ev.Room.Name)
	if err != nil {
		if e := apperr.From(err); e != nil && e.Kind == apperr.KindNotFound {
			return nil
		}
		return err
	}
	if err := s.streams.SetStatus(ctx, stream.ID, models.StreamEnded); err != nil {
		return err
	}
	slog.Info("stream ended by room event", "stream_id", stream.ID, "channel", ev.Room.Name)
	return nil
}
