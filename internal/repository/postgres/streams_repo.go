package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
)

type streamsRepo struct{ pool *pgxpool.Pool }

const streamCols = `id, host_id, channel_name, title, category, is_premium, entry_fee,
	status, earn_coins, total_views, total_likes, total_comments, start_time, end_time`

func scanStream(row pgx.Row) (models.Stream, error) {
	var s models.Stream
	err := row.Scan(&s.ID, &s.HostID, &s.ChannelName, &s.Title, &s.Category, &s.IsPremium,
		&s.EntryFee, &s.Status, &s.EarnCoins, &s.TotalViews, &s.TotalLikes,
		&s.TotalComments, &s.StartTime, &s.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Stream{}, apperr.NotFound("live stream not found")
	}
	return s, err
}

func (r *streamsRepo) Create(ctx context.Context, s models.Stream) (models.Stream, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO streams(id, host_id, channel_name, title, category, is_premium, entry_fee, status)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING start_time`,
		s.ID, s.HostID, s.ChannelName, s.Title, s.Category, s.IsPremium, s.EntryFee, s.Status).
		Scan(&s.StartTime)
	return s, err
}

func (r *streamsRepo) GetByID(ctx context.Context, id string) (models.Stream, error) {
	return scanStream(r.pool.QueryRow(ctx, `SELECT `+streamCols+` FROM streams WHERE id=$1`, id))
}

func (r *streamsRepo) GetLiveByChannel(ctx context.Context, channel string) (models.Stream, error) {
	return scanStream(r.pool.QueryRow(ctx,
		`SELECT `+streamCols+` FROM streams WHERE channel_name=$1 AND status='live'`, channel))
}

func (r *streamsRepo) SetStatus(ctx context.Context, id string, status models.StreamStatus) error {
	var err error
	if status == models.StreamEnded {
		_, err = r.pool.Exec(ctx, `UPDATE streams SET status=$2, end_time=now() WHERE id=$1`, id, status)
	} else {
		_, err = r.pool.Exec(ctx, `UPDATE streams SET status=$2, end_time=NULL WHERE id=$1`, id, status)
	}
	return err
}

func (r *streamsRepo) AddEarnings(ctx context.Context, id string, amount int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE streams SET earn_coins = earn_coins + $2 WHERE id=$1`, id, amount)
	return err
}

func (r *streamsRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE streams SET total_views = total_views + 1 WHERE id=$1`, id)
	return err
}

func (r *streamsRepo) IncrementLikes(ctx context.Context, id string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`UPDATE streams SET total_likes = total_likes + 1 WHERE id=$1 RETURNING total_likes`, id).
		Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFound("live stream not found")
	}
	return total, err
}

func (r *streamsRepo) IncrementComments(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE streams SET total_comments = total_comments + 1 WHERE id=$1`, id)
	return err
}

func (r *streamsRepo) ListActive(ctx context.Context, premium *bool, category string) ([]models.Stream, error) {
	q := `SELECT ` + streamCols + ` FROM streams WHERE status='live'`
	args := []any{}
	if premium != nil {
		args = append(args, *premium)
		q += ` AND is_premium=$1`
	}
	if category != "" {
		args = append(args, category)
		if len(args) == 1 {
			q += ` AND category=$1`
		} else {
			q += ` AND category=$2`
		}
	}
	q += ` ORDER BY start_time DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Stream
	for rows.Next() {
		s, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *streamsRepo) Stats(ctx context.Context) (models.StreamStats, error) {
	var st models.StreamStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE NOT is_premium),
		        COUNT(*) FILTER (WHERE is_premium)
		   FROM streams WHERE status='live'`).
		Scan(&st.Total, &st.Free, &st.Paid)
	return st, err
}

type viewersRepo struct{ pool *pgxpool.Pool }

func (r *viewersRepo) Get(ctx context.Context, streamID, userID string) (models.StreamViewer, error) {
	var v models.StreamViewer
	err := r.pool.QueryRow(ctx,
		`SELECT stream_id, user_id, has_paid, fee_paid, joined_at
		   FROM stream_viewers WHERE stream_id=$1 AND user_id=$2`, streamID, userID).
		Scan(&v.StreamID, &v.UserID, &v.HasPaid, &v.FeePaid, &v.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StreamViewer{}, apperr.NotFound("viewer record not found")
	}
	return v, err
}

func (r *viewersRepo) Create(ctx context.Context, v models.StreamViewer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stream_viewers(stream_id, user_id, has_paid, fee_paid)
		 VALUES($1,$2,$3,$4)
		 ON CONFLICT (stream_id, user_id) DO NOTHING`,
		v.StreamID, v.UserID, v.HasPaid, v.FeePaid)
	return err
}

func (r *viewersRepo) MarkPaid(ctx context.Context, streamID, userID string, fee int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stream_viewers SET has_paid=true, fee_paid=$3
		  WHERE stream_id=$1 AND user_id=$2 AND has_paid=false`,
		streamID, userID, fee)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type commentsRepo struct{ pool *pgxpool.Pool }

func (r *commentsRepo) Create(ctx context.Context, c models.StreamComment) (models.StreamComment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO stream_comments(id, stream_id, user_id, user_name, content)
		 VALUES($1,$2,$3,$4,$5) RETURNING created_at`,
		c.ID, c.StreamID, c.UserID, c.UserName, c.Content).
		Scan(&c.CreatedAt)
	return c, err
}

func (r *commentsRepo) ListByStream(ctx context.Context, streamID string, limit, offset int) ([]models.StreamComment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, stream_id, user_id, user_name, content, created_at
		   FROM stream_comments WHERE stream_id=$1
		  ORDER BY created_at DESC LIMIT $2 OFFSET $3`, streamID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StreamComment
	for rows.Next() {
		var c models.StreamComment
		if err := rows.Scan(&c.ID, &c.StreamID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type giftLogsRepo struct{ pool *pgxpool.Pool }

func (r *giftLogsRepo) Create(ctx context.Context, g models.GiftLog) (models.GiftLog, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gift_logs(id, sender_id, receiver_id, stream_id, amount)
		 VALUES($1,$2,$3,$4,$5) RETURNING created_at`,
		g.ID, g.SenderID, g.ReceiverID, g.StreamID, g.Amount).
		Scan(&g.CreatedAt)
	return g, err
}
