package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
)

type notificationsRepo struct{ pool *pgxpool.Pool }

func (r *notificationsRepo) Create(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications(id, user_id, type, title, body, related_entity_id)
		 VALUES($1,$2,$3,$4,$5,$6)`,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.RelatedEntityID)
	return err
}

func (r *notificationsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, type, title, body, related_entity_id, is_read, created_at
		   FROM notifications WHERE user_id=$1
		  ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body,
			&n.RelatedEntityID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND is_read=false`, userID).Scan(&n)
	return n, err
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=true WHERE user_id=$1 AND is_read=false`, userID)
	return err
}
