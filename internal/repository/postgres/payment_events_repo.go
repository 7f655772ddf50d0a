package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentEventsRepo struct{ pool *pgxpool.Pool }

// MarkProcessed relies on the primary key: a duplicate delivery inserts zero
// rows, so the caller skips the credit.
func (r *paymentEventsRepo) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO processed_payment_events(event_id, event_type) VALUES($1,$2)
		 ON CONFLICT (event_id) DO NOTHING`, eventID, eventType)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
