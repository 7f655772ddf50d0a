package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/models"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Record(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions(id, user_id, amount, direction, reason, related_entity_id, description)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at`,
		t.ID, t.UserID, t.Amount, t.Direction, t.Reason, t.RelatedEntityID, t.Description).
		Scan(&t.CreatedAt)
	return t, err
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, amount, direction, reason, related_entity_id, description, created_at
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Direction, &t.Reason,
			&t.RelatedEntityID, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) SignedSum(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction='debit' THEN -amount ELSE amount END), 0)
		   FROM transactions WHERE user_id=$1`, userID).Scan(&sum)
	return sum, err
}

func (r *transactionsRepo) MonthlyTotals(ctx context.Context, reason models.TxnReason, year int) ([]models.MonthlyTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(MONTH FROM created_at)::int AS month, COALESCE(SUM(amount),0)
		   FROM transactions
		  WHERE reason=$1 AND EXTRACT(YEAR FROM created_at)::int = $2
		  GROUP BY month ORDER BY month`, reason, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MonthlyTotal
	for rows.Next() {
		var m models.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) TotalsByReason(ctx context.Context) (map[models.TxnReason]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reason, COALESCE(SUM(amount),0) FROM transactions GROUP BY reason`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.TxnReason]int64{}
	for rows.Next() {
		var reason models.TxnReason
		var total int64
		if err := rows.Scan(&reason, &total); err != nil {
			return nil, err
		}
		out[reason] = total
	}
	return out, rows.Err()
}
