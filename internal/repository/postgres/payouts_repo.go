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

type beneficiariesRepo struct{ pool *pgxpool.Pool }

func (r *beneficiariesRepo) Create(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Details == nil {
		b.Details = map[string]string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO beneficiaries(id, user_id, method, details, is_active)
		 VALUES($1,$2,$3,$4,true)
		 RETURNING is_active, created_at`,
		b.ID, b.UserID, b.Method, b.Details).
		Scan(&b.IsActive, &b.CreatedAt)
	return b, err
}

func (r *beneficiariesRepo) GetByID(ctx context.Context, id string) (models.Beneficiary, error) {
	var b models.Beneficiary
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, method, details, is_active, created_at FROM beneficiaries WHERE id=$1`, id).
		Scan(&b.ID, &b.UserID, &b.Method, &b.Details, &b.IsActive, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Beneficiary{}, apperr.NotFound("payment method not found")
	}
	return b, err
}

func (r *beneficiariesRepo) ListByUser(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, method, details, is_active, created_at
		   FROM beneficiaries WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Beneficiary
	for rows.Next() {
		var b models.Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Method, &b.Details, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *beneficiariesRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE beneficiaries SET is_active=false WHERE id=$1`, id)
	return err
}

type payoutsRepo struct{ pool *pgxpool.Pool }

const payoutCols = `id, user_id, beneficiary_id, amount_coins, amount_fiat, platform_fee,
	final_amount, status, reviewer_id, review_note, created_at, updated_at`

func scanPayout(row pgx.Row) (models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := row.Scan(&p.ID, &p.UserID, &p.BeneficiaryID, &p.AmountCoins, &p.AmountFiat,
		&p.PlatformFee, &p.FinalAmount, &p.Status, &p.ReviewerID, &p.ReviewNote,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PayoutRequest{}, apperr.NotFound("payout request not found")
	}
	return p, err
}

func (r *payoutsRepo) Create(ctx context.Context, p models.PayoutRequest) (models.PayoutRequest, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payout_requests(id, user_id, beneficiary_id, amount_coins, amount_fiat,
		                             platform_fee, final_amount, status)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.BeneficiaryID, p.AmountCoins, p.AmountFiat,
		p.PlatformFee, p.FinalAmount, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *payoutsRepo) GetByID(ctx context.Context, id string) (models.PayoutRequest, error) {
	return scanPayout(r.pool.QueryRow(ctx,
		`SELECT `+payoutCols+` FROM payout_requests WHERE id=$1`, id))
}

func (r *payoutsRepo) ListByUser(ctx context.Context, userID string) ([]models.PayoutRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+payoutCols+` FROM payout_requests WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayouts(rows)
}

func (r *payoutsRepo) List(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, error) {
	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = r.pool.Query(ctx,
			`SELECT `+payoutCols+` FROM payout_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+payoutCols+` FROM payout_requests WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			status, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayouts(rows)
}

func collectPayouts(rows pgx.Rows) ([]models.PayoutRequest, error) {
	var out []models.PayoutRequest
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Review is the workflow's only mutation. The WHERE status='pending' guard
// makes double-processing impossible regardless of concurrent reviewers.
func (r *payoutsRepo) Review(ctx context.Context, id string, status models.PayoutStatus, reviewerID, note string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payout_requests
		    SET status=$2, reviewer_id=$3, review_note=$4, updated_at=now()
		  WHERE id=$1 AND status='pending'`,
		id, status, reviewerID, note)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
