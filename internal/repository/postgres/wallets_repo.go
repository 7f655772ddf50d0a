package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
)

type walletsRepo struct{ pool *pgxpool.Pool }

func (r *walletsRepo) GetOrCreate(ctx context.Context, userID string) (models.Wallet, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets(user_id, coins) VALUES($1, 0) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return models.Wallet{}, err
	}
	return r.Get(ctx, userID)
}

func (r *walletsRepo) Get(ctx context.Context, userID string) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, coins, last_updated_at FROM wallets WHERE user_id=$1`, userID).
		Scan(&w.UserID, &w.Coins, &w.LastUpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wallet{}, apperr.NotFound("wallet not found")
	}
	return w, err
}

func (r *walletsRepo) Credit(ctx context.Context, userID string, amount int64) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wallets(user_id, coins) VALUES($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		    SET coins = wallets.coins + EXCLUDED.coins, last_updated_at = now()
		 RETURNING user_id, coins, last_updated_at`,
		userID, amount).
		Scan(&w.UserID, &w.Coins, &w.LastUpdatedAt)
	return w, err
}

// Debit decrements only when the balance covers the amount. The condition and
// the decrement are one statement, so a concurrent spender cannot slip
// between the check and the write.
func (r *walletsRepo) Debit(ctx context.Context, userID string, amount int64) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`UPDATE wallets
		    SET coins = coins - $2, last_updated_at = now()
		  WHERE user_id = $1 AND coins >= $2
		  RETURNING user_id, coins, last_updated_at`,
		userID, amount).
		Scan(&w.UserID, &w.Coins, &w.LastUpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wallet{}, apperr.InsufficientFunds("insufficient coins")
	}
	return w, err
}

func (r *walletsRepo) Transfer(ctx context.Context, fromID, toID string, amount int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE wallets SET coins = coins - $2, last_updated_at = now()
		  WHERE user_id = $1 AND coins >= $2`, fromID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.InsufficientFunds("insufficient coins")
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO wallets(user_id, coins) VALUES($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		    SET coins = wallets.coins + EXCLUDED.coins, last_updated_at = now()`,
		toID, amount)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}
