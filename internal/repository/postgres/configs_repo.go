package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/models"
)

type configsRepo struct{ pool *pgxpool.Pool }

// Both config tables are single-row; get-or-create keeps first boot simple.

func (r *configsRepo) GetSystem(ctx context.Context) (models.SystemConfig, error) {
	var c models.SystemConfig
	err := r.pool.QueryRow(ctx,
		`INSERT INTO system_config(singleton) VALUES(true)
		 ON CONFLICT (singleton) DO UPDATE SET singleton=true
		 RETURNING enable_registration, enable_paid_streams, enable_gifting, updated_at`).
		Scan(&c.EnableRegistration, &c.EnablePaidStreams, &c.EnableGifting, &c.UpdatedAt)
	return c, err
}

func (r *configsRepo) SaveSystem(ctx context.Context, c models.SystemConfig) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE system_config
		    SET enable_registration=$1, enable_paid_streams=$2, enable_gifting=$3, updated_at=now()
		  WHERE singleton`, c.EnableRegistration, c.EnablePaidStreams, c.EnableGifting)
	return err
}

func (r *configsRepo) GetPayout(ctx context.Context) (models.PayoutConfig, error) {
	var c models.PayoutConfig
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payout_config(singleton) VALUES(true)
		 ON CONFLICT (singleton) DO UPDATE SET singleton=true
		 RETURNING token_rate_usd, platform_fee_percent, min_withdrawal_amount, updated_at`).
		Scan(&c.TokenRateUSD, &c.PlatformFeePercent, &c.MinWithdrawalAmount, &c.UpdatedAt)
	return c, err
}

func (r *configsRepo) SavePayout(ctx context.Context, c models.PayoutConfig) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE payout_config
		    SET token_rate_usd=$1, platform_fee_percent=$2, min_withdrawal_amount=$3, updated_at=now()
		  WHERE singleton`, c.TokenRateUSD, c.PlatformFeePercent, c.MinWithdrawalAmount)
	return err
}
