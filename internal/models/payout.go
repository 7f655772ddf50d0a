package models

import "time"

type Beneficiary struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Method    string            `json:"method"` // "bank_transfer", "paypal", "venmo"
	Details   map[string]string `json:"details"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
}

type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "pending"
	PayoutApproved PayoutStatus = "approved"
	PayoutRejected PayoutStatus = "rejected"
)

// PayoutRequest is a withdrawal workflow instance. Coins are debited (held)
// on submission; decline refunds them, approve leaves the debit standing and
// the actual money transfer happens out of band.
type PayoutRequest struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	BeneficiaryID string       `json:"beneficiary_id"`
	AmountCoins   int64        `json:"amount_coins"`
	AmountFiat    float64      `json:"amount_fiat"`
	PlatformFee   float64      `json:"platform_fee"`
	FinalAmount   float64      `json:"final_amount"`
	Status        PayoutStatus `json:"status"`
	ReviewerID    *string      `json:"reviewer_id,omitempty"`
	ReviewNote    string       `json:"review_note,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PayoutConfig is the payout pricing singleton.
type PayoutConfig struct {
	TokenRateUSD        float64   `json:"token_rate_usd"`
	PlatformFeePercent  float64   `json:"platform_fee_percent"`
	MinWithdrawalAmount float64   `json:"min_withdrawal_amount"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func DefaultPayoutConfig() PayoutConfig {
	return PayoutConfig{
		TokenRateUSD:        0.01,
		PlatformFeePercent:  30.0,
		MinWithdrawalAmount: 50.0,
	}
}
