package models

import "time"

type TxnDirection string

const (
	TxnCredit TxnDirection = "credit"
	TxnDebit  TxnDirection = "debit"
)

type TxnReason string

const (
	ReasonTopup            TxnReason = "topup"
	ReasonGiftSent         TxnReason = "gift_sent"
	ReasonGiftReceived     TxnReason = "gift_received"
	ReasonEntryFeePaid     TxnReason = "entry_fee_paid"
	ReasonEntryFeeReceived TxnReason = "entry_fee_received"
	ReasonWithdraw         TxnReason = "withdraw"
	ReasonHostStreamFee    TxnReason = "host_stream_fee_paid"
	ReasonRefund           TxnReason = "refund"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; per user, the signed sum of entries must equal the wallet balance.
type Transaction struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Amount          int64        `json:"amount"`
	Direction       TxnDirection `json:"direction"`
	Reason          TxnReason    `json:"reason"`
	RelatedEntityID *string      `json:"related_entity_id,omitempty"`
	Description     string       `json:"description,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Signed returns the amount with direction applied.
func (t Transaction) Signed() int64 {
	if t.Direction == TxnDebit {
		return -t.Amount
	}
	return t.Amount
}

type MonthlyTotal struct {
	Month int   `json:"month"`
	Total int64 `json:"total"`
}
