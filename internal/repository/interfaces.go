package repository

import (
	"context"

	"github.com/lumenlive/backend/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
}

// Wallets is the ledger primitive. Every mutation is a single atomic
// statement; Debit and the debit half of Transfer are conditional on
// sufficient balance so a concurrent spender can never drive coins negative.
// Wallets never writes transaction-log rows; callers pair every adjustment
// with a Transactions.Record call.
type Wallets interface {
	GetOrCreate(ctx context.Context, userID string) (models.Wallet, error)
	Get(ctx context.Context, userID string) (models.Wallet, error)
	Credit(ctx context.Context, userID string, amount int64) (models.Wallet, error)
	// Debit fails with apperr.InsufficientFunds when coins < amount.
	Debit(ctx context.Context, userID string, amount int64) (models.Wallet, error)
	// Transfer moves coins between two wallets inside one database transaction.
	Transfer(ctx context.Context, fromID, toID string, amount int64) error
}

type Transactions interface {
	Record(ctx context.Context, t models.Transaction) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	// SignedSum returns sum(credit) - sum(debit) for a user (reconciliation).
	SignedSum(ctx context.Context, userID string) (int64, error)
	MonthlyTotals(ctx context.Context, reason models.TxnReason, year int) ([]models.MonthlyTotal, error)
	TotalsByReason(ctx context.Context) (map[models.TxnReason]int64, error)
}

type Beneficiaries interface {
	Create(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error)
	GetByID(ctx context.Context, id string) (models.Beneficiary, error)
	ListByUser(ctx context.Context, userID string) ([]models.Beneficiary, error)
	Deactivate(ctx context.Context, id string) error
}

type Payouts interface {
	Create(ctx context.Context, p models.PayoutRequest) (models.PayoutRequest, error)
	GetByID(ctx context.Context, id string) (models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.PayoutRequest, error)
	List(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, error)
	// Review transitions a pending request to the given terminal status.
	// It reports false when the request was not pending (already processed).
	Review(ctx context.Context, id string, status models.PayoutStatus, reviewerID, note string) (bool, error)
}

type Streams interface {
	Create(ctx context.Context, s models.Stream) (models.Stream, error)
	GetByID(ctx context.Context, id string) (models.Stream, error)
	GetLiveByChannel(ctx context.Context, channel string) (models.Stream, error)
	SetStatus(ctx context.Context, id string, status models.StreamStatus) error
	AddEarnings(ctx context.Context, id string, amount int64) error
	IncrementViews(ctx context.Context, id string) error
	// IncrementLikes bumps the like counter and returns the new total.
	IncrementLikes(ctx context.Context, id string) (int64, error)
	IncrementComments(ctx context.Context, id string) error
	ListActive(ctx context.Context, premium *bool, category string) ([]models.Stream, error)
	Stats(ctx context.Context) (models.StreamStats, error)
}

type Viewers interface {
	Get(ctx context.Context, streamID, userID string) (models.StreamViewer, error)
	Create(ctx context.Context, v models.StreamViewer) error
	// MarkPaid flips has_paid for an unpaid viewer record. It reports false
	// when the viewer had already paid (idempotent pay path).
	MarkPaid(ctx context.Context, streamID, userID string, fee int64) (bool, error)
}

type GiftLogs interface {
	Create(ctx context.Context, g models.GiftLog) (models.GiftLog, error)
}

type Comments interface {
	Create(ctx context.Context, c models.StreamComment) (models.StreamComment, error)
	ListByStream(ctx context.Context, streamID string, limit, offset int) ([]models.StreamComment, error)
}

type AuditLogs interface {
	Append(ctx context.Context, l models.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

type Notifications interface {
	Create(ctx context.Context, n models.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type Configs interface {
	GetSystem(ctx context.Context) (models.SystemConfig, error)
	SaveSystem(ctx context.Context, c models.SystemConfig) error
	GetPayout(ctx context.Context) (models.PayoutConfig, error)
	SavePayout(ctx context.Context, c models.PayoutConfig) error
}

// PaymentEvents deduplicates processor webhook deliveries.
type PaymentEvents interface {
	// MarkProcessed records the event id and reports false if it was seen before.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
}
