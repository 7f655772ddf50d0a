package services

import (
	"context"

	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
)

type WalletService struct {
	wallets repo.Wallets
	txns    repo.Transactions
}

func NewWalletService(wallets repo.Wallets, txns repo.Transactions) *WalletService {
	return &WalletService{wallets: wallets, txns: txns}
}

func (s *WalletService) Balance(ctx context.Context, userID string) (models.Wallet, error) {
	return s.wallets.GetOrCreate(ctx, userID)
}

func (s *WalletService) History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	txns, err := s.txns.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}

// ReconciliationReport compares the wallet balance against the signed sum of
// the transaction log. The two must agree; a mismatch means an adjustment was
// made without a paired log entry.
type ReconciliationReport struct {
	UserID     string `json:"user_id"`
	Balance    int64  `json:"balance"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

func (s *WalletService) Reconcile(ctx context.Context, userID string) (ReconciliationReport, error) {
	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return ReconciliationReport{}, err
	}
	sum, err := s.txns.SignedSum(ctx, userID)
	if err != nil {
		return ReconciliationReport{}, err
	}
	return ReconciliationReport{
		UserID:     userID,
		Balance:    w.Coins,
		LedgerSum:  sum,
		Consistent: w.Coins == sum,
	}, nil
}
