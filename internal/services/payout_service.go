package services

import (
	"context"
	"fmt"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
)

type PayoutService struct {
	beneficiaries repo.Beneficiaries
	payouts       repo.Payouts
	wallets       repo.Wallets
	txns          repo.Transactions
	admin         *AdminService
	notify        *NotificationService
}

func NewPayoutService(beneficiaries repo.Beneficiaries, payouts repo.Payouts, wallets repo.Wallets, txns repo.Transactions, admin *AdminService, notify *NotificationService) *PayoutService {
	return &PayoutService{
		beneficiaries: beneficiaries,
		payouts:       payouts,
		wallets:       wallets,
		txns:          txns,
		admin:         admin,
		notify:        notify,
	}
}

var payoutMethods = map[string]bool{
	"bank_transfer": true,
	"paypal":        true,
	"venmo":         true,
}

func (s *PayoutService) AddBeneficiary(ctx context.Context, actor models.Actor, method string, details map[string]string) (models.Beneficiary, error) {
	if !payoutMethods[method] {
		return models.Beneficiary{}, apperr.Validation("unsupported payout method: " + method)
	}
	if len(details) == 0 {
		return models.Beneficiary{}, apperr.Validation("payout details are required")
	}
	return s.beneficiaries.Create(ctx, models.Beneficiary{
		UserID:   actor.ID,
		Method:   method,
		Details:  details,
		IsActive: true,
	})
}

func (s *PayoutService) ListBeneficiaries(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	bs, err := s.beneficiaries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bs == nil {
		bs = []models.Beneficiary{}
	}
	return bs, nil
}

func (s *PayoutService) RemoveBeneficiary(ctx context.Context, actor models.Actor, id string) error {
	b, err := s.beneficiaries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != actor.ID {
		return apperr.Permission("beneficiary belongs to another user")
	}
	return s.beneficiaries.Deactivate(ctx, id)
}

// Submit opens a withdrawal request. The coins are debited immediately as a
// hold; a declined review refunds them, an approved one does not touch the
// wallet again.
func (s *PayoutService) Submit(ctx context.Context, actor models.Actor, beneficiaryID string, amountCoins int64) (models.PayoutRequest, error) {
	if amountCoins <= 0 {
		return models.PayoutRequest{}, apperr.Validation("amount_coins must be positive")
	}
	b, err := s.beneficiaries.GetByID(ctx, beneficiaryID)
	if err != nil {
		return models.PayoutRequest{}, err
	}
	if b.UserID != actor.ID {
		return models.PayoutRequest{}, apperr.Permission("beneficiary belongs to another user")
	}
	if !b.IsActive {
		return models.PayoutRequest{}, apperr.Validation("beneficiary is inactive")
	}

	cfg := s.admin.PayoutConfig()
	fiat := float64(amountCoins) * cfg.TokenRateUSD
	if fiat < cfg.MinWithdrawalAmount {
		return models.PayoutRequest{}, apperr.Validation(
			fmt.Sprintf("minimum withdrawal is $%.2f, requested $%.2f", cfg.MinWithdrawalAmount, fiat))
	}
	fee := fiat * cfg.PlatformFeePercent / 100
	final := fiat - fee

	if _, err := s.wallets.Debit(ctx, actor.ID, amountCoins); err != nil {
		return models.PayoutRequest{}, err
	}

	p, err := s.payouts.Create(ctx, models.PayoutRequest{
		UserID:        actor.ID,
		BeneficiaryID: beneficiaryID,
		AmountCoins:   amountCoins,
		AmountFiat:    fiat,
		PlatformFee:   fee,
		FinalAmount:   final,
		Status:        models.PayoutPending,
	})
	if err != nil {
		return models.PayoutRequest{}, err
	}

	if _, err := s.txns.Record(ctx, models.Transaction{
		UserID:          actor.ID,
		Amount:          amountCoins,
		Direction:       models.TxnDebit,
		Reason:          models.ReasonWithdraw,
		RelatedEntityID: &p.ID,
		Description:     fmt.Sprintf("withdrawal request for $%.2f", final),
	}); err != nil {
		return models.PayoutRequest{}, err
	}

	metrics.CoinsMoved.WithLabelValues(string(models.ReasonWithdraw)).Add(float64(amountCoins))
	s.notify.Push(actor.ID, models.NotifyFinance, "Withdrawal submitted",
		fmt.Sprintf("Your request for $%.2f is pending review.", final), p.ID)
	return p, nil
}

func (s *PayoutService) History(ctx context.Context, userID string) ([]models.PayoutRequest, error) {
	ps, err := s.payouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []models.PayoutRequest{}
	}
	return ps, nil
}

func (s *PayoutService) ListAll(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, error) {
	ps, err := s.payouts.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []models.PayoutRequest{}
	}
	return ps, nil
}

// Review settles a pending request. The status transition is conditional on
// the row still being pending, so two concurrent reviews cannot both win and
// a decline can never refund twice.
func (s *PayoutService) Review(ctx context.Context, reviewer models.Actor, requestID string, approve bool, note string) (models.PayoutRequest, error) {
	if !reviewer.Can(models.PermApprovePayouts) {
		return models.PayoutRequest{}, apperr.Permission("missing permission: " + models.PermApprovePayouts)
	}

	p, err := s.payouts.GetByID(ctx, requestID)
	if err != nil {
		return models.PayoutRequest{}, err
	}
	if p.UserID == reviewer.ID {
		return models.PayoutRequest{}, apperr.Permission("cannot review your own withdrawal")
	}

	status := models.PayoutRejected
	if approve {
		status = models.PayoutApproved
	}
	ok, err := s.payouts.Review(ctx, requestID, status, reviewer.ID, note)
	if err != nil {
		return models.PayoutRequest{}, err
	}
	if !ok {
		return models.PayoutRequest{}, apperr.Conflict("withdrawal request is already processed")
	}

	if !approve {
		if _, err := s.wallets.Credit(ctx, p.UserID, p.AmountCoins); err != nil {
			return models.PayoutRequest{}, err
		}
		if _, err := s.txns.Record(ctx, models.Transaction{
			UserID:          p.UserID,
			Amount:          p.AmountCoins,
			Direction:       models.TxnCredit,
			Reason:          models.ReasonRefund,
			RelatedEntityID: &p.ID,
			Description:     "withdrawal declined, coins returned",
		}); err != nil {
			return models.PayoutRequest{}, err
		}
		metrics.CoinsMoved.WithLabelValues(string(models.ReasonRefund)).Add(float64(p.AmountCoins))
	}

	metrics.PayoutsReviewed.WithLabelValues(string(status)).Inc()
	if err := s.admin.Audit(ctx, reviewer, "payout_reviewed", "payout:"+p.ID, models.SeverityMedium,
		fmt.Sprintf("status=%s amount_coins=%d note=%s", status, p.AmountCoins, note)); err != nil {
		return models.PayoutRequest{}, err
	}

	title, body := "Withdrawal approved", fmt.Sprintf("$%.2f is on the way to your account.", p.FinalAmount)
	if !approve {
		title, body = "Withdrawal declined", fmt.Sprintf("%d coins were returned to your wallet.", p.AmountCoins)
	}
	s.notify.Push(p.UserID, models.NotifyFinance, title, body, p.ID)

	return s.payouts.GetByID(ctx, requestID)
}
