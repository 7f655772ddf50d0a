package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
)

// AdminService owns platform configuration and the audit trail. Both config
// documents are cached in memory and refreshed on every successful write, so
// feature checks on hot paths never touch the database.
type AdminService struct {
	configs repo.Configs
	users   repo.Users
	audits  repo.AuditLogs
	txns    repo.Transactions

	mu     sync.RWMutex
	sys    models.SystemConfig
	payout models.PayoutConfig

	// updateMu serializes whole config writes. Each patch is computed from a
	// snapshot, and without this lock two concurrent patches could both save
	// writes built from the same stale snapshot, losing one of them.
	updateMu sync.Mutex
}

func NewAdminService(configs repo.Configs, users repo.Users, audits repo.AuditLogs, txns repo.Transactions) *AdminService {
	return &AdminService{
		configs: configs,
		users:   users,
		audits:  audits,
		txns:    txns,
		sys:     models.DefaultSystemConfig(),
		payout:  models.DefaultPayoutConfig(),
	}
}

// WarmCache loads both config documents once at startup. Failures fall back
// to defaults so the API can still serve traffic.
func (s *AdminService) WarmCache(ctx context.Context) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	sys, err := s.configs.GetSystem(ctx)
	if err != nil {
		slog.Warn("system config load failed, using defaults", "err", err)
	} else {
		s.mu.Lock()
		s.sys = sys
		s.mu.Unlock()
	}
	pc, err := s.configs.GetPayout(ctx)
	if err != nil {
		slog.Warn("payout config load failed, using defaults", "err", err)
		return
	}
	s.mu.Lock()
	s.payout = pc
	s.mu.Unlock()
}

func (s *AdminService) SystemConfig() models.SystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sys
}

func (s *AdminService) PayoutConfig() models.PayoutConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payout
}

// CheckFeature returns a feature-disabled error when the named switch is off.
func (s *AdminService) CheckFeature(feature string) error {
	if !s.SystemConfig().Enabled(feature) {
		return apperr.FeatureDisabled(feature)
	}
	return nil
}

// SystemConfigPatch carries partial updates; nil fields are left untouched.
type SystemConfigPatch struct {
	EnableRegistration *bool `json:"enable_registration"`
	EnablePaidStreams  *bool `json:"enable_paid_streams"`
	EnableGifting      *bool `json:"enable_gifting"`
}

func (s *AdminService) UpdateSystemConfig(ctx context.Context, actor models.Actor, patch SystemConfigPatch) (models.SystemConfig, error) {
	if !actor.Can(models.PermManageConfig) {
		return models.SystemConfig{}, apperr.Permission("missing permission: " + models.PermManageConfig)
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	cur := s.SystemConfig()
	changes := map[string][2]bool{}
	apply := func(name string, field *bool, v *bool) {
		if v != nil && *v != *field {
			changes[name] = [2]bool{*field, *v}
			*field = *v
		}
	}
	apply("enable_registration", &cur.EnableRegistration, patch.EnableRegistration)
	apply("enable_paid_streams", &cur.EnablePaidStreams, patch.EnablePaidStreams)
	apply("enable_gifting", &cur.EnableGifting, patch.EnableGifting)

	if len(changes) == 0 {
		return cur, nil
	}
	if err := s.configs.SaveSystem(ctx, cur); err != nil {
		return models.SystemConfig{}, err
	}
	s.mu.Lock()
	s.sys = cur
	s.mu.Unlock()

	if err := s.Audit(ctx, actor, "system_config_updated", "system_config", models.SeverityHigh, boolDiff(changes)); err != nil {
		return models.SystemConfig{}, err
	}
	return cur, nil
}

// PayoutConfigPatch carries partial updates; nil fields are left untouched.
type PayoutConfigPatch struct {
	TokenRateUSD        *float64 `json:"token_rate_usd"`
	PlatformFeePercent  *float64 `json:"platform_fee_percent"`
	MinWithdrawalAmount *float64 `json:"min_withdrawal_amount"`
}

func (s *AdminService) UpdatePayoutConfig(ctx context.Context, actor models.Actor, patch PayoutConfigPatch) (models.PayoutConfig, error) {
	if !actor.Can(models.PermManageConfig) {
		return models.PayoutConfig{}, apperr.Permission("missing permission: " + models.PermManageConfig)
	}
	if patch.TokenRateUSD != nil && *patch.TokenRateUSD <= 0 {
		return models.PayoutConfig{}, apperr.Validation("token_rate_usd must be positive")
	}
	if patch.PlatformFeePercent != nil && (*patch.PlatformFeePercent < 0 || *patch.PlatformFeePercent > 100) {
		return models.PayoutConfig{}, apperr.Validation("platform_fee_percent must be between 0 and 100")
	}
	if patch.MinWithdrawalAmount != nil && *patch.MinWithdrawalAmount < 0 {
		return models.PayoutConfig{}, apperr.Validation("min_withdrawal_amount must not be negative")
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	cur := s.PayoutConfig()
	changes := map[string][2]float64{}
	apply := func(name string, field *float64, v *float64) {
		if v != nil && *v != *field {
			changes[name] = [2]float64{*field, *v}
			*field = *v
		}
	}
	apply("token_rate_usd", &cur.TokenRateUSD, patch.TokenRateUSD)
	apply("platform_fee_percent", &cur.PlatformFeePercent, patch.PlatformFeePercent)
	apply("min_withdrawal_amount", &cur.MinWithdrawalAmount, patch.MinWithdrawalAmount)

	if len(changes) == 0 {
		return cur, nil
	}
	if err := s.configs.SavePayout(ctx, cur); err != nil {
		return models.PayoutConfig{}, err
	}
	s.mu.Lock()
	s.payout = cur
	s.mu.Unlock()

	if err := s.Audit(ctx, actor, "payout_config_updated", "payout_config", models.SeverityHigh, floatDiff(changes)); err != nil {
		return models.PayoutConfig{}, err
	}
	return cur, nil
}

// Audit appends to the audit trail. Unlike notifications this is not
// best-effort: privileged mutations must leave a record.
func (s *AdminService) Audit(ctx context.Context, actor models.Actor, action, target string, severity models.Severity, details string) error {
	return s.audits.Append(ctx, models.AuditLog{
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
		Action:    action,
		Target:    target,
		Severity:  severity,
		Details:   details,
	})
}

func (s *AdminService) ListAuditLogs(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	logs, err := s.audits.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}

func (s *AdminService) SetUserStatus(ctx context.Context, actor models.Actor, userID string, status models.UserStatus) error {
	switch status {
	case models.StatusActive, models.StatusSuspended, models.StatusInactive:
	default:
		return apperr.Validation("unknown user status: " + string(status))
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status == status {
		return nil
	}
	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		return err
	}
	details := fmt.Sprintf("status: %s -> %s", u.Status, status)
	severity := models.SeverityMedium
	if status == models.StatusSuspended {
		severity = models.SeverityHigh
	}
	return s.Audit(ctx, actor, "user_status_changed", "user:"+userID, severity, details)
}

// RevenueStats aggregates platform-level coin movement for the admin panel.
type RevenueStats struct {
	TotalsByReason map[models.TxnReason]int64 `json:"totals_by_reason"`
	MonthlyTopups  []models.MonthlyTotal      `json:"monthly_topups"`
}

func (s *AdminService) RevenueStats(ctx context.Context, year int) (RevenueStats, error) {
	totals, err := s.txns.TotalsByReason(ctx)
	if err != nil {
		return RevenueStats{}, err
	}
	monthly, err := s.txns.MonthlyTotals(ctx, models.ReasonTopup, year)
	if err != nil {
		return RevenueStats{}, err
	}
	if monthly == nil {
		monthly = []models.MonthlyTotal{}
	}
	return RevenueStats{TotalsByReason: totals, MonthlyTopups: monthly}, nil
}

func boolDiff(changes map[string][2]bool) string {
	parts := make([]string, 0, len(changes))
	for k, v := range changes {
		parts = append(parts, fmt.Sprintf("%s: %t -> %t", k, v[0], v[1]))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func floatDiff(changes map[string][2]float64) string {
	parts := make([]string, 0, len(changes))
	for k, v := range changes {
		parts = append(parts, fmt.Sprintf("%s: %g -> %g", k, v[0], v[1]))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
