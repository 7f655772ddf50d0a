package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/models"
)

// In-memory repository fakes. Conditional semantics (insufficient funds,
// already-reviewed, already-paid, duplicate events) mirror the SQL layer.

type memWallets struct {
	mu    sync.Mutex
	coins map[string]int64
}

func newMemWallets() *memWallets { return &memWallets{coins: map[string]int64{}} }

func (m *memWallets) GetOrCreate(_ context.Context, userID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coins[userID]; !ok {
		m.coins[userID] = 0
	}
	return models.Wallet{UserID: userID, Coins: m.coins[userID]}, nil
}

func (m *memWallets) Get(_ context.Context, userID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coins[userID]
	if !ok {
		return models.Wallet{}, apperr.NotFound("wallet not found")
	}
	return models.Wallet{UserID: userID, Coins: c}, nil
}

func (m *memWallets) Credit(_ context.Context, userID string, amount int64) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coins[userID] += amount
	return models.Wallet{UserID: userID, Coins: m.coins[userID]}, nil
}

func (m *memWallets) Debit(_ context.Context, userID string, amount int64) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.coins[userID] < amount {
		return models.Wallet{}, apperr.InsufficientFunds("insufficient balance")
	}
	m.coins[userID] -= amount
	return models.Wallet{UserID: userID, Coins: m.coins[userID]}, nil
}

func (m *memWallets) Transfer(_ context.Context, fromID, toID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.coins[fromID] < amount {
		return apperr.InsufficientFunds("insufficient balance")
	}
	m.coins[fromID] -= amount
	m.coins[toID] += amount
	return nil
}

func (m *memWallets) balance(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coins[userID]
}

type memTxns struct {
	mu   sync.Mutex
	rows []models.Transaction
}

func (m *memTxns) Record(_ context.Context, t models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = fmt.Sprintf("txn-%d", len(m.rows)+1)
	t.CreatedAt = time.Now()
	m.rows = append(m.rows, t)
	return t, nil
}

func (m *memTxns) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.rows {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTxns) SignedSum(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, t := range m.rows {
		if t.UserID == userID {
			sum += t.Signed()
		}
	}
	return sum, nil
}

func (m *memTxns) MonthlyTotals(_ context.Context, reason models.TxnReason, year int) ([]models.MonthlyTotal, error) {
	return nil, nil
}

func (m *memTxns) TotalsByReason(_ context.Context) (map[models.TxnReason]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[models.TxnReason]int64{}
	for _, t := range m.rows {
		out[t.Reason] += t.Amount
	}
	return out, nil
}

func (m *memTxns) byReason(userID string, reason models.TxnReason) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.rows {
		if t.UserID == userID && t.Reason == reason {
			out = append(out, t)
		}
	}
	return out
}

type memStreams struct {
	mu   sync.Mutex
	rows map[string]*models.Stream
	seq  int
}

func newMemStreams() *memStreams { return &memStreams{rows: map[string]*models.Stream{}} }

func (m *memStreams) Create(_ context.Context, s models.Stream) (models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = fmt.Sprintf("stream-%d", m.seq)
	m.rows[s.ID] = &s
	return s, nil
}

func (m *memStreams) GetByID(_ context.Context, id string) (models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return models.Stream{}, apperr.NotFound("stream not found")
	}
	return *s, nil
}

func (m *memStreams) GetLiveByChannel(_ context.Context, channel string) (models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ChannelName == channel && s.Status == models.StreamLive {
			return *s, nil
		}
	}
	return models.Stream{}, apperr.NotFound("stream not found")
}

func (m *memStreams) SetStatus(_ context.Context, id string, status models.StreamStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("stream not found")
	}
	s.Status = status
	return nil
}

func (m *memStreams) AddEarnings(_ context.Context, id string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("stream not found")
	}
	s.EarnCoins += amount
	return nil
}

func (m *memStreams) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		s.TotalViews++
	}
	return nil
}

func (m *memStreams) IncrementLikes(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return 0, apperr.NotFound("stream not found")
	}
	s.TotalLikes++
	return s.TotalLikes, nil
}

func (m *memStreams) IncrementComments(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		s.TotalComments++
	}
	return nil
}

func (m *memStreams) ListActive(_ context.Context, premium *bool, category string) ([]models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Stream
	for _, s := range m.rows {
		if s.Status != models.StreamLive {
			continue
		}
		if premium != nil && s.IsPremium != *premium {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *memStreams) Stats(_ context.Context) (models.StreamStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st models.StreamStats
	for _, s := range m.rows {
		if s.Status != models.StreamLive {
			continue
		}
		st.Total++
		if s.IsPremium {
			st.Paid++
		} else {
			st.Free++
		}
	}
	return st, nil
}

type memViewers struct {
	mu   sync.Mutex
	rows map[string]*models.StreamViewer
}

func newMemViewers() *memViewers { return &memViewers{rows: map[string]*models.StreamViewer{}} }

func viewerKey(streamID, userID string) string { return streamID + "/" + userID }

func (m *memViewers) Get(_ context.Context, streamID, userID string) (models.StreamViewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[viewerKey(streamID, userID)]
	if !ok {
		return models.StreamViewer{}, apperr.NotFound("viewer not found")
	}
	return *v, nil
}

func (m *memViewers) Create(_ context.Context, v models.StreamViewer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.JoinedAt = time.Now()
	m.rows[viewerKey(v.StreamID, v.UserID)] = &v
	return nil
}

func (m *memViewers) MarkPaid(_ context.Context, streamID, userID string, fee int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[viewerKey(streamID, userID)]
	if !ok || v.HasPaid {
		return false, nil
	}
	v.HasPaid = true
	v.FeePaid = fee
	return true, nil
}

type memGiftLogs struct {
	mu   sync.Mutex
	rows []models.GiftLog
}

func (m *memGiftLogs) Create(_ context.Context, g models.GiftLog) (models.GiftLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = fmt.Sprintf("gift-%d", len(m.rows)+1)
	g.CreatedAt = time.Now()
	m.rows = append(m.rows, g)
	return g, nil
}

type memComments struct {
	mu   sync.Mutex
	rows []models.StreamComment
}

func (m *memComments) Create(_ context.Context, c models.StreamComment) (models.StreamComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = fmt.Sprintf("comment-%d", len(m.rows)+1)
	c.CreatedAt = time.Now()
	m.rows = append(m.rows, c)
	return c, nil
}

func (m *memComments) ListByStream(_ context.Context, streamID string, limit, offset int) ([]models.StreamComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StreamComment
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].StreamID == streamID {
			out = append(out, m.rows[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memBeneficiaries struct {
	mu   sync.Mutex
	rows map[string]*models.Beneficiary
	seq  int
}

func newMemBeneficiaries() *memBeneficiaries {
	return &memBeneficiaries{rows: map[string]*models.Beneficiary{}}
}

func (m *memBeneficiaries) Create(_ context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("ben-%d", m.seq)
	b.CreatedAt = time.Now()
	m.rows[b.ID] = &b
	return b, nil
}

func (m *memBeneficiaries) GetByID(_ context.Context, id string) (models.Beneficiary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return models.Beneficiary{}, apperr.NotFound("beneficiary not found")
	}
	return *b, nil
}

func (m *memBeneficiaries) ListByUser(_ context.Context, userID string) ([]models.Beneficiary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Beneficiary
	for _, b := range m.rows {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBeneficiaries) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.rows[id]; ok {
		b.IsActive = false
	}
	return nil
}

type memPayouts struct {
	mu   sync.Mutex
	rows map[string]*models.PayoutRequest
	seq  int
}

func newMemPayouts() *memPayouts { return &memPayouts{rows: map[string]*models.PayoutRequest{}} }

func (m *memPayouts) Create(_ context.Context, p models.PayoutRequest) (models.PayoutRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = fmt.Sprintf("payout-%d", m.seq)
	p.CreatedAt = time.Now()
	m.rows[p.ID] = &p
	return p, nil
}

func (m *memPayouts) GetByID(_ context.Context, id string) (models.PayoutRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return models.PayoutRequest{}, apperr.NotFound("payout request not found")
	}
	return *p, nil
}

func (m *memPayouts) ListByUser(_ context.Context, userID string) ([]models.PayoutRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PayoutRequest
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPayouts) List(_ context.Context, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PayoutRequest
	for _, p := range m.rows {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPayouts) Review(_ context.Context, id string, status models.PayoutStatus, reviewerID, note string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.Status != models.PayoutPending {
		return false, nil
	}
	p.Status = status
	p.ReviewerID = &reviewerID
	p.ReviewNote = note
	p.UpdatedAt = time.Now()
	return true, nil
}

type memAudits struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func (m *memAudits) Append(_ context.Context, l models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = fmt.Sprintf("audit-%d", len(m.rows)+1)
	l.CreatedAt = time.Now()
	m.rows = append(m.rows, l)
	return nil
}

func (m *memAudits) List(_ context.Context, limit, offset int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditLog(nil), m.rows...), nil
}

type memNotifs struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (m *memNotifs) Create(_ context.Context, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = fmt.Sprintf("notif-%d", len(m.rows)+1)
	n.CreatedAt = time.Now()
	m.rows = append(m.rows, n)
	return nil
}

func (m *memNotifs) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifs) CountUnread(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.rows {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (m *memNotifs) MarkRead(_ context.Context, id, userID string) error { return nil }

func (m *memNotifs) MarkAllRead(_ context.Context, userID string) error { return nil }

type memConfigs struct {
	mu     sync.Mutex
	sys    *models.SystemConfig
	payout *models.PayoutConfig
}

func (m *memConfigs) GetSystem(_ context.Context) (models.SystemConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sys == nil {
		c := models.DefaultSystemConfig()
		m.sys = &c
	}
	return *m.sys, nil
}

func (m *memConfigs) SaveSystem(_ context.Context, c models.SystemConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sys = &c
	return nil
}

func (m *memConfigs) GetPayout(_ context.Context) (models.PayoutConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payout == nil {
		c := models.DefaultPayoutConfig()
		m.payout = &c
	}
	return *m.payout, nil
}

func (m *memConfigs) SavePayout(_ context.Context, c models.PayoutConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payout = &c
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]*models.User
	seq  int
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]*models.User{}} }

func (m *memUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.rows {
		if ex.Email == u.Email || ex.Username == u.Username {
			return models.User{}, apperr.Conflict("username or email already taken")
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	m.rows[u.ID] = &u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return *u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.rows {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) UpdateStatus(_ context.Context, id string, status models.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Status = status
	return nil
}

type memEvents struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemEvents() *memEvents { return &memEvents{seen: map[string]bool{}} }

func (m *memEvents) MarkProcessed(_ context.Context, eventID, eventType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}
