package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/payments"
	"github.com/lumenlive/backend/internal/video"
	"github.com/lumenlive/backend/internal/worker"
)

type fakeRooms struct {
	mu      sync.Mutex
	removed []string
	ch      chan string
}

func newFakeRooms() *fakeRooms { return &fakeRooms{ch: make(chan string, 16)} }

func (f *fakeRooms) RemoveParticipant(_ context.Context, room, identity string) error {
	f.mu.Lock()
	f.removed = append(f.removed, room+"/"+identity)
	f.mu.Unlock()
	f.ch <- room + "/" + identity
	return nil
}

func (f *fakeRooms) removals() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removed)
}

type roomEvent struct {
	streamID, senderID, senderName string
	amount                         int64
}

type fakeRoomEvents struct {
	mu   sync.Mutex
	sent []roomEvent
}

func (f *fakeRoomEvents) GiftSent(streamID, senderID, senderName string, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, roomEvent{streamID, senderID, senderName, amount})
}

func (f *fakeRoomEvents) gifts() []roomEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]roomEvent(nil), f.sent...)
}

type testEnv struct {
	wallets       *memWallets
	txns          *memTxns
	streams       *memStreams
	viewers       *memViewers
	comments      *memComments
	gifts         *memGiftLogs
	beneficiaries *memBeneficiaries
	payouts       *memPayouts
	audits        *memAudits
	notifs        *memNotifs
	configs       *memConfigs
	users         *memUsers
	events        *memEvents
	rooms         *fakeRooms
	roomEvents    *fakeRoomEvents

	admin      *AdminService
	notify     *NotificationService
	userSvc    *UserService
	walletSvc  *WalletService
	giftSvc    *GiftService
	streamSvc  *StreamService
	payoutSvc  *PayoutService
	paymentSvc *PaymentService
}

func newTestEnv(t *testing.T, previewWindow time.Duration) *testEnv {
	t.Helper()
	e := &testEnv{
		wallets:       newMemWallets(),
		txns:          &memTxns{},
		streams:       newMemStreams(),
		viewers:       newMemViewers(),
		comments:      &memComments{},
		gifts:         &memGiftLogs{},
		beneficiaries: newMemBeneficiaries(),
		payouts:       newMemPayouts(),
		audits:        &memAudits{},
		notifs:        &memNotifs{},
		configs:       &memConfigs{},
		users:         newMemUsers(),
		events:        newMemEvents(),
		rooms:         newFakeRooms(),
		roomEvents:    &fakeRoomEvents{},
	}

	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	e.notify = NewNotificationService(e.notifs, wp)
	e.admin = NewAdminService(e.configs, e.users, e.audits, e.txns)
	e.admin.WarmCache(context.Background())

	issuer := video.NewTokenIssuer("test-key", "test-secret-test-secret")

	e.userSvc = NewUserService(e.users, e.wallets, e.admin, e.notify)
	e.walletSvc = NewWalletService(e.wallets, e.txns)
	e.giftSvc = NewGiftService(e.wallets, e.txns, e.streams, e.gifts, e.admin, e.notify, e.roomEvents)
	e.streamSvc = NewStreamService(e.streams, e.viewers, e.comments, e.wallets, e.txns,
		e.admin, e.notify, issuer, e.rooms, previewWindow)
	e.payoutSvc = NewPayoutService(e.beneficiaries, e.payouts, e.wallets, e.txns, e.admin, e.notify)
	e.paymentSvc = NewPaymentService(&fakeIntents{}, e.events, e.wallets, e.txns, e.notify, testWebhookSecret)
	return e
}

const testWebhookSecret = "whsec_test"

func signPaymentEvent(body []byte) string {
	return payments.Sign(body, testWebhookSecret, time.Now())
}

type fakeIntents struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeIntents) CreateIntent(_ context.Context, amountCents int64, metadata map[string]string) (payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return payments.Intent{ID: fmt.Sprintf("pi_%d", f.calls), ClientSecret: "cs_test"}, nil
}

func (e *testEnv) fund(userID string, coins int64) {
	_, _ = e.wallets.GetOrCreate(context.Background(), userID)
	_, _ = e.wallets.Credit(context.Background(), userID, coins)
}

func actorOf(id string, role models.Role, perms ...string) models.Actor {
	return models.Actor{ID: id, DisplayName: id, Role: role, Permissions: perms}
}

// signRoomWebhook mints the provider-style webhook credential: a JWT whose
// sha256 claim is the hex digest of the body.
func signRoomWebhook(body []byte, apiKey, secret string) (string, error) {
	sum := sha256.Sum256(body)
	claims := jwt.MapClaims{
		"iss":    apiKey,
		"exp":    time.Now().Add(time.Minute).Unix(),
		"sha256": hex.EncodeToString(sum[:]),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return "Bearer " + tok, err
}
