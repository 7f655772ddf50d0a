package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lumenlive/backend/internal/api"
	"github.com/lumenlive/backend/internal/auth"
	"github.com/lumenlive/backend/internal/config"
	"github.com/lumenlive/backend/internal/db"
	"github.com/lumenlive/backend/internal/logger"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/payments"
	"github.com/lumenlive/backend/internal/repository/postgres"
	"github.com/lumenlive/backend/internal/services"
	"github.com/lumenlive/backend/internal/video"
	"github.com/lumenlive/backend/internal/worker"
	"github.com/lumenlive/backend/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	issuer := video.NewTokenIssuer(cfg.VideoAPIKey, cfg.VideoAPISecret)
	rooms := video.NewRoomClient(cfg.VideoHostURL, issuer)
	processor := payments.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)

	hub := ws.NewHub()
	go hub.Run()

	notifySvc := services.NewNotificationService(repos.Notifications, wp)
	adminSvc := services.NewAdminService(repos.Configs, repos.Users, repos.AuditLogs, repos.Transactions)
	adminSvc.WarmCache(ctx)

	userSvc := services.NewUserService(repos.Users, repos.Wallets, adminSvc, notifySvc)
	walletSvc := services.NewWalletService(repos.Wallets, repos.Transactions)
	giftSvc := services.NewGiftService(repos.Wallets, repos.Transactions, repos.Streams, repos.GiftLogs, adminSvc, notifySvc, hub)
	streamSvc := services.NewStreamService(repos.Streams, repos.Viewers, repos.Comments, repos.Wallets, repos.Transactions,
		adminSvc, notifySvc, issuer, rooms, cfg.PreviewWindow)
	payoutSvc := services.NewPayoutService(repos.Beneficiaries, repos.Payouts, repos.Wallets, repos.Transactions,
		adminSvc, notifySvc)
	paymentSvc := services.NewPaymentService(processor, repos.PaymentEvents, repos.Wallets, repos.Transactions,
		notifySvc, cfg.PaymentWebhookSecret)

	metrics.Init()
	r := api.NewRouter(api.Deps{
		Cfg:           cfg,
		TM:            tm,
		Users:         userSvc,
		Wallets:       walletSvc,
		Streams:       streamSvc,
		Gifts:         giftSvc,
		Payouts:       payoutSvc,
		Payments:      paymentSvc,
		Notifications: notifySvc,
		Admin:         adminSvc,
		ChatHub:       hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
