package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/lumenlive/backend/internal/api/handlers"
	"github.com/lumenlive/backend/internal/auth"
	"github.com/lumenlive/backend/internal/config"
	"github.com/lumenlive/backend/internal/metrics"
	"github.com/lumenlive/backend/internal/middleware"
	"github.com/lumenlive/backend/internal/models"
	"github.com/lumenlive/backend/internal/services"
	"github.com/lumenlive/backend/internal/ws"
)

type Deps struct {
	Cfg           config.Config
	TM            *auth.TokenManager
	Users         *services.UserService
	Wallets       *services.WalletService
	Streams       *services.StreamService
	Gifts         *services.GiftService
	Payouts       *services.PayoutService
	Payments      *services.PaymentService
	Notifications *services.NotificationService
	Admin         *services.AdminService
	ChatHub       *ws.Hub
}

func NewRouter(d Deps) http.Handler {
	authH := handlers.NewAuthHandler(d.TM, d.Users)
	walletH := handlers.NewWalletHandler(d.Wallets)
	streamH := handlers.NewStreamHandler(d.Streams, d.Gifts)
	payoutH := handlers.NewPayoutHandler(d.Payouts)
	paymentH := handlers.NewPaymentHandler(d.Payments)
	notifyH := handlers.NewNotificationHandler(d.Notifications)
	adminH := handlers.NewAdminHandler(d.Admin, d.Users)
	am := middleware.NewAuthMiddleware(d.TM)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// Provider-to-server webhooks authenticate with their own signatures.
		r.Post("/webhooks/video", streamH.RoomWebhook)
		r.Post("/webhooks/payments", paymentH.Webhook)

		// Public browse surface; join resolves the viewer when a token is sent.
		r.Group(func(r chi.Router) {
			r.Use(am.OptionalAuth)
			r.Get("/streams", streamH.ListActive)
			r.Get("/streams/{id}", streamH.Get)
			r.Get("/streams/{id}/comments", streamH.ListComments)
			r.Post("/streams/{id}/join", streamH.Join)
		})

		r.Group(func(r chi.Router) {
			r.Use(am.Auth)

			r.Get("/auth/me", authH.Me)

			r.Get("/wallet", walletH.Balance)
			r.Get("/wallet/transactions", walletH.History)
			r.Get("/wallet/reconcile", walletH.Reconcile)
			r.Post("/wallet/topup", paymentH.CreateTopUp)

			r.Post("/streams", streamH.Start)
			r.Post("/streams/{id}/pay", streamH.Pay)
			r.Post("/streams/{id}/stop", streamH.Stop)
			r.Post("/streams/{id}/resume", streamH.Resume)
			r.Post("/streams/{id}/like", streamH.Like)
			r.Post("/streams/{id}/comment", streamH.Comment)
			r.Post("/streams/{id}/gift", streamH.SendGift)
			r.Get("/streams/{id}/chat", ws.Handler(d.ChatHub))

			r.Post("/beneficiaries", payoutH.AddBeneficiary)
			r.Get("/beneficiaries", payoutH.ListBeneficiaries)
			r.Delete("/beneficiaries/{id}", payoutH.RemoveBeneficiary)
			r.Post("/payouts", payoutH.Submit)
			r.Get("/payouts", payoutH.History)

			r.Get("/notifications", notifyH.List)
			r.Post("/notifications/read-all", notifyH.MarkAllRead)
			r.Post("/notifications/{id}/read", notifyH.MarkRead)

			// Staff surface, gated per capability.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(models.PermApprovePayouts))
				r.Get("/admin/payouts", payoutH.ListAll)
				r.Post("/admin/payouts/{id}/review", payoutH.Review)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(models.PermModerateStreams))
				r.Post("/admin/streams/{id}/stop", streamH.Stop)
				r.Post("/admin/streams/{id}/resume", streamH.Resume)
				r.Get("/admin/streams/stats", streamH.Stats)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(models.PermManageConfig))
				r.Get("/admin/config/system", adminH.GetSystemConfig)
				r.Patch("/admin/config/system", adminH.UpdateSystemConfig)
				r.Get("/admin/config/payout", adminH.GetPayoutConfig)
				r.Patch("/admin/config/payout", adminH.UpdatePayoutConfig)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/admin/users", adminH.ListUsers)
				r.Patch("/admin/users/{id}/status", adminH.SetUserStatus)
				r.Get("/admin/audit-logs", adminH.ListAuditLogs)
				r.Get("/admin/revenue", adminH.RevenueStats)
			})
		})
	})

	return r
}
