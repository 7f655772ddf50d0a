package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/lumenlive/backend/internal/repository"
)

type Repositories struct {
	Users         repo.Users
	Wallets       repo.Wallets
	Transactions  repo.Transactions
	Beneficiaries repo.Beneficiaries
	Payouts       repo.Payouts
	Streams       repo.Streams
	Viewers       repo.Viewers
	Comments      repo.Comments
	GiftLogs      repo.GiftLogs
	AuditLogs     repo.AuditLogs
	Notifications repo.Notifications
	Configs       repo.Configs
	PaymentEvents repo.PaymentEvents
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:         &usersRepo{pool},
		Wallets:       &walletsRepo{pool},
		Transactions:  &transactionsRepo{pool},
		Beneficiaries: &beneficiariesRepo{pool},
		Payouts:       &payoutsRepo{pool},
		Streams:       &streamsRepo{pool},
		Viewers:       &viewersRepo{pool},
		Comments:      &commentsRepo{pool},
		GiftLogs:      &giftLogsRepo{pool},
		AuditLogs:     &auditLogsRepo{pool},
		Notifications: &notificationsRepo{pool},
		Configs:       &configsRepo{pool},
		PaymentEvents: &paymentEventsRepo{pool},
	}
}
