package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenlive/backend/internal/models"
)

type auditLogsRepo struct{ pool *pgxpool.Pool }

func (r *auditLogsRepo) Append(ctx context.Context, l models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs(id, actor_id, actor_name, action, target, severity, details)
		 VALUES($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.ActorID, l.ActorName, l.Action, l.Target, l.Severity, l.Details)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, actor_name, action, target, severity, details, created_at
		   FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorID, &l.ActorName, &l.Action, &l.Target,
			&l.Severity, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
