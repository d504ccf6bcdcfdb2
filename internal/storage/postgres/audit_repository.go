package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// AuditRepository is append-only: entries are never updated or deleted,
// and grant_id is deliberately not a foreign key so entries survive the
// deletion of the grant they reference.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	const stmt = `
INSERT INTO audit_log (grant_id, action, location_id, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.GrantID,
		entry.Action,
		entry.LocationID,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListAudit(ctx context.Context) ([]domain.AuditRecord, error) {
	const query = `
SELECT a.id, a.grant_id, a.action, a.location_id, a.ip_address, a.user_agent, a.created_at,
       COALESCE(g.guest_name, ''), COALESCE(l.name, ''), COALESCE(l.gate_name, '')
FROM audit_log a
LEFT JOIN grants g ON g.id = a.grant_id
LEFT JOIN locations l ON l.id = a.location_id
ORDER BY a.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(
			&rec.ID, &rec.GrantID, &rec.Action, &rec.LocationID,
			&rec.IPAddress, &rec.UserAgent, &rec.CreatedAt,
			&rec.GuestName, &rec.LocationName, &rec.GateName,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
