package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

type GrantRepository struct {
	pool *pgxpool.Pool
}

func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{pool: pool}
}

const grantColumns = `id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, updated_at`

const locationColumns = `id, name, apartment, address, gate_number, gate_name, gate_description`

func (r *GrantRepository) CreateGrant(ctx context.Context, g domain.Grant) error {
	const stmt = `
INSERT INTO grants (id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		g.ID,
		g.ShareToken,
		g.GuestName,
		g.ValidFrom,
		g.ValidTo,
		g.StoredStatus,
		g.LocationID,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrWindowOverlap
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			// Generated UUIDs colliding means the caller reused an id.
			return fmt.Errorf("create grant: duplicate id or share token: %w", err)
		}
		return fmt.Errorf("create grant: %w", err)
	}
	return nil
}

func (r *GrantRepository) UpdateGrant(ctx context.Context, g domain.Grant) error {
	const stmt = `
UPDATE grants
SET guest_name = $2, valid_from = $3, valid_to = $4, location_id = $5, updated_at = $6
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		g.ID,
		g.GuestName,
		g.ValidFrom,
		g.ValidTo,
		g.LocationID,
		g.UpdatedAt,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrWindowOverlap
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

func (r *GrantRepository) SetStoredStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) (domain.Grant, error) {
	const stmt = `
UPDATE grants
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + grantColumns

	g, err := scanGrant(r.queryRow(ctx, stmt, id, status, updatedAt))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Grant{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Grant{}, domain.ErrGrantNotFound
		}
		return domain.Grant{}, fmt.Errorf("set stored status: %w", err)
	}
	return g, nil
}

// ArchiveAndDelete snapshots the grant into grant_history and removes it
// from the live set in one transaction, so the share token stops
// resolving at the same instant the history record appears.
func (r *GrantRepository) ArchiveAndDelete(ctx context.Context, id, reason, deletedBy string, deletedAt time.Time) (domain.HistoryRecord, error) {
	var record domain.HistoryRecord

	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const archive = `
INSERT INTO grant_history (original_id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, deleted_at, deleted_by, reason)
SELECT id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, $2, $3, $4
FROM grants
WHERE id = $1
RETURNING id, original_id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, deleted_at, deleted_by, reason`

		err := r.queryRow(txCtx, archive, id, deletedAt, deletedBy, reason).Scan(
			&record.ID,
			&record.OriginalID,
			&record.ShareToken,
			&record.GuestName,
			&record.ValidFrom,
			&record.ValidTo,
			&record.StoredStatus,
			&record.LocationID,
			&record.CreatedAt,
			&record.DeletedAt,
			&record.DeletedBy,
			&record.Reason,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if err == pgx.ErrNoRows {
				return domain.ErrGrantNotFound
			}
			return fmt.Errorf("archive grant: %w", err)
		}

		if _, err := r.exec(txCtx, `DELETE FROM grants WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	return record, nil
}

func (r *GrantRepository) GetGrant(ctx context.Context, id string) (domain.Grant, error) {
	const query = `SELECT ` + grantColumns + ` FROM grants WHERE id = $1`

	g, err := scanGrant(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Grant{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Grant{}, domain.ErrGrantNotFound
		}
		return domain.Grant{}, fmt.Errorf("get grant: %w", err)
	}
	return g, nil
}

// FindByShareToken resolves the public token to a grant joined with its
// location. Deleted grants are unreachable here: they live only in
// grant_history.
func (r *GrantRepository) FindByShareToken(ctx context.Context, token string) (domain.GrantWithLocation, error) {
	const query = `
SELECT g.id, g.share_token, g.guest_name, g.valid_from, g.valid_to, g.status, g.location_id, g.created_at, g.updated_at,
       l.id, l.name, l.apartment, l.address, l.gate_number, l.gate_name, l.gate_description
FROM grants g
JOIN locations l ON l.id = g.location_id
WHERE g.share_token = $1`

	var out domain.GrantWithLocation
	err := r.queryRow(ctx, query, token).Scan(
		&out.Grant.ID,
		&out.Grant.ShareToken,
		&out.Grant.GuestName,
		&out.Grant.ValidFrom,
		&out.Grant.ValidTo,
		&out.Grant.StoredStatus,
		&out.Grant.LocationID,
		&out.Grant.CreatedAt,
		&out.Grant.UpdatedAt,
		&out.Location.ID,
		&out.Location.Name,
		&out.Location.Apartment,
		&out.Location.Address,
		&out.Location.GateNumber,
		&out.Location.GateName,
		&out.Location.GateDescription,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.GrantWithLocation{}, domain.ErrGrantNotFound
		}
		if err == pgx.ErrNoRows {
			return domain.GrantWithLocation{}, domain.ErrGrantNotFound
		}
		return domain.GrantWithLocation{}, fmt.Errorf("find by share token: %w", err)
	}
	return out, nil
}

func (r *GrantRepository) ListGrants(ctx context.Context) ([]domain.GrantWithLocation, error) {
	const query = `
SELECT g.id, g.share_token, g.guest_name, g.valid_from, g.valid_to, g.status, g.location_id, g.created_at, g.updated_at,
       l.id, l.name, l.apartment, l.address, l.gate_number, l.gate_name, l.gate_description
FROM grants g
JOIN locations l ON l.id = g.location_id
ORDER BY g.created_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var out []domain.GrantWithLocation
	for rows.Next() {
		var item domain.GrantWithLocation
		if err := rows.Scan(
			&item.Grant.ID,
			&item.Grant.ShareToken,
			&item.Grant.GuestName,
			&item.Grant.ValidFrom,
			&item.Grant.ValidTo,
			&item.Grant.StoredStatus,
			&item.Grant.LocationID,
			&item.Grant.CreatedAt,
			&item.Grant.UpdatedAt,
			&item.Location.ID,
			&item.Location.Name,
			&item.Location.Apartment,
			&item.Location.Address,
			&item.Location.GateNumber,
			&item.Location.GateName,
			&item.Location.GateDescription,
		); err != nil {
			return nil, fmt.Errorf("scan grant row: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// HasOverlap is the fast-path pre-check with closed-interval semantics.
// The exclusion constraint on grants remains the enforcement under
// concurrency.
func (r *GrantRepository) HasOverlap(ctx context.Context, locationID int64, from, to time.Time, excludeID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM grants
	WHERE location_id = $1
	  AND valid_from <= $3
	  AND $2 <= valid_to
	  AND ($4 = '' OR id::text <> $4)
)`

	var exists bool
	if err := r.queryRow(ctx, query, locationID, from, to, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return exists, nil
}

func (r *GrantRepository) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	var l domain.Location
	err := r.queryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Apartment, &l.Address, &l.GateNumber, &l.GateName, &l.GateDescription,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Location{}, domain.ErrLocationNotFound
		}
		return domain.Location{}, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *GrantRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations ORDER BY id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Apartment, &l.Address, &l.GateNumber, &l.GateName, &l.GateDescription); err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *GrantRepository) ListHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	const query = `
SELECT id, original_id, share_token, guest_name, valid_from, valid_to, status, location_id, created_at, deleted_at, deleted_by, reason
FROM grant_history
ORDER BY deleted_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		var h domain.HistoryRecord
		if err := rows.Scan(
			&h.ID, &h.OriginalID, &h.ShareToken, &h.GuestName, &h.ValidFrom, &h.ValidTo,
			&h.StoredStatus, &h.LocationID, &h.CreatedAt, &h.DeletedAt, &h.DeletedBy, &h.Reason,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanGrant(row pgx.Row) (domain.Grant, error) {
	var g domain.Grant
	err := row.Scan(
		&g.ID, &g.ShareToken, &g.GuestName, &g.ValidFrom, &g.ValidTo,
		&g.StoredStatus, &g.LocationID, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func (r *GrantRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *GrantRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *GrantRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
