package app

import (
	"context"
	"strings"
	"time"

	"github.com/roby-rodriguez/parking-app/internal/clock"
	"github.com/roby-rodriguez/parking-app/internal/domain"
)

type GrantRepository interface {
	CreateGrant(ctx context.Context, g domain.Grant) error
	UpdateGrant(ctx context.Context, g domain.Grant) error
	SetStoredStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) (domain.Grant, error)
	ArchiveAndDelete(ctx context.Context, id, reason, deletedBy string, deletedAt time.Time) (domain.HistoryRecord, error)
	GetGrant(ctx context.Context, id string) (domain.Grant, error)
	ListGrants(ctx context.Context) ([]domain.GrantWithLocation, error)
	HasOverlap(ctx context.Context, locationID int64, from, to time.Time, excludeID string) (bool, error)
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListHistory(ctx context.Context) ([]domain.HistoryRecord, error)
}

type AuditLister interface {
	ListAudit(ctx context.Context) ([]domain.AuditRecord, error)
}

// GrantService carries the admin-facing operations: issue, update,
// suspend, resume, delete-to-history, and the listings backing the admin
// views. Mutations return the updated entity; callers decide whether to
// refresh anything else.
type GrantService struct {
	repo  GrantRepository
	audit AuditLister
	clock clock.Clock
}

func NewGrantService(repo GrantRepository, audit AuditLister, clk clock.Clock) *GrantService {
	return &GrantService{
		repo:  repo,
		audit: audit,
		clock: clk,
	}
}

// GrantSummary is a grant with its location and the freshly computed
// effective status. The stored flag is included for completeness but the
// effective status is always derived at read time.
type GrantSummary struct {
	Grant           domain.Grant
	Location        domain.Location
	EffectiveStatus domain.Status
}

func (s *GrantService) CreateGrant(ctx context.Context, in GrantInput) (domain.Grant, error) {
	now := s.clock.Now()
	if errs := ValidateGrantForm(in, now); len(errs) > 0 {
		return domain.Grant{}, &ValidationError{Fields: errs}
	}

	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	if status != domain.StatusActive && status != domain.StatusPending {
		return domain.Grant{}, domain.ErrInvalidStatus
	}

	if _, err := s.repo.GetLocation(ctx, in.LocationID); err != nil {
		return domain.Grant{}, err
	}

	// Fast-path UX check; the store's exclusion constraint is the actual
	// enforcement against concurrent creates.
	overlaps, err := s.repo.HasOverlap(ctx, in.LocationID, in.ValidFrom, in.ValidTo, "")
	if err != nil {
		return domain.Grant{}, err
	}
	if overlaps {
		return domain.Grant{}, domain.ErrWindowOverlap
	}

	grant := domain.Grant{
		ID:           newID(),
		ShareToken:   newShareToken(),
		GuestName:    strings.TrimSpace(in.GuestName),
		ValidFrom:    domain.AccessStart(in.ValidFrom),
		ValidTo:      domain.AccessStart(in.ValidTo),
		StoredStatus: status,
		LocationID:   in.LocationID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateGrant(ctx, grant); err != nil {
		return domain.Grant{}, err
	}
	return grant, nil
}

func (s *GrantService) UpdateGrant(ctx context.Context, id string, in GrantInput) (domain.Grant, error) {
	now := s.clock.Now()
	if errs := ValidateGrantForm(in, now); len(errs) > 0 {
		return domain.Grant{}, &ValidationError{Fields: errs}
	}

	grant, err := s.repo.GetGrant(ctx, id)
	if err != nil {
		return domain.Grant{}, err
	}

	if _, err := s.repo.GetLocation(ctx, in.LocationID); err != nil {
		return domain.Grant{}, err
	}

	overlaps, err := s.repo.HasOverlap(ctx, in.LocationID, in.ValidFrom, in.ValidTo, id)
	if err != nil {
		return domain.Grant{}, err
	}
	if overlaps {
		return domain.Grant{}, domain.ErrWindowOverlap
	}

	grant.GuestName = strings.TrimSpace(in.GuestName)
	grant.ValidFrom = domain.AccessStart(in.ValidFrom)
	grant.ValidTo = domain.AccessStart(in.ValidTo)
	grant.LocationID = in.LocationID
	grant.UpdatedAt = now

	if err := s.repo.UpdateGrant(ctx, grant); err != nil {
		return domain.Grant{}, err
	}
	return grant, nil
}

// Suspend is the administrator override: the grant stops opening the gate
// immediately, regardless of its window.
func (s *GrantService) Suspend(ctx context.Context, id string) (domain.Grant, error) {
	return s.repo.SetStoredStatus(ctx, id, domain.StatusSuspended, s.clock.Now())
}

// Resume lifts a suspension; the effective status falls back to whatever
// the window dictates.
func (s *GrantService) Resume(ctx context.Context, id string) (domain.Grant, error) {
	return s.repo.SetStoredStatus(ctx, id, domain.StatusActive, s.clock.Now())
}

// Delete archives the grant into history and removes it from the live
// set in one transaction. The share token stops resolving immediately.
func (s *GrantService) Delete(ctx context.Context, id, reason, deletedBy string) (domain.HistoryRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.HistoryRecord{}, domain.ErrReasonRequired
	}
	return s.repo.ArchiveAndDelete(ctx, id, reason, deletedBy, s.clock.Now())
}

func (s *GrantService) Get(ctx context.Context, id string) (GrantSummary, error) {
	grant, err := s.repo.GetGrant(ctx, id)
	if err != nil {
		return GrantSummary{}, err
	}
	loc, err := s.repo.GetLocation(ctx, grant.LocationID)
	if err != nil {
		return GrantSummary{}, err
	}
	return GrantSummary{
		Grant:           grant,
		Location:        loc,
		EffectiveStatus: grant.EffectiveStatus(s.clock.Now()),
	}, nil
}

func (s *GrantService) List(ctx context.Context) ([]GrantSummary, error) {
	rows, err := s.repo.ListGrants(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]GrantSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, GrantSummary{
			Grant:           row.Grant,
			Location:        row.Location,
			EffectiveStatus: row.Grant.EffectiveStatus(now),
		})
	}
	return out, nil
}

func (s *GrantService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx)
}

func (s *GrantService) ListHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	return s.repo.ListHistory(ctx)
}

func (s *GrantService) ListAudit(ctx context.Context) ([]domain.AuditRecord, error) {
	return s.audit.ListAudit(ctx)
}
