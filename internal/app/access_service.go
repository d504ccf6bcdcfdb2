package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roby-rodriguez/parking-app/internal/clock"
	"github.com/roby-rodriguez/parking-app/internal/domain"
)

// AccessReader resolves a share token to a grant joined with its location.
type AccessReader interface {
	FindByShareToken(ctx context.Context, token string) (domain.GrantWithLocation, error)
}

// AuditAppender persists one entry per successful actuation trigger.
type AuditAppender interface {
	AppendAudit(ctx context.Context, entry domain.AuditEntry) error
}

// RateLimiter is the fixed-window attempt counter. Allow performs the
// check and the increment as one atomic operation; a returned error means
// the counter store is unreachable, which the gateway treats as fail-open.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Dialer places the call that physically triggers the gate. It returns an
// error wrapping domain.ErrGateConfigMissing when credentials are absent
// and domain.ErrActuationFailed on channel failure.
type Dialer interface {
	Dial(ctx context.Context, toNumber string) error
}

// GateDirectory resolves a gate number to its destination phone number.
type GateDirectory interface {
	GatePhone(gateNumber int) (string, bool)
}

// RequestMeta is what an attempt captures about the caller for the audit
// trail. Nothing else about the guest is collected.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type OpenResult struct {
	GateName string
	Message  string
}

// AccessService is the only code path allowed to trigger gate actuation.
// One OpenGate call walks rate check, grant resolution, status check,
// configuration, actuation and audit in that order; every step fails the
// attempt terminally, and retry is a human re-click bounded by the
// limiter.
type AccessService struct {
	grants  AccessReader
	audits  AuditAppender
	limiter RateLimiter
	dialer  Dialer
	gates   GateDirectory
	clock   clock.Clock
	logger  *slog.Logger
}

type AccessDeps struct {
	Grants  AccessReader
	Audits  AuditAppender
	Limiter RateLimiter
	Dialer  Dialer
	Gates   GateDirectory
	Clock   clock.Clock
	Logger  *slog.Logger
}

func NewAccessService(deps AccessDeps) *AccessService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessService{
		grants:  deps.Grants,
		audits:  deps.Audits,
		limiter: deps.Limiter,
		dialer:  deps.Dialer,
		gates:   deps.Gates,
		clock:   deps.Clock,
		logger:  logger,
	}
}

func (s *AccessService) OpenGate(ctx context.Context, shareToken string, meta RequestMeta) (OpenResult, error) {
	// Rate check first, before the grant store is touched. An unreachable
	// counter store degrades to no limiting: availability of physical
	// access wins over a secondary abuse defense.
	allowed, err := s.limiter.Allow(ctx, shareToken)
	if err != nil {
		s.logger.Warn("rate limit store unreachable, proceeding without limiting",
			slog.String("error", err.Error()))
	} else if !allowed {
		return OpenResult{}, domain.ErrRateLimited
	}

	resolved, err := s.grants.FindByShareToken(ctx, shareToken)
	if err != nil {
		return OpenResult{}, err
	}
	grant, location := resolved.Grant, resolved.Location

	now := s.clock.Now()
	switch grant.EffectiveStatus(now) {
	case domain.StatusSuspended:
		return OpenResult{}, domain.ErrGrantSuspended
	case domain.StatusExpired:
		return OpenResult{}, domain.ErrGrantExpired
	case domain.StatusPending:
		return OpenResult{}, domain.ErrGrantPending
	}

	phone, ok := s.gates.GatePhone(location.GateNumber)
	if !ok {
		s.logger.Error("no destination number configured for gate",
			slog.Int("gate_number", location.GateNumber),
			slog.String("grant_id", grant.ID))
		return OpenResult{}, domain.ErrGateConfigMissing
	}

	if err := s.dialer.Dial(ctx, phone); err != nil {
		s.logger.Error("gate actuation failed",
			slog.Int("gate_number", location.GateNumber),
			slog.String("grant_id", grant.ID),
			slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrGateConfigMissing) {
			return OpenResult{}, domain.ErrGateConfigMissing
		}
		return OpenResult{}, domain.ErrActuationFailed
	}

	// The audit row is written synchronously before the caller sees
	// success. The one exception: if the insert fails the gate has already
	// physically opened, so the discrepancy is logged instead of turned
	// into a guest-visible failure.
	entry := domain.AuditEntry{
		GrantID:    grant.ID,
		Action:     domain.ActionGateOpened,
		LocationID: location.ID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  now,
	}
	if err := s.audits.AppendAudit(ctx, entry); err != nil {
		s.logger.Error("audit write failed after successful actuation",
			slog.String("grant_id", grant.ID),
			slog.String("error", err.Error()))
	}

	gate := gateLabel(location)
	return OpenResult{
		GateName: gate,
		Message:  fmt.Sprintf("%s opening initiated", gate),
	}, nil
}

// Describe backs the guest share-link page: the grant and its location
// when effectively active, a status-specific error otherwise. It never
// counts against the rate limit and never touches the gate.
func (s *AccessService) Describe(ctx context.Context, shareToken string) (domain.GrantWithLocation, error) {
	resolved, err := s.grants.FindByShareToken(ctx, shareToken)
	if err != nil {
		return domain.GrantWithLocation{}, err
	}

	switch resolved.Grant.EffectiveStatus(s.clock.Now()) {
	case domain.StatusSuspended:
		return domain.GrantWithLocation{}, domain.ErrGrantSuspended
	case domain.StatusExpired:
		return domain.GrantWithLocation{}, domain.ErrGrantExpired
	case domain.StatusPending:
		return domain.GrantWithLocation{}, domain.ErrGrantPending
	}
	return resolved, nil
}

func gateLabel(loc domain.Location) string {
	if loc.GateName != "" {
		return loc.GateName
	}
	return fmt.Sprintf("Gate %d", loc.GateNumber)
}
