package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roby-rodriguez/parking-app/internal/domain"
	"github.com/roby-rodriguez/parking-app/internal/testutil"
)

func TestAuditRepository_AppendAndList(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	grantRepo := NewGrantRepository(pool)
	auditRepo := NewAuditRepository(pool)
	locID := testutil.InsertLocation(t, ctx, pool, "Strada Lunga 10", 1)

	grant := newTestGrant(locID, 10, 14)
	if err := grantRepo.CreateGrant(ctx, grant); err != nil {
		t.Fatalf("create grant: %v", err)
	}

	entry := domain.AuditEntry{
		GrantID:    grant.ID,
		Action:     domain.ActionGateOpened,
		LocationID: locID,
		IPAddress:  "203.0.113.9",
		UserAgent:  "Mozilla/5.0",
		CreatedAt:  time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC),
	}
	if err := auditRepo.AppendAudit(ctx, entry); err != nil {
		t.Fatalf("append audit: %v", err)
	}

	records, err := auditRepo.ListAudit(ctx)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(records))
	}
	rec := records[0]
	if rec.GrantID != grant.ID || rec.Action != domain.ActionGateOpened {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.IPAddress != "203.0.113.9" || rec.UserAgent != "Mozilla/5.0" {
		t.Fatalf("expected request meta persisted, got %+v", rec)
	}
	if rec.GuestName != "Ana Pop" || rec.LocationName != "Strada Lunga 10" || rec.GateName != "Main gate" {
		t.Fatalf("expected joined labels, got %+v", rec)
	}
}

func TestAuditRepository_EntriesSurviveGrantDeletion(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	grantRepo := NewGrantRepository(pool)
	auditRepo := NewAuditRepository(pool)
	locID := testutil.InsertLocation(t, ctx, pool, "Strada Lunga 10", 1)

	grant := newTestGrant(locID, 10, 14)
	if err := grantRepo.CreateGrant(ctx, grant); err != nil {
		t.Fatalf("create grant: %v", err)
	}
	if err := auditRepo.AppendAudit(ctx, domain.AuditEntry{
		GrantID:    grant.ID,
		Action:     domain.ActionGateOpened,
		LocationID: locID,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("append audit: %v", err)
	}

	if _, err := grantRepo.ArchiveAndDelete(ctx, grant.ID, "cleanup", "admin", time.Now().UTC()); err != nil {
		t.Fatalf("archive and delete: %v", err)
	}

	records, err := auditRepo.ListAudit(ctx)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected audit record to survive deletion, got %d", len(records))
	}
	if records[0].GrantID != grant.ID {
		t.Fatalf("expected grant id retained, got %s", records[0].GrantID)
	}
	// The guest label came from the deleted grant and is gone now.
	if records[0].GuestName != "" {
		t.Fatalf("expected empty guest label after deletion, got %q", records[0].GuestName)
	}
}

func TestAuditRepository_ListOrdersNewestFirst(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	auditRepo := NewAuditRepository(pool)
	locID := testutil.InsertLocation(t, ctx, pool, "Strada Lunga 10", 1)

	older := domain.AuditEntry{
		GrantID:    uuid.NewString(),
		Action:     domain.ActionGateOpened,
		LocationID: locID,
		CreatedAt:  time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.GrantID = uuid.NewString()
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	if err := auditRepo.AppendAudit(ctx, older); err != nil {
		t.Fatalf("append audit: %v", err)
	}
	if err := auditRepo.AppendAudit(ctx, newer); err != nil {
		t.Fatalf("append audit: %v", err)
	}

	records, err := auditRepo.ListAudit(ctx)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].GrantID != newer.GrantID {
		t.Fatalf("expected newest first, got %s", records[0].GrantID)
	}
}
