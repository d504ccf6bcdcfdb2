package domain

import (
	"testing"
	"time"
)

func TestEffectiveStatus(t *testing.T) {
	t.Parallel()

	validFrom := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(2025, 6, 20, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		stored Status
		now    time.Time
		want   Status
	}{
		{
			name:   "active inside window",
			stored: StatusActive,
			now:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want:   StatusActive,
		},
		{
			name:   "pending before window",
			stored: StatusActive,
			now:    time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC),
			want:   StatusPending,
		},
		{
			name:   "expired after window",
			stored: StatusActive,
			now:    time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
			want:   StatusExpired,
		},
		{
			name:   "active exactly at window start",
			stored: StatusActive,
			now:    validFrom,
			want:   StatusActive,
		},
		{
			name:   "active exactly at window end",
			stored: StatusActive,
			now:    validTo,
			want:   StatusActive,
		},
		{
			name:   "suspension wins inside window",
			stored: StatusSuspended,
			now:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want:   StatusSuspended,
		},
		{
			name:   "suspension wins after window",
			stored: StatusSuspended,
			now:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			want:   StatusSuspended,
		},
		{
			name:   "suspension wins before window",
			stored: StatusSuspended,
			now:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want:   StatusSuspended,
		},
		{
			name:   "stored pending inside window is active",
			stored: StatusPending,
			now:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want:   StatusActive,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EffectiveStatus(tt.stored, validFrom, validTo, tt.now)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEffectiveStatus_IsPure(t *testing.T) {
	t.Parallel()

	validFrom := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(2025, 6, 20, 23, 59, 59, 0, time.UTC)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	first := EffectiveStatus(StatusActive, validFrom, validTo, now)
	for i := 0; i < 10; i++ {
		if got := EffectiveStatus(StatusActive, validFrom, validTo, now); got != first {
			t.Fatalf("expected stable result %s, got %s on call %d", first, got, i)
		}
	}
}

func TestGrant_EffectiveStatus_DayBoundaries(t *testing.T) {
	t.Parallel()

	grant := Grant{
		StoredStatus: StatusActive,
		ValidFrom:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		ValidTo:      time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"late evening of last day still active", time.Date(2025, 6, 20, 23, 30, 0, 0, time.UTC), StatusActive},
		{"last second of last day active", time.Date(2025, 6, 20, 23, 59, 59, 0, time.UTC), StatusActive},
		{"midnight after last day expired", time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), StatusExpired},
		{"midnight of first day active", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), StatusActive},
		{"second before first day pending", time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC), StatusPending},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := grant.EffectiveStatus(tt.now); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAccessBounds(t *testing.T) {
	t.Parallel()

	in := time.Date(2025, 6, 10, 14, 37, 12, 0, time.UTC)

	if got := AccessStart(in); !got.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected access start %v", got)
	}
	if got := AccessEnd(in); !got.Equal(time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("unexpected access end %v", got)
	}
}

func TestWindowsOverlap(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo int
		want                   bool
	}{
		{"disjoint", 1, 5, 10, 15, false},
		{"contained", 1, 15, 5, 10, true},
		{"partial overlap", 1, 10, 5, 15, true},
		{"shared boundary day overlaps", 1, 10, 10, 15, true},
		{"adjacent days do not overlap", 1, 9, 10, 15, false},
		{"identical windows", 3, 7, 3, 7, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WindowsOverlap(day(tt.aFrom), day(tt.aTo), day(tt.bFrom), day(tt.bTo))
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			// Overlap is symmetric.
			if rev := WindowsOverlap(day(tt.bFrom), day(tt.bTo), day(tt.aFrom), day(tt.aTo)); rev != got {
				t.Fatalf("expected symmetric result, got %v vs %v", got, rev)
			}
		})
	}
}
