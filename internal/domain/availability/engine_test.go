package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
)

type block struct {
	id           uuid.UUID
	contractorID uuid.UUID
	start        time.Time
	minutes      int
}

type memUsage struct {
	blocks []block
}

func (m *memUsage) SumBlockMinutes(_ context.Context, contractorID uuid.UUID, from, to time.Time, exclude *uuid.UUID) (int, error) {
	total := 0
	for _, b := range m.blocks {
		if b.contractorID != contractorID {
			continue
		}
		if exclude != nil && b.id == *exclude {
			continue
		}
		if b.start.Before(from) || !b.start.Before(to) {
			continue
		}
		total += b.minutes
	}
	return total, nil
}

func (m *memUsage) add(contractorID uuid.UUID, start time.Time, minutes int) uuid.UUID {
	id := uuid.New()
	m.blocks = append(m.blocks, block{id: id, contractorID: contractorID, start: start, minutes: minutes})
	return id
}

func freeContractor() access.Principal {
	cid := uuid.New()
	return access.Principal{UserID: uuid.New(), ContractorID: &cid}
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestWeek_SundayToSunday(t *testing.T) {
	loc := mustLoc(t, "America/New_York")

	// Wednesday 2024-01-10 15:00 local
	mid := time.Date(2024, 1, 10, 15, 0, 0, 0, loc)
	start, end := Week(mid, loc)

	wantStart := time.Date(2024, 1, 7, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, 1, 14, 0, 0, 0, 0, loc)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("week = [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}

	// Sunday midnight starts a new week
	s2, _ := Week(wantEnd, loc)
	if !s2.Equal(wantEnd) {
		t.Fatalf("sunday midnight should start its own week, got %v", s2)
	}

	// one second before belongs to the previous week
	s3, _ := Week(wantEnd.Add(-time.Second), loc)
	if !s3.Equal(wantStart) {
		t.Fatalf("saturday 23:59:59 should belong to previous week, got %v", s3)
	}
}

func TestWeek_DSTWeekSpansCalendarDays(t *testing.T) {
	loc := mustLoc(t, "America/New_York")

	// DST starts 2024-03-10 (a Sunday) at 02:00 local
	start, end := Week(time.Date(2024, 3, 12, 9, 0, 0, 0, loc), loc)

	if start.Day() != 10 || start.Hour() != 0 {
		t.Fatalf("unexpected week start %v", start)
	}
	if end.Day() != 17 || end.Hour() != 0 {
		t.Fatalf("unexpected week end %v", end)
	}
	if got := end.Sub(start); got != 7*24*time.Hour-time.Hour {
		t.Fatalf("DST week should be 167h, got %v", got)
	}
}

func TestParseStart(t *testing.T) {
	loc := mustLoc(t, "America/New_York")

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-10T15:00:00Z", time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)},
		{"2024-01-10T10:00:00-05:00", time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)},
		{"2024-01-10T10:00", time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)},
		{"2024-01-10 10:00:30", time.Date(2024, 1, 10, 15, 0, 30, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseStart(tc.in, loc)
		if !ok {
			t.Fatalf("ParseStart(%q) failed", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseStart(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "tomorrow", "2024-13-40T10:00"} {
		if _, ok := ParseStart(bad, loc); ok {
			t.Fatalf("ParseStart(%q) should fail", bad)
		}
	}
}

func TestValidateNewBlock_QuotaBoundary(t *testing.T) {
	ctx := context.Background()
	usage := &memUsage{}
	e := NewEngine(usage, 0)
	p := freeContractor()

	monday := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	usage.add(*p.ContractorID, monday, 240)

	// exactly at the limit is allowed
	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(60), nil); err != nil {
		t.Fatalf("240+60 should be allowed: %v", err)
	}

	// one minute over is rejected
	_, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(61), nil)
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("240+61 should exceed quota, got %v", err)
	}
	if httperr.KindOf(err) != httperr.KindForbidden {
		t.Fatalf("quota failure must be forbidden, got %v", httperr.KindOf(err))
	}
}

func TestValidateNewBlock_FullWeekRejectsAnyMore(t *testing.T) {
	ctx := context.Background()
	usage := &memUsage{}
	e := NewEngine(usage, DefaultFreeWeeklyMinutes)
	p := freeContractor()

	usage.add(*p.ContractorID, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), 300)

	_, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-12T09:00:00Z", duration.FromMinutes(1), nil)
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("expected quota_exceeded, got %v", err)
	}

	// next week is unaffected
	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-14T00:00:00Z", duration.FromMinutes(300), nil); err != nil {
		t.Fatalf("following week should be empty: %v", err)
	}
}

func TestValidateNewBlock_SubscribedSkipsQuota(t *testing.T) {
	ctx := context.Background()
	usage := &memUsage{}
	e := NewEngine(usage, DefaultFreeWeeklyMinutes)

	p := freeContractor()
	sub := "sub_123"
	p.SubscriptionID = &sub

	usage.add(*p.ContractorID, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), 600)

	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(600), nil); err != nil {
		t.Fatalf("subscribed contractor should not be limited: %v", err)
	}

	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-10T09:00:00Z", duration.FromMinutes(1<<62), nil); err != ErrInvalidDuration {
		t.Fatalf("subscription does not lift the duration bound, got %v", err)
	}
}

func TestValidateNewBlock_OtherContractorsDoNotCount(t *testing.T) {
	ctx := context.Background()
	usage := &memUsage{}
	e := NewEngine(usage, DefaultFreeWeeklyMinutes)

	p := freeContractor()
	usage.add(uuid.New(), time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), 300)

	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(300), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNewBlock_ExcludeForUpdates(t *testing.T) {
	ctx := context.Background()
	usage := &memUsage{}
	e := NewEngine(usage, DefaultFreeWeeklyMinutes)
	p := freeContractor()

	id := usage.add(*p.ContractorID, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), 200)
	usage.add(*p.ContractorID, time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC), 60)

	// growing the first block to 240 keeps the week at 300
	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-08T09:00:00Z", duration.FromMinutes(240), &id); err != nil {
		t.Fatalf("update within quota rejected: %v", err)
	}
	_, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-08T09:00:00Z", duration.FromMinutes(241), &id)
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("expected quota_exceeded, got %v", err)
	}
}

func TestValidateNewBlock_LocalWeekBoundary(t *testing.T) {
	ctx := context.Background()
	loc := mustLoc(t, "America/New_York")
	usage := &memUsage{}
	e := NewEngine(usage, DefaultFreeWeeklyMinutes)
	p := freeContractor()

	// Saturday 2024-01-13 22:00 local is Sunday 03:00 UTC but still the old local week
	usage.add(*p.ContractorID, time.Date(2024, 1, 14, 3, 0, 0, 0, time.UTC), 300)

	_, err := e.ValidateNewBlock(ctx, p, loc, "2024-01-13T08:00", duration.FromMinutes(30), nil)
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("saturday local block should count toward its local week, got %v", err)
	}

	if _, err := e.ValidateNewBlock(ctx, p, loc, "2024-01-14T00:00", duration.FromMinutes(300), nil); err != nil {
		t.Fatalf("local sunday starts a fresh week: %v", err)
	}
}

func TestValidateNewBlock_InvalidInput(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(&memUsage{}, DefaultFreeWeeklyMinutes)
	p := freeContractor()

	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "not a date", duration.FromMinutes(30), nil); err != ErrInvalidDate {
		t.Fatalf("expected invalid_date, got %v", err)
	}
	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(0), nil); err != ErrInvalidDuration {
		t.Fatalf("expected invalid_duration, got %v", err)
	}
	if _, err := e.ValidateNewBlock(ctx, p, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(duration.MaxMinutes+1), nil); err != ErrInvalidDuration {
		t.Fatalf("expected invalid_duration over a week, got %v", err)
	}
	if _, err := e.ValidateNewBlock(ctx, access.Principal{UserID: uuid.New()}, time.UTC, "2024-01-09T09:00:00Z", duration.FromMinutes(30), nil); err != ErrNotContractor {
		t.Fatalf("expected not_contractor, got %v", err)
	}
}
