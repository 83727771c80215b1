// Package availability enforces the free-tier weekly limit on the schedule
// blocks a contractor can publish.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
)

const DefaultFreeWeeklyMinutes = 5 * 60

var (
	ErrInvalidDate     = httperr.Invalid("invalid_date", "Invalid date")
	ErrInvalidDuration = httperr.Invalid("invalid_duration", "Duration must be positive and at most one week")
	ErrNotContractor   = httperr.Forbidden("not_contractor", "Only contractors can publish availability")
)

// QuotaExceededError is the Forbidden failure raised when a block would push
// a free-tier contractor past the weekly limit.
func QuotaExceededError(limit int) error {
	return httperr.Forbidden(
		"quota_exceeded",
		fmt.Sprintf(
			"Free accounts can publish up to %s of availability per week. Subscribe to add more.",
			duration.FromMinutes(limit),
		),
	)
}

// Usage sums the minutes of a contractor's blocks starting in [from, to).
type Usage interface {
	SumBlockMinutes(ctx context.Context, contractorID uuid.UUID, from, to time.Time, exclude *uuid.UUID) (int, error)
}

type Engine struct {
	usage       Usage
	freeMinutes int
}

func NewEngine(usage Usage, freeMinutes int) *Engine {
	if freeMinutes <= 0 {
		freeMinutes = DefaultFreeWeeklyMinutes
	}
	return &Engine{usage: usage, freeMinutes: freeMinutes}
}

// WeeklyMinutes is the total duration of the contractor's blocks in the
// local week containing t.
func (e *Engine) WeeklyMinutes(ctx context.Context, contractorID uuid.UUID, t time.Time, loc *time.Location, exclude *uuid.UUID) (int, error) {
	from, to := Week(t, loc)
	total, err := e.usage.SumBlockMinutes(ctx, contractorID, from.UTC(), to.UTC(), exclude)
	if err != nil {
		return 0, fmt.Errorf("sum weekly minutes: %w", err)
	}
	return total, nil
}

// ValidateNewBlock parses the proposed start and, for contractors without a
// subscription, rejects a block that would exceed the free weekly minutes.
// exclude leaves one existing block out of the sum, for updates.
// The returned start is in UTC.
func (e *Engine) ValidateNewBlock(
	ctx context.Context,
	p access.Principal,
	loc *time.Location,
	rawStart string,
	d duration.Duration,
	exclude *uuid.UUID,
) (time.Time, error) {
	start, ok := ParseStart(rawStart, loc)
	if !ok {
		return time.Time{}, ErrInvalidDate
	}
	if err := e.Validate(ctx, p, loc, start, d, exclude); err != nil {
		return time.Time{}, err
	}
	return start, nil
}

// Validate is ValidateNewBlock for an already parsed start.
func (e *Engine) Validate(
	ctx context.Context,
	p access.Principal,
	loc *time.Location,
	start time.Time,
	d duration.Duration,
	exclude *uuid.UUID,
) error {
	if !d.Valid() {
		return ErrInvalidDuration
	}
	if !p.IsContractor() {
		return ErrNotContractor
	}
	if p.HasSubscription() {
		return nil
	}

	existing, err := e.WeeklyMinutes(ctx, *p.ContractorID, start, loc, exclude)
	if err != nil {
		return err
	}
	if existing+d.Minutes() > e.freeMinutes {
		return QuotaExceededError(e.freeMinutes)
	}
	return nil
}
