package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/availability"
	scheddomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/timezone"
)

type UpdateScheduleInput struct {
	Principal  access.Principal
	ScheduleID uuid.UUID
	StartTime  *string
	Duration   *duration.Duration
	Open       *bool
}

type UpdateSchedule struct {
	repo    scheddomain.Repository
	engine  *availability.Engine
	locker  lock.Locker
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewUpdateSchedule(
	repo scheddomain.Repository,
	engine *availability.Engine,
	locker lock.Locker,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *UpdateSchedule {
	return &UpdateSchedule{
		repo:    repo,
		engine:  engine,
		locker:  locker,
		audit:   audit,
		metrics: m,
	}
}

// Execute applies a partial update. A change to the start or the duration
// is checked against the weekly quota as if the block were new, with the
// block's current minutes left out of the sum.
func (uc *UpdateSchedule) Execute(ctx context.Context, in UpdateScheduleInput) (*models.ScheduleBlock, error) {
	block, err := uc.load(ctx, in.ScheduleID)
	if err != nil {
		return nil, err
	}
	if access.CanMutateSchedule(in.Principal, block) == access.Deny {
		return nil, ErrForbidden
	}

	if in.StartTime != nil || in.Duration != nil {
		unlock, err := uc.locker.Lock(ctx, quotaKey(block.ContractorID.String()))
		if err != nil {
			return nil, fmt.Errorf("acquire schedule lock: %w", err)
		}
		defer unlock()

		// reload under the lock
		if block, err = uc.load(ctx, in.ScheduleID); err != nil {
			return nil, err
		}

		contractor, err := uc.repo.GetContractor(ctx, block.ContractorID)
		if err != nil {
			return nil, fmt.Errorf("load contractor: %w", err)
		}
		loc := timezone.Location(contractor.Timezone)

		start := block.StartTime
		if in.StartTime != nil {
			parsed, ok := availability.ParseStart(*in.StartTime, loc)
			if !ok {
				return nil, availability.ErrInvalidDate
			}
			start = parsed
		}
		d := block.Duration
		if in.Duration != nil {
			d = *in.Duration
		}

		if err := uc.engine.Validate(ctx, in.Principal, loc, start, d, &block.ID); err != nil {
			if httperr.IsBusiness(err, "quota_exceeded") {
				uc.metrics.QuotaRejected()
			}
			return nil, err
		}

		block.StartTime = start.UTC().Truncate(time.Second)
		block.Duration = d
	}

	if in.Open != nil {
		block.Open = *in.Open
	}

	if err := uc.repo.UpdateBlock(ctx, block); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrDuplicateStart
		}
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ContractorID: &block.ContractorID,
		UserID:       &in.Principal.UserID,
		Action:       "schedule_updated",
		Entity:       "schedule",
		EntityID:     &block.ID,
	})

	return block, nil
}

func (uc *UpdateSchedule) load(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error) {
	block, err := uc.repo.GetBlock(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrScheduleMissing
		}
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return block, nil
}
