package schedule

import (
	"context"
	"errors"
	"fmt"

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

type CreateScheduleInput struct {
	Principal access.Principal
	StartTime string
	Duration  duration.Duration
	Open      *bool
}

type CreateSchedule struct {
	repo    scheddomain.Repository
	engine  *availability.Engine
	locker  lock.Locker
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewCreateSchedule(
	repo scheddomain.Repository,
	engine *availability.Engine,
	locker lock.Locker,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateSchedule {
	return &CreateSchedule{
		repo:    repo,
		engine:  engine,
		locker:  locker,
		audit:   audit,
		metrics: m,
	}
}

func (uc *CreateSchedule) Execute(ctx context.Context, in CreateScheduleInput) (*models.ScheduleBlock, error) {
	p := in.Principal
	if !p.IsContractor() {
		return nil, ErrNotContractor
	}
	contractorID := *p.ContractorID

	contractor, err := uc.repo.GetContractor(ctx, contractorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrContractorMissing
		}
		return nil, fmt.Errorf("load contractor: %w", err)
	}

	// the weekly sum and the insert must not interleave with another
	// request for the same contractor
	unlock, err := uc.locker.Lock(ctx, quotaKey(contractorID.String()))
	if err != nil {
		return nil, fmt.Errorf("acquire schedule lock: %w", err)
	}
	defer unlock()

	loc := timezone.Location(contractor.Timezone)
	start, err := uc.engine.ValidateNewBlock(ctx, p, loc, in.StartTime, in.Duration, nil)
	if err != nil {
		if httperr.IsBusiness(err, "quota_exceeded") {
			uc.metrics.QuotaRejected()
		}
		return nil, err
	}

	block := &models.ScheduleBlock{
		ContractorID: contractorID,
		StartTime:    start,
		Duration:     in.Duration,
		Open:         true,
	}
	if in.Open != nil {
		block.Open = *in.Open
	}

	if err := uc.repo.CreateBlock(ctx, block); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrDuplicateStart
		}
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ContractorID: &contractorID,
		UserID:       &p.UserID,
		Action:       "schedule_created",
		Entity:       "schedule",
		EntityID:     &block.ID,
		Metadata: map[string]any{
			"startTime": block.StartTime,
			"minutes":   block.Duration.Minutes(),
		},
	})

	return block, nil
}

func quotaKey(contractorID string) string {
	return "schedule-quota:" + contractorID
}
