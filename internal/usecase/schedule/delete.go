package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	scheddomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type DeleteSchedule struct {
	repo  scheddomain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSchedule(repo scheddomain.Repository, audit *audit.Dispatcher) *DeleteSchedule {
	return &DeleteSchedule{repo: repo, audit: audit}
}

// Execute removes the block and returns it as it was before deletion.
func (uc *DeleteSchedule) Execute(ctx context.Context, p access.Principal, id uuid.UUID) (*models.ScheduleBlock, error) {
	block, err := uc.repo.GetBlock(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrScheduleMissing
		}
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	if access.CanMutateSchedule(p, block) == access.Deny {
		return nil, ErrForbidden
	}

	if err := uc.repo.DeleteBlock(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrScheduleMissing
		}
		return nil, fmt.Errorf("delete schedule: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ContractorID: &block.ContractorID,
		UserID:       &p.UserID,
		Action:       "schedule_deleted",
		Entity:       "schedule",
		EntityID:     &block.ID,
	})

	return block, nil
}
