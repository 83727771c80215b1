package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	scheddomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ListSchedules struct {
	repo scheddomain.Repository
}

func NewListSchedules(repo scheddomain.Repository) *ListSchedules {
	return &ListSchedules{repo: repo}
}

func (uc *ListSchedules) ByContractor(ctx context.Context, contractorID uuid.UUID) ([]models.ScheduleBlock, error) {
	if _, err := uc.repo.GetContractor(ctx, contractorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrContractorMissing
		}
		return nil, fmt.Errorf("load contractor: %w", err)
	}

	blocks, err := uc.repo.ListBlocksByContractor(ctx, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return blocks, nil
}

func (uc *ListSchedules) Get(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error) {
	block, err := uc.repo.GetBlock(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrScheduleMissing
		}
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return block, nil
}
