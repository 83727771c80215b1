package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// Repository returns domain.ErrNotFound for missing rows and
// domain.ErrDuplicate when a contractor already has a block at that start.
type Repository interface {
	GetContractor(ctx context.Context, id uuid.UUID) (*models.Contractor, error)

	CreateBlock(ctx context.Context, b *models.ScheduleBlock) error
	GetBlock(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error)
	UpdateBlock(ctx context.Context, b *models.ScheduleBlock) error
	// DeleteBlock detaches appointments that referenced the block.
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ListBlocksByContractor(ctx context.Context, contractorID uuid.UUID) ([]models.ScheduleBlock, error)

	SumBlockMinutes(ctx context.Context, contractorID uuid.UUID, from, to time.Time, exclude *uuid.UUID) (int, error)
}
