package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/dto"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// Repository returns domain.ErrNotFound for missing rows.
type Repository interface {
	// -------- Lookups --------
	GetContractor(ctx context.Context, id uuid.UUID) (*models.Contractor, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	GetScheduleBlock(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// ListForParticipant returns appointments where the user is the client
	// or, when contractorID is set, where that contractor is booked.
	ListForParticipant(ctx context.Context, userID uuid.UUID, contractorID *uuid.UUID) ([]dto.AppointmentListDTO, error)
}
