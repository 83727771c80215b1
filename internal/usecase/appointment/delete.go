package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type DeleteAppointment struct {
	repo  apdomain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(repo apdomain.Repository, audit *audit.Dispatcher) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

// Execute removes the appointment and returns it as it was.
func (uc *DeleteAppointment) Execute(ctx context.Context, p access.Principal, id uuid.UUID) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrAppointmentMissing)
	}
	if access.CanMutateAppointment(p, ap) == access.Deny {
		return nil, apdomain.ErrForbidden
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return nil, lookupError(err, apdomain.ErrAppointmentMissing)
	}

	uc.audit.Dispatch(audit.Event{
		ContractorID: &ap.ContractorID,
		UserID:       &p.UserID,
		Action:       "appointment_deleted",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
