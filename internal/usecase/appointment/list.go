package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/dto"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ListAppointments struct {
	repo apdomain.Repository
}

func NewListAppointments(repo apdomain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) ForPrincipal(ctx context.Context, p access.Principal) ([]dto.AppointmentListDTO, error) {
	var contractorID *uuid.UUID
	if p.IsContractor() {
		contractorID = p.ContractorID
	}

	list, err := uc.repo.ListForParticipant(ctx, p.UserID, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// Get is restricted to the client and the contractor of the appointment.
func (uc *ListAppointments) Get(ctx context.Context, p access.Principal, id uuid.UUID) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrAppointmentMissing)
	}
	if access.CanMutateAppointment(p, ap) == access.Deny {
		return nil, apdomain.ErrForbidden
	}
	return ap, nil
}
