package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/timezone"
)

type UpdateAppointmentInput struct {
	Principal     access.Principal
	AppointmentID uuid.UUID
	StartTime     *string
	Duration      *duration.Duration
	Confirmed     *bool
}

type UpdateAppointment struct {
	repo  apdomain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(repo apdomain.Repository, audit *audit.Dispatcher) *UpdateAppointment {
	return &UpdateAppointment{repo: repo, audit: audit}
}

func (uc *UpdateAppointment) Execute(ctx context.Context, in UpdateAppointmentInput) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrAppointmentMissing)
	}
	if access.CanMutateAppointment(in.Principal, ap) == access.Deny {
		return nil, apdomain.ErrForbidden
	}

	changes := apdomain.Changes{Duration: in.Duration, Confirmed: in.Confirmed}
	if in.StartTime != nil {
		contractor, err := uc.repo.GetContractor(ctx, ap.ContractorID)
		if err != nil {
			return nil, lookupError(err, apdomain.ErrContractorMissing)
		}
		start, err := parseStart(*in.StartTime, timezone.Location(contractor.Timezone))
		if err != nil {
			return nil, err
		}
		changes.StartTime = &start
	}

	if changes.Empty() {
		return ap, nil
	}
	if err := apdomain.Apply(ap, changes); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ContractorID: &ap.ContractorID,
		UserID:       &in.Principal.UserID,
		Action:       "appointment_updated",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"confirmed": ap.Confirmed},
	})

	return ap, nil
}
