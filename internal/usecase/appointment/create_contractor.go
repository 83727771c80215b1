package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// CreateAsContractorInput leaves every field optional so a missing one can
// be reported as invalid input rather than a decode failure.
type CreateAsContractorInput struct {
	Principal  access.Principal
	UserID     *uuid.UUID
	ServiceID  *uuid.UUID
	ScheduleID *uuid.UUID
	StartTime  string
	Duration   *duration.Duration
}

func (in CreateAsContractorInput) complete() bool {
	return in.UserID != nil &&
		in.ServiceID != nil &&
		in.ScheduleID != nil &&
		in.StartTime != "" &&
		in.Duration != nil
}

// ======================================================
// USE CASE
// ======================================================

type CreateAsContractor struct {
	repo    apdomain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewCreateAsContractor(
	repo apdomain.Repository,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateAsContractor {
	return &CreateAsContractor{
		repo:    repo,
		audit:   audit,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAsContractor) Execute(ctx context.Context, in CreateAsContractorInput) (*models.Appointment, error) {

	// 1) shape
	if !in.complete() {
		return nil, apdomain.ErrMissingFields
	}

	// 2) role
	p := in.Principal
	if !p.IsContractor() {
		return nil, apdomain.ErrNotContractor
	}
	if access.CanBookAsContractor(p, *in.UserID) == access.Deny {
		return nil, apdomain.ErrSelfBooking
	}
	contractorID := *p.ContractorID

	// 3) references, reported in order
	if _, err := uc.repo.GetUser(ctx, *in.UserID); err != nil {
		return nil, lookupError(err, apdomain.ErrUserMissing)
	}

	svc, err := uc.repo.GetService(ctx, *in.ServiceID)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrServiceMissing)
	}
	if svc.ContractorID != contractorID {
		return nil, apdomain.ErrServiceMissing
	}

	block, err := uc.repo.GetScheduleBlock(ctx, *in.ScheduleID)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrScheduleMissing)
	}
	if access.OwnsBookingTargets(p, svc, block) == access.Deny {
		return nil, apdomain.ErrScheduleMissing
	}

	// 4) start and duration in the contractor's zone
	contractor, err := uc.repo.GetContractor(ctx, contractorID)
	if err != nil {
		return nil, lookupError(err, apdomain.ErrContractorMissing)
	}
	start, err := parseStart(in.StartTime, timezone.Location(contractor.Timezone))
	if err != nil {
		return nil, err
	}
	if !in.Duration.Valid() {
		return nil, apdomain.ErrInvalidDuration
	}

	// 5) insert
	ap := &models.Appointment{
		ContractorID: contractorID,
		UserID:       *in.UserID,
		ServiceID:    in.ServiceID,
		ScheduleID:   in.ScheduleID,
		StartTime:    start,
		Duration:     *in.Duration,
	}
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	uc.metrics.AppointmentCreated("contractor")

	uc.audit.Dispatch(audit.Event{
		ContractorID: &contractorID,
		UserID:       &p.UserID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"path": "contractor", "client": ap.UserID},
	})

	return ap, nil
}
