package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/notify"
	"github.com/BruksfildServices01/contractor-scheduler/internal/timezone"
)

const bookedMessage = "A client has booked an appointment! Please log in to confirm."

// ======================================================
// INPUT
// ======================================================

type CreateAsClientInput struct {
	Principal    access.Principal
	ContractorID uuid.UUID
	ServiceID    *uuid.UUID
	ScheduleID   *uuid.UUID
	StartTime    string
	Duration     *duration.Duration
}

// ======================================================
// USE CASE
// ======================================================

type CreateAsClient struct {
	repo     apdomain.Repository
	notifier notify.Dispatcher
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCreateAsClient(
	repo apdomain.Repository,
	notifier notify.Dispatcher,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	log *zap.Logger,
) *CreateAsClient {
	return &CreateAsClient{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		metrics:  m,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAsClient) Execute(ctx context.Context, in CreateAsClientInput) (*models.Appointment, error) {

	// 1) contractor
	contractor, err := uc.repo.GetContractor(ctx, in.ContractorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apdomain.ErrContractorMissing
		}
		return nil, fmt.Errorf("load contractor: %w", err)
	}

	// 2) start and duration
	start, err := parseStart(in.StartTime, timezone.Location(contractor.Timezone))
	if err != nil {
		return nil, err
	}
	if in.Duration == nil || !in.Duration.Valid() {
		return nil, apdomain.ErrInvalidDuration
	}

	// 3) optional references must belong to the contractor
	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, lookupError(err, apdomain.ErrServiceMissing)
		}
		if svc.ContractorID != contractor.ID {
			return nil, apdomain.ErrServiceMissing
		}
	}
	if in.ScheduleID != nil {
		block, err := uc.repo.GetScheduleBlock(ctx, *in.ScheduleID)
		if err != nil {
			return nil, lookupError(err, apdomain.ErrScheduleMissing)
		}
		if block.ContractorID != contractor.ID {
			return nil, apdomain.ErrScheduleMissing
		}
	}

	// 4) insert
	ap := &models.Appointment{
		ContractorID: contractor.ID,
		UserID:       in.Principal.UserID,
		ServiceID:    in.ServiceID,
		ScheduleID:   in.ScheduleID,
		StartTime:    start,
		Duration:     *in.Duration,
	}
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	uc.metrics.AppointmentCreated("client")

	// 5) notify the contractor; the booking stands regardless
	if err := uc.notifier.Dispatch(ctx, notify.Notification{
		To:   contractor.PhoneNumber,
		Body: bookedMessage,
		Kind: "appointment_booked",
	}); err != nil {
		uc.log.Warn("booking notification not queued",
			zap.String("appointment_id", ap.ID.String()),
			zap.Error(err),
		)
	}

	// 6) audit
	uc.audit.Dispatch(audit.Event{
		ContractorID: &ap.ContractorID,
		UserID:       &ap.UserID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"path": "client"},
	})

	return ap, nil
}
