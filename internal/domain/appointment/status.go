package appointment

import (
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

func StatusOf(ap *models.Appointment) Status {
	if ap.Confirmed {
		return StatusConfirmed
	}
	return StatusPending
}

// ===============================
// Failures
// ===============================

var (
	ErrMissingFields      = httperr.Invalid("missing_fields", "userId, serviceId, scheduleId, startTime and duration are required")
	ErrInvalidStartTime   = httperr.Invalid("invalid_date", "Invalid startTime")
	ErrInvalidDuration    = httperr.Invalid("invalid_duration", "Duration must be positive and at most one week")
	ErrNotContractor      = httperr.Forbidden("not_contractor", "Only contractors can book on behalf of a client")
	ErrSelfBooking        = httperr.Forbidden("self_booking", "Contractors cannot book appointments with themselves")
	ErrForbidden          = httperr.Forbidden("forbidden", "You do not have access to this appointment")
	ErrAppointmentMissing = httperr.NotFoundErr("appointment_not_found", "Appointment not found")
	ErrContractorMissing  = httperr.NotFoundErr("contractor_not_found", "Contractor not found")
	ErrUserMissing        = httperr.NotFoundErr("user_not_found", "User not found")
	ErrServiceMissing     = httperr.NotFoundErr("service_not_found", "Service not found")
	ErrScheduleMissing    = httperr.NotFoundErr("schedule_not_found", "Schedule not found")
)
