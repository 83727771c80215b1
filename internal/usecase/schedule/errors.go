package schedule

import "github.com/BruksfildServices01/contractor-scheduler/internal/httperr"

var (
	ErrNotContractor     = httperr.Forbidden("not_contractor", "Only contractors can manage schedules")
	ErrForbidden         = httperr.Forbidden("forbidden", "You do not own this schedule")
	ErrScheduleMissing   = httperr.NotFoundErr("schedule_not_found", "Schedule not found")
	ErrContractorMissing = httperr.NotFoundErr("contractor_not_found", "Contractor not found")
	ErrDuplicateStart    = httperr.ErrBusiness(httperr.KindUnclassified, "duplicate_schedule", "A schedule already starts at this time")
)
