// Package access decides whether a principal may read or change a
// contractor- or user-owned record. Every function here is pure.
package access

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

var ErrForbidden = httperr.Forbidden("forbidden", "Forbidden")

// CanAccess allows the principal when it is the owning user or acts as the
// owning contractor. A nil owner never matches.
func CanAccess(p Principal, ownerContractorID, ownerUserID *uuid.UUID) Decision {
	if ownerUserID != nil && *ownerUserID != uuid.Nil && *ownerUserID == p.UserID {
		return Allow
	}
	if ownerContractorID != nil && p.IsContractorFor(*ownerContractorID) {
		return Allow
	}
	return Deny
}

func CanMutateSchedule(p Principal, block *models.ScheduleBlock) Decision {
	return CanAccess(p, &block.ContractorID, nil)
}

func CanMutateService(p Principal, svc *models.Service) Decision {
	return CanAccess(p, &svc.ContractorID, nil)
}

func CanMutateContractor(p Principal, contractorID uuid.UUID) Decision {
	return CanAccess(p, &contractorID, nil)
}

// CanMutateAppointment implements joint ownership: the client or the
// contractor of the appointment may change or cancel it.
func CanMutateAppointment(p Principal, ap *models.Appointment) Decision {
	return CanAccess(p, &ap.ContractorID, &ap.UserID)
}

// CanBookAsContractor gates the contractor-initiated booking path before
// any referenced record is looked up.
func CanBookAsContractor(p Principal, clientUserID uuid.UUID) Decision {
	if !p.IsContractor() {
		return Deny
	}
	if p.UserID == clientUserID {
		return Deny
	}
	return Allow
}

// OwnsBookingTargets checks that the service and schedule block of a
// contractor-initiated booking both belong to the booking contractor.
func OwnsBookingTargets(p Principal, svc *models.Service, block *models.ScheduleBlock) Decision {
	if !p.IsContractor() {
		return Deny
	}
	return CanMutateService(p, svc) && CanMutateSchedule(p, block)
}

func Require(d Decision) error {
	if d == Deny {
		return ErrForbidden
	}
	return nil
}
