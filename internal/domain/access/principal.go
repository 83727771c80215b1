package access

import "github.com/google/uuid"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID         uuid.UUID
	ContractorID   *uuid.UUID
	SubscriptionID *string
}

func (p Principal) IsContractor() bool {
	return p.ContractorID != nil && *p.ContractorID != uuid.Nil
}

// HasSubscription reports whether the caller holds an active paid
// subscription, which lifts the free-tier availability quota.
func (p Principal) HasSubscription() bool {
	return p.SubscriptionID != nil && *p.SubscriptionID != ""
}

// IsContractorFor reports whether the caller acts as contractor id.
func (p Principal) IsContractorFor(id uuid.UUID) bool {
	return p.IsContractor() && *p.ContractorID == id
}
