// Package billing manages contractor subscriptions with an external
// recurring-payment provider. An active subscription lifts the free weekly
// availability limit.
package billing

import "context"

const (
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusPaused     = "paused"
	StatusCancelled  = "cancelled"
)

// Subscription is the provider's view of a recurring charge.
type Subscription struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	InitPoint string `json:"initPoint,omitempty"`
}

func (s *Subscription) Active() bool {
	return s != nil && s.Status == StatusAuthorized
}

type CreateRequest struct {
	PayerEmail        string
	ExternalReference string
}

type Provider interface {
	Create(ctx context.Context, req CreateRequest) (*Subscription, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	Cancel(ctx context.Context, id string) (*Subscription, error)
}
