package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

var (
	ErrContractorOnly = httperr.Forbidden(
		"contractor_only",
		"Subscriptions only hold benefits for contractor accounts. If you'd like to support us, please reach out to us about donations.",
	)
	ErrAlreadyActive = httperr.Forbidden(
		"subscription_exists",
		"This account is already associated with an active subscription. Please retrieve information for this subscription, or cancel subscription to create a new one.",
	)
	ErrNoSubscription = httperr.NotFoundErr("subscription_not_found", "No active subscription listed for this account.")
	ErrPayerEmail     = httperr.Invalid("invalid_payer_email", "Request must include a payerEmail.")
	ErrDisabled       = httperr.ErrBusiness(httperr.KindUnclassified, "billing_disabled", "Subscriptions are not configured.")
)

type Store interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.SubscriptionLink, error)
	Save(ctx context.Context, link *models.SubscriptionLink) error
	ListWithProviderReference(ctx context.Context) ([]models.SubscriptionLink, error)
}

type Service struct {
	store    Store
	provider Provider
	audit    *audit.Dispatcher
}

// NewService accepts a nil provider; every call then fails with
// ErrDisabled after the contractor check.
func NewService(store Store, provider Provider, audit *audit.Dispatcher) *Service {
	return &Service{store: store, provider: provider, audit: audit}
}

type View struct {
	Link      *models.SubscriptionLink `json:"subscription"`
	InitPoint string                   `json:"initPoint,omitempty"`
}

func (s *Service) guard(p access.Principal) error {
	if !p.IsContractor() {
		return ErrContractorOnly
	}
	if s.provider == nil {
		return ErrDisabled
	}
	return nil
}

func (s *Service) link(ctx context.Context, userID uuid.UUID) (*models.SubscriptionLink, error) {
	link, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	return link, nil
}

// Status refreshes the link from the provider before returning it.
func (s *Service) Status(ctx context.Context, p access.Principal) (*View, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	link, err := s.link(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.ProviderReference == "" {
		return nil, ErrNoSubscription
	}

	sub, err := s.provider.Get(ctx, link.ProviderReference)
	if err != nil {
		return nil, err
	}
	if apply(link, sub) {
		if err := s.store.Save(ctx, link); err != nil {
			return nil, fmt.Errorf("save subscription: %w", err)
		}
	}
	return &View{Link: link}, nil
}

func (s *Service) Subscribe(ctx context.Context, p access.Principal, payerEmail string) (*View, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	payerEmail = strings.TrimSpace(payerEmail)
	if payerEmail == "" {
		return nil, ErrPayerEmail
	}

	link, err := s.link(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if link.Active() {
		return nil, ErrAlreadyActive
	}
	if link == nil {
		link = &models.SubscriptionLink{UserID: p.UserID}
	}

	sub, err := s.provider.Create(ctx, CreateRequest{
		PayerEmail:        payerEmail,
		ExternalReference: p.UserID.String(),
	})
	if err != nil {
		return nil, err
	}

	link.CustomerID = payerEmail
	link.ProviderReference = sub.ID
	apply(link, sub)

	if err := s.store.Save(ctx, link); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.audit.Dispatch(audit.Event{
		ContractorID: p.ContractorID,
		UserID:       &p.UserID,
		Action:       "subscription_created",
		Entity:       "subscription",
		EntityID:     &link.ID,
		Metadata:     map[string]any{"status": link.Status},
	})

	return &View{Link: link, InitPoint: sub.InitPoint}, nil
}

func (s *Service) Cancel(ctx context.Context, p access.Principal) (*View, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}

	link, err := s.link(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if !link.Active() {
		return nil, ErrNoSubscription
	}

	sub, err := s.provider.Cancel(ctx, link.ProviderReference)
	if err != nil {
		return nil, err
	}
	apply(link, sub)
	link.SubscriptionID = nil

	if err := s.store.Save(ctx, link); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.audit.Dispatch(audit.Event{
		ContractorID: p.ContractorID,
		UserID:       &p.UserID,
		Action:       "subscription_cancelled",
		Entity:       "subscription",
		EntityID:     &link.ID,
	})

	return &View{Link: link}, nil
}

// apply copies the provider state onto the link and reports whether
// anything changed. SubscriptionID is set only while authorized.
func apply(link *models.SubscriptionLink, sub *Subscription) bool {
	wasActive := link.Active()
	prevStatus := link.Status

	link.Status = sub.Status
	if sub.Active() {
		id := sub.ID
		link.SubscriptionID = &id
	} else {
		link.SubscriptionID = nil
	}

	return prevStatus != link.Status || wasActive != link.Active()
}
