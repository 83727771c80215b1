package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/testutil"
)

type fakeProvider struct {
	subs    map[string]*Subscription
	failGet map[string]bool
	next    int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subs: map[string]*Subscription{}, failGet: map[string]bool{}}
}

func (f *fakeProvider) Create(_ context.Context, req CreateRequest) (*Subscription, error) {
	f.next++
	s := &Subscription{ID: fmt.Sprintf("pre_%d", f.next), Status: StatusPending, InitPoint: "https://pay.example/" + req.ExternalReference}
	f.subs[s.ID] = s
	return s, nil
}

func (f *fakeProvider) Get(_ context.Context, id string) (*Subscription, error) {
	if f.failGet[id] {
		return nil, errors.New("provider unavailable")
	}
	s, ok := f.subs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeProvider) Cancel(_ context.Context, id string) (*Subscription, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	s.Status = StatusCancelled
	cp := *s
	return &cp, nil
}

func setup(t *testing.T) (*Service, *fakeProvider, *repository.SubscriptionGormRepository, access.Principal) {
	t.Helper()
	db := testutil.NewDB(t)
	c := testutil.SeedContractor(t, db, "Ann")
	u := testutil.SeedUser(t, db, "ann", &c.ID)

	store := repository.NewSubscriptionGormRepository(db)
	provider := newFakeProvider()
	return NewService(store, provider, nil), provider, store, access.Principal{UserID: u.ID, ContractorID: &c.ID}
}

func TestService_ContractorOnly(t *testing.T) {
	svc, _, _, _ := setup(t)
	client := access.Principal{UserID: uuid.New()}

	if _, err := svc.Status(context.Background(), client); err != ErrContractorOnly {
		t.Fatalf("expected contractor-only error, got %v", err)
	}
	if _, err := svc.Subscribe(context.Background(), client, "a@example.com"); err != ErrContractorOnly {
		t.Fatalf("expected contractor-only error, got %v", err)
	}
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, provider, store, p := setup(t)

	if _, err := svc.Status(ctx, p); err != ErrNoSubscription {
		t.Fatalf("expected no subscription, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, p, " "); httperr.KindOf(err) != httperr.KindInvalidInput {
		t.Fatalf("blank payer email should be invalid, got %v", err)
	}

	view, err := svc.Subscribe(ctx, p, "ann@example.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if view.InitPoint == "" || view.Link.ProviderReference == "" {
		t.Fatalf("expected init point and reference, got %+v", view)
	}
	if view.Link.Active() {
		t.Fatalf("pending preapproval must not unlock the quota")
	}

	// the payer authorizes at the provider
	provider.subs[view.Link.ProviderReference].Status = StatusAuthorized

	status, err := svc.Status(ctx, p)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Link.Active() {
		t.Fatalf("authorized preapproval should activate the link")
	}

	if _, err := svc.Subscribe(ctx, p, "ann@example.com"); err != ErrAlreadyActive {
		t.Fatalf("expected already active, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, p)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Link.Active() || cancelled.Link.Status != StatusCancelled {
		t.Fatalf("expected cancelled link, got %+v", cancelled.Link)
	}

	stored, err := store.GetByUser(ctx, p.UserID)
	if err != nil || stored.SubscriptionID != nil {
		t.Fatalf("cancel not persisted: %v %+v", err, stored)
	}

	if _, err := svc.Cancel(ctx, p); err != ErrNoSubscription {
		t.Fatalf("second cancel should be not found, got %v", err)
	}
}

func TestService_DisabledWithoutProvider(t *testing.T) {
	db := testutil.NewDB(t)
	c := testutil.SeedContractor(t, db, "Ann")
	p := access.Principal{UserID: uuid.New(), ContractorID: &c.ID}

	svc := NewService(repository.NewSubscriptionGormRepository(db), nil, nil)
	if _, err := svc.Status(context.Background(), p); err != ErrDisabled {
		t.Fatalf("expected billing disabled, got %v", err)
	}
}

func TestReconciler_Run(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := repository.NewSubscriptionGormRepository(db)
	provider := newFakeProvider()

	users := []*models.User{
		testutil.SeedUser(t, db, "activating", nil),
		testutil.SeedUser(t, db, "lapsing", nil),
		testutil.SeedUser(t, db, "broken", nil),
	}

	provider.subs["pre_a"] = &Subscription{ID: "pre_a", Status: StatusAuthorized}
	provider.subs["pre_b"] = &Subscription{ID: "pre_b", Status: StatusPaused}
	provider.failGet["pre_c"] = true

	active := "pre_b"
	links := []*models.SubscriptionLink{
		{UserID: users[0].ID, ProviderReference: "pre_a", Status: StatusPending},
		{UserID: users[1].ID, ProviderReference: "pre_b", Status: StatusAuthorized, SubscriptionID: &active},
		{UserID: users[2].ID, ProviderReference: "pre_c", Status: StatusPending},
	}
	for _, l := range links {
		if err := store.Save(ctx, l); err != nil {
			t.Fatalf("seed link: %v", err)
		}
	}

	dry := NewReconciler(store, provider, zap.NewNop(), metrics.New(), true)
	rep, err := dry.Run(ctx)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if rep.Activated != 1 || rep.Deactivated != 1 || rep.Failed != 1 {
		t.Fatalf("unexpected dry run report %+v", rep)
	}
	if got, _ := store.GetByUser(ctx, users[0].ID); got.Active() {
		t.Fatalf("dry run must not persist changes")
	}

	rep, err = NewReconciler(store, provider, zap.NewNop(), nil, false).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Checked != 3 {
		t.Fatalf("expected 3 links checked, got %d", rep.Checked)
	}

	if got, _ := store.GetByUser(ctx, users[0].ID); !got.Active() {
		t.Fatalf("authorized link should be active")
	}
	if got, _ := store.GetByUser(ctx, users[1].ID); got.Active() || got.Status != StatusPaused {
		t.Fatalf("paused link should be inactive, got %+v", got)
	}
	if got, _ := store.GetByUser(ctx, users[2].ID); got.Status != StatusPending {
		t.Fatalf("failed lookup should leave link untouched, got %+v", got)
	}
}
