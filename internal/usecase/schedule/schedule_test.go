package schedule

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/testutil"
)

type fixture struct {
	db     *gorm.DB
	create *CreateSchedule
	update *UpdateSchedule
	delete *DeleteSchedule
	list   *ListSchedules

	contractor *models.Contractor
	owner      access.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := repository.NewScheduleGormRepository(db)
	engine := availability.NewEngine(repo, availability.DefaultFreeWeeklyMinutes)
	locker := lock.NewLocalLocker()
	m := metrics.New()

	c := testutil.SeedContractor(t, db, "Ann")
	u := testutil.SeedUser(t, db, "ann", &c.ID)

	return &fixture{
		db:         db,
		create:     NewCreateSchedule(repo, engine, locker, nil, m),
		update:     NewUpdateSchedule(repo, engine, locker, nil, m),
		delete:     NewDeleteSchedule(repo, nil),
		list:       NewListSchedules(repo),
		contractor: c,
		owner:      access.Principal{UserID: u.ID, ContractorID: &c.ID},
	}
}

func (f *fixture) otherContractor(t *testing.T) access.Principal {
	t.Helper()
	c := testutil.SeedContractor(t, f.db, "Bob")
	u := testutil.SeedUser(t, f.db, "bob", &c.ID)
	return access.Principal{UserID: u.ID, ContractorID: &c.ID}
}

func TestCreateSchedule_QuotaAcrossRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, minutes := range []int{120, 120, 60} {
		_, err := f.create.Execute(ctx, CreateScheduleInput{
			Principal: f.owner,
			StartTime: fmt.Sprintf("2024-01-%02dT09:00:00Z", 8+i),
			Duration:  duration.FromMinutes(minutes),
		})
		if err != nil {
			t.Fatalf("block %d should fit: %v", i, err)
		}
	}

	_, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: f.owner,
		StartTime: "2024-01-12T09:00:00Z",
		Duration:  duration.FromMinutes(1),
	})
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("expected quota_exceeded at 301 minutes, got %v", err)
	}

	var n int64
	f.db.Model(&models.ScheduleBlock{}).Count(&n)
	if n != 3 {
		t.Fatalf("rejected block must not be stored, found %d blocks", n)
	}
}

func TestCreateSchedule_SubscriberUnlimited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub := "sub_1"
	p := f.owner
	p.SubscriptionID = &sub

	for i := 0; i < 3; i++ {
		if _, err := f.create.Execute(ctx, CreateScheduleInput{
			Principal: p,
			StartTime: fmt.Sprintf("2024-01-%02dT09:00:00Z", 8+i),
			Duration:  duration.FromMinutes(240),
		}); err != nil {
			t.Fatalf("subscriber block %d rejected: %v", i, err)
		}
	}
}

func TestCreateSchedule_ConcurrentRequestsNeverExceedQuota(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.create.Execute(ctx, CreateScheduleInput{
				Principal: f.owner,
				StartTime: fmt.Sprintf("2024-01-09T%02d:00:00Z", 8+i),
				Duration:  duration.FromMinutes(60),
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else if !httperr.IsBusiness(err, "quota_exceeded") {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 5 {
		t.Fatalf("expected exactly 5 one-hour blocks, got %d", created)
	}

	var total int64
	f.db.Model(&models.ScheduleBlock{}).Select("COALESCE(SUM(duration_minutes), 0)").Scan(&total)
	if total > 300 {
		t.Fatalf("stored %d minutes, over the free quota", total)
	}
}

func TestCreateSchedule_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: access.Principal{UserID: uuid.New()},
		StartTime: "2024-01-09T09:00:00Z",
		Duration:  duration.FromMinutes(60),
	})
	if httperr.KindOf(err) != httperr.KindForbidden {
		t.Fatalf("non contractor should be forbidden, got %v", err)
	}

	_, err = f.create.Execute(ctx, CreateScheduleInput{
		Principal: f.owner,
		StartTime: "next tuesday",
		Duration:  duration.FromMinutes(60),
	})
	if httperr.KindOf(err) != httperr.KindInvalidInput {
		t.Fatalf("bad date should be invalid input, got %v", err)
	}

	in := CreateScheduleInput{Principal: f.owner, StartTime: "2024-01-09T09:00:00Z", Duration: duration.FromMinutes(30)}
	if _, err := f.create.Execute(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err = f.create.Execute(ctx, in)
	if !httperr.IsBusiness(err, "duplicate_schedule") || httperr.KindOf(err) != httperr.KindUnclassified {
		t.Fatalf("duplicate start should be an unclassified failure, got %v", err)
	}
}

func TestUpdateSchedule_RevalidatesQuota(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.create.Execute(ctx, CreateScheduleInput{Principal: f.owner, StartTime: "2024-01-08T09:00:00Z", Duration: duration.FromMinutes(200)})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := f.create.Execute(ctx, CreateScheduleInput{Principal: f.owner, StartTime: "2024-01-09T09:00:00Z", Duration: duration.FromMinutes(60)}); err != nil {
		t.Fatalf("create b: %v", err)
	}

	grow := duration.FromMinutes(240)
	updated, err := f.update.Execute(ctx, UpdateScheduleInput{Principal: f.owner, ScheduleID: a.ID, Duration: &grow})
	if err != nil {
		t.Fatalf("growing to exactly 300 total should pass: %v", err)
	}
	if updated.Duration.Minutes() != 240 {
		t.Fatalf("duration not applied: %v", updated.Duration)
	}

	tooMuch := duration.FromMinutes(241)
	_, err = f.update.Execute(ctx, UpdateScheduleInput{Principal: f.owner, ScheduleID: a.ID, Duration: &tooMuch})
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("expected quota_exceeded, got %v", err)
	}

	// moving the block to an empty week frees the room
	nextWeek := "2024-01-15T09:00:00Z"
	moved, err := f.update.Execute(ctx, UpdateScheduleInput{Principal: f.owner, ScheduleID: a.ID, StartTime: &nextWeek, Duration: &grow})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !moved.StartTime.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("start not moved: %v", moved.StartTime)
	}

	closed := false
	got, err := f.update.Execute(ctx, UpdateScheduleInput{Principal: f.owner, ScheduleID: a.ID, Open: &closed})
	if err != nil || got.Open {
		t.Fatalf("open flag not updated: %v %v", got, err)
	}
}

func TestUpdateAndDeleteSchedule_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := f.otherContractor(t)

	block, err := f.create.Execute(ctx, CreateScheduleInput{Principal: f.owner, StartTime: "2024-01-08T09:00:00Z", Duration: duration.FromMinutes(60)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	closed := false
	if _, err := f.update.Execute(ctx, UpdateScheduleInput{Principal: other, ScheduleID: block.ID, Open: &closed}); httperr.KindOf(err) != httperr.KindForbidden {
		t.Fatalf("other contractor update should be forbidden, got %v", err)
	}
	if _, err := f.delete.Execute(ctx, other, block.ID); httperr.KindOf(err) != httperr.KindForbidden {
		t.Fatalf("other contractor delete should be forbidden, got %v", err)
	}

	stored, err := f.list.Get(ctx, block.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Open {
		t.Fatalf("forbidden update must not change the block")
	}

	deleted, err := f.delete.Execute(ctx, f.owner, block.ID)
	if err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if deleted.ID != block.ID {
		t.Fatalf("expected snapshot of deleted block")
	}
	if _, err := f.list.Get(ctx, block.ID); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("deleted block should be not found, got %v", err)
	}
}

func TestListSchedules_ByContractor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.list.ByContractor(ctx, uuid.New()); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("unknown contractor should be not found, got %v", err)
	}

	blocks, err := f.list.ByContractor(ctx, f.contractor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected empty list, got %d", len(blocks))
	}
}

func TestCreateSchedule_StoresClosedBlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	closed := false
	created, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: f.owner,
		StartTime: "2024-01-09T09:00:00Z",
		Duration:  duration.FromMinutes(60),
		Open:      &closed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Open {
		t.Fatalf("returned block should be closed")
	}

	stored, err := f.list.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Open {
		t.Fatalf("stored block should be closed")
	}

	open, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: f.owner,
		StartTime: "2024-01-10T09:00:00Z",
		Duration:  duration.FromMinutes(60),
	})
	if err != nil {
		t.Fatalf("create default: %v", err)
	}
	if !open.Open {
		t.Fatalf("blocks are open unless asked otherwise")
	}
}

func TestCreateSchedule_OversizedDurationRejectedForSubscribers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sub := "sub_1"
	p := f.owner
	p.SubscriptionID = &sub

	_, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: p,
		StartTime: "2024-01-09T09:00:00Z",
		Duration:  duration.FromMinutes(1 << 62),
	})
	if !httperr.IsBusiness(err, "invalid_duration") {
		t.Fatalf("expected invalid_duration, got %v", err)
	}

	if _, err := f.create.Execute(ctx, CreateScheduleInput{
		Principal: p,
		StartTime: "2024-01-09T09:00:00Z",
		Duration:  duration.FromMinutes(duration.MaxMinutes),
	}); err != nil {
		t.Fatalf("a full week block is allowed for subscribers: %v", err)
	}

	_, err = f.create.Execute(ctx, CreateScheduleInput{
		Principal: f.owner,
		StartTime: "2024-01-10T09:00:00Z",
		Duration:  duration.FromMinutes(60),
	})
	if !httperr.IsBusiness(err, "quota_exceeded") {
		t.Fatalf("week already holds a full week of minutes, got %v", err)
	}
}
