package audit

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/testutil"
)

func TestDispatcherWritesEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zap.NewNop())

	cid := uuid.New()
	eid := uuid.New()
	d.Dispatch(Event{
		ContractorID: &cid,
		Action:       "schedule_created",
		Entity:       "schedule",
		EntityID:     &eid,
		Metadata:     map[string]any{"minutes": 60},
	})
	d.Close()

	var logs []models.AuditLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit log, got %d", len(logs))
	}
	if logs[0].Action != "schedule_created" || logs[0].UserID != nil {
		t.Fatalf("unexpected log %+v", logs[0])
	}
	if string(logs[0].Metadata) != `{"minutes":60}` {
		t.Fatalf("unexpected metadata %s", logs[0].Metadata)
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}
