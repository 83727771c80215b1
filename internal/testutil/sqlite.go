// Package testutil builds throwaway stores and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/contractor-scheduler/internal/db"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// NewDB opens a migrated in-memory sqlite database. A single connection
// keeps every query on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := db.GormConfig()
	cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func mustCreate(t *testing.T, gdb *gorm.DB, v any) {
	t.Helper()
	if err := gdb.Omit(clause.Associations).Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func SeedContractor(t *testing.T, gdb *gorm.DB, name string) *models.Contractor {
	t.Helper()
	c := &models.Contractor{
		Name:        name,
		PhoneNumber: "+1" + uuid.NewString()[:10],
		City:        "Springfield",
		StateAbbr:   "IL",
		Timezone:    "UTC",
	}
	mustCreate(t, gdb, c)
	return c
}

func SeedUser(t *testing.T, gdb *gorm.DB, username string, contractorID *uuid.UUID) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		PhoneNumber:  "+15550000000",
		ContractorID: contractorID,
	}
	mustCreate(t, gdb, u)
	return u
}

func SeedService(t *testing.T, gdb *gorm.DB, contractorID uuid.UUID, name string) *models.Service {
	t.Helper()
	price := 50.0
	s := &models.Service{ContractorID: contractorID, Name: name, Price: &price}
	mustCreate(t, gdb, s)
	return s
}

func SeedBlock(t *testing.T, gdb *gorm.DB, contractorID uuid.UUID, start time.Time, minutes int) *models.ScheduleBlock {
	t.Helper()
	b := &models.ScheduleBlock{
		ContractorID: contractorID,
		StartTime:    start.UTC(),
		Duration:     duration.FromMinutes(minutes),
		Open:         true,
	}
	mustCreate(t, gdb, b)
	return b
}

func SeedAppointment(t *testing.T, gdb *gorm.DB, contractorID, userID uuid.UUID, serviceID, scheduleID *uuid.UUID, start time.Time) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		ContractorID: contractorID,
		UserID:       userID,
		ServiceID:    serviceID,
		ScheduleID:   scheduleID,
		StartTime:    start.UTC(),
		Duration:     duration.FromMinutes(60),
	}
	mustCreate(t, gdb, ap)
	return ap
}

// Subscribe marks the user as holding an active subscription.
func Subscribe(t *testing.T, gdb *gorm.DB, userID uuid.UUID) *models.SubscriptionLink {
	t.Helper()
	sub := "preapproval-" + userID.String()[:8]
	link := &models.SubscriptionLink{
		UserID:            userID,
		CustomerID:        "payer@example.com",
		ProviderReference: sub,
		Status:            "authorized",
		SubscriptionID:    &sub,
	}
	mustCreate(t, gdb, link)
	return link
}
