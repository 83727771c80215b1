package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
)

// ScheduleBlock is a window of availability published by a contractor.
// A contractor can have at most one block starting at a given instant.
type ScheduleBlock struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContractorID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_contractor_start,priority:1" json:"contractorId"`
	Contractor   Contractor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime time.Time         `gorm:"not null;index;uniqueIndex:idx_schedule_contractor_start,priority:2" json:"startTime"`
	Duration  duration.Duration `gorm:"column:duration_minutes;not null" json:"duration"`
	Open      bool              `gorm:"not null" json:"open"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *ScheduleBlock) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (ScheduleBlock) TableName() string { return "schedules" }
