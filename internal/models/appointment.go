package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ContractorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"contractorId"`
	Contractor   Contractor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID *uuid.UUID `gorm:"type:uuid;index" json:"serviceId"`
	Service   *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ScheduleID *uuid.UUID     `gorm:"type:uuid;index" json:"scheduleId"`
	Schedule   *ScheduleBlock `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StartTime time.Time         `gorm:"not null;index" json:"startTime"`
	Duration  duration.Duration `gorm:"column:duration_minutes;not null" json:"duration"`
	Confirmed bool              `gorm:"default:false" json:"confirmed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
