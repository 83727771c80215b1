package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	ContractorID *uuid.UUID `gorm:"type:uuid;index" json:"contractorId"`

	Stars   int    `gorm:"not null" json:"stars"`
	Message string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"createdAt"`
}

func (f *Feedback) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}

func (Feedback) TableName() string { return "feedback" }
