package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractorID uuid.UUID `gorm:"type:uuid;not null;index" json:"contractorId"`

	Name  string   `gorm:"size:100;not null;index" json:"name"`
	Price *float64 `gorm:"index" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
