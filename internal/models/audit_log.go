package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ContractorID *uuid.UUID `gorm:"type:uuid;index" json:"contractorId"`
	UserID       *uuid.UUID `gorm:"type:uuid" json:"userId"`
	Action       string     `gorm:"size:50;not null" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID     `gorm:"type:uuid" json:"entityId"`
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
}
