package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contractor struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`

	PhoneNumber   string `gorm:"size:20;uniqueIndex;not null" json:"phoneNumber"`
	StreetAddress string `gorm:"size:255" json:"streetAddress"`
	City          string `gorm:"size:100;index" json:"city"`
	StateAbbr     string `gorm:"size:2;index" json:"stateAbbr"`
	ZipCode       string `gorm:"size:10;index" json:"zipCode"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Timezone  string `gorm:"size:64" json:"timezone"`
	AvatarURL string `gorm:"size:512" json:"avatarUrl"`

	Services []Service `gorm:"foreignKey:ContractorID;constraint:OnDelete:CASCADE;" json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Contractor) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
