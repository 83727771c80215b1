package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionLink ties a user to the billing provider. SubscriptionID is
// non-nil only while the provider reports the subscription as active.
type SubscriptionLink struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CustomerID        string  `gorm:"size:255" json:"customerId"`
	ProviderReference string  `gorm:"size:255;index" json:"providerReference"`
	Status            string  `gorm:"size:30" json:"status"`
	SubscriptionID    *string `gorm:"size:255" json:"subscriptionId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *SubscriptionLink) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s *SubscriptionLink) Active() bool {
	return s != nil && s.SubscriptionID != nil && *s.SubscriptionID != ""
}
