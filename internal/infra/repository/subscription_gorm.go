package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

func (r *SubscriptionGormRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.SubscriptionLink, error) {
	var link models.SubscriptionLink
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

// Save inserts a new link or updates the existing one.
func (r *SubscriptionGormRepository) Save(ctx context.Context, link *models.SubscriptionLink) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(link).Error)
}

func (r *SubscriptionGormRepository) ListWithProviderReference(ctx context.Context) ([]models.SubscriptionLink, error) {
	var out []models.SubscriptionLink
	if err := r.db.WithContext(ctx).
		Where("provider_reference IS NOT NULL AND provider_reference <> ''").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
