package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ContractorGormRepository struct {
	db *gorm.DB
}

func NewContractorGormRepository(db *gorm.DB) *ContractorGormRepository {
	return &ContractorGormRepository{db: db}
}

func (r *ContractorGormRepository) List(ctx context.Context) ([]models.Contractor, error) {
	var out []models.Contractor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads the contractor together with its services.
func (r *ContractorGormRepository) Get(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	var c models.Contractor
	if err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Register creates the contractor and links it to the user in one
// transaction.
func (r *ContractorGormRepository) Register(ctx context.Context, userID uuid.UUID, c *models.Contractor) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND contractor_id IS NULL", userID).
			Update("contractor_id", c.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	}))
}

func (r *ContractorGormRepository) Update(ctx context.Context, c *models.Contractor) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

func (r *ContractorGormRepository) SetAvatar(ctx context.Context, id uuid.UUID, url string) error {
	res := r.db.WithContext(ctx).Model(&models.Contractor{}).Where("id = ?", id).Update("avatar_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type cascadeStep struct {
	model any
	where string
	arg   any
}

// Delete removes the contractor along with its appointments, schedule
// blocks, services, and the users acting as it.
func (r *ContractorGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userIDs []uuid.UUID
		if err := tx.Model(&models.User{}).Where("contractor_id = ?", id).Pluck("id", &userIDs).Error; err != nil {
			return err
		}

		steps := []cascadeStep{
			{&models.Appointment{}, "contractor_id = ?", id},
			{&models.ScheduleBlock{}, "contractor_id = ?", id},
			{&models.Service{}, "contractor_id = ?", id},
			{&models.Feedback{}, "contractor_id = ?", id},
		}
		if len(userIDs) > 0 {
			steps = append(steps,
				cascadeStep{&models.Appointment{}, "user_id IN ?", userIDs},
				cascadeStep{&models.SubscriptionLink{}, "user_id IN ?", userIDs},
				cascadeStep{&models.User{}, "id IN ?", userIDs},
			)
		}

		for _, s := range steps {
			if err := tx.Where(s.where, s.arg).Delete(s.model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Contractor{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
