package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

// ServiceFilter narrows a service listing. Zero values match everything.
type ServiceFilter struct {
	ContractorID *uuid.UUID
	Query        string
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string
}

func (f ServiceFilter) order() string {
	switch f.Sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	default:
		return "name ASC"
	}
}

func (r *ServiceGormRepository) List(ctx context.Context, f ServiceFilter) ([]models.Service, error) {
	q := r.db.WithContext(ctx)
	if f.ContractorID != nil {
		q = q.Where("contractor_id = ?", *f.ContractorID)
	}
	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	out := []models.Service{}
	if err := q.Order(f.order()).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ServiceGormRepository) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServiceGormRepository) Create(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

func (r *ServiceGormRepository) Update(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error)
}

// Delete removes the service and detaches appointments that used it.
func (r *ServiceGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("service_id = ?", id).
			Update("service_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Service{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
