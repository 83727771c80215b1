package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

var _ schedule.Repository = (*ScheduleGormRepository)(nil)

func getContractor(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Contractor, error) {
	var c models.Contractor
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func getBlock(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.ScheduleBlock, error) {
	var b models.ScheduleBlock
	if err := db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *ScheduleGormRepository) GetContractor(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	return getContractor(ctx, r.db, id)
}

func (r *ScheduleGormRepository) CreateBlock(ctx context.Context, b *models.ScheduleBlock) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *ScheduleGormRepository) GetBlock(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error) {
	return getBlock(ctx, r.db, id)
}

func (r *ScheduleGormRepository) UpdateBlock(ctx context.Context, b *models.ScheduleBlock) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

func (r *ScheduleGormRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("schedule_id = ?", id).
			Update("schedule_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.ScheduleBlock{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *ScheduleGormRepository) ListBlocksByContractor(ctx context.Context, contractorID uuid.UUID) ([]models.ScheduleBlock, error) {
	var blocks []models.ScheduleBlock
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *ScheduleGormRepository) SumBlockMinutes(
	ctx context.Context,
	contractorID uuid.UUID,
	from, to time.Time,
	exclude *uuid.UUID,
) (int, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ScheduleBlock{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("contractor_id = ? AND start_time >= ? AND start_time < ?", contractorID, from.UTC(), to.UTC())

	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var total int64
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}
