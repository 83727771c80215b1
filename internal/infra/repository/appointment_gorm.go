package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/dto"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

var _ apdomain.Repository = (*AppointmentGormRepository)(nil)

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) GetContractor(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	return getContractor(ctx, r.db, id)
}

func (r *AppointmentGormRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *AppointmentGormRepository) GetScheduleBlock(ctx context.Context, id uuid.UUID) (*models.ScheduleBlock, error) {
	return getBlock(ctx, r.db, id)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error)
}

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error)
}

func (r *AppointmentGormRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

type appointmentRow struct {
	ID             uuid.UUID
	ContractorID   uuid.UUID
	UserID         uuid.UUID
	ServiceID      *uuid.UUID
	ScheduleID     *uuid.UUID
	StartTime      time.Time
	Duration       duration.Duration `gorm:"column:duration_minutes"`
	Confirmed      bool
	ContractorName string
	Username       string
	ServiceName    *string
}

func (r *AppointmentGormRepository) ListForParticipant(
	ctx context.Context,
	userID uuid.UUID,
	contractorID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	q := r.db.WithContext(ctx).
		Table("appointments").
		Select(`appointments.id, appointments.contractor_id, appointments.user_id,
			appointments.service_id, appointments.schedule_id, appointments.start_time,
			appointments.duration_minutes, appointments.confirmed,
			contractors.name AS contractor_name,
			users.username AS username,
			services.name AS service_name`).
		Joins("JOIN contractors ON contractors.id = appointments.contractor_id").
		Joins("JOIN users ON users.id = appointments.user_id").
		Joins("LEFT JOIN services ON services.id = appointments.service_id")

	if contractorID != nil {
		q = q.Where("appointments.user_id = ? OR appointments.contractor_id = ?", userID, *contractorID)
	} else {
		q = q.Where("appointments.user_id = ?", userID)
	}

	var rows []appointmentRow
	if err := q.Order("appointments.start_time ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(rows))
	for _, row := range rows {
		ap := models.Appointment{Confirmed: row.Confirmed}
		out = append(out, dto.AppointmentListDTO{
			ID:             row.ID,
			ContractorID:   row.ContractorID,
			UserID:         row.UserID,
			ServiceID:      row.ServiceID,
			ScheduleID:     row.ScheduleID,
			StartTime:      row.StartTime.UTC(),
			Duration:       row.Duration,
			Confirmed:      row.Confirmed,
			Status:         string(apdomain.StatusOf(&ap)),
			ContractorName: row.ContractorName,
			Username:       row.Username,
			ServiceName:    row.ServiceName,
		})
	}
	return out, nil
}
