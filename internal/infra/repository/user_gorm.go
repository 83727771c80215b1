package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error)
}

func (r *UserGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByLogin matches either the username or the e-mail address.
func (r *UserGormRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ResolvePrincipal loads the user and its subscription link. It is called
// on every authenticated request.
func (r *UserGormRepository) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (access.Principal, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return access.Principal{}, err
	}

	p := access.Principal{UserID: u.ID, ContractorID: u.ContractorID}

	var link models.SubscriptionLink
	err = r.db.WithContext(ctx).Where("user_id = ?", u.ID).First(&link).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return access.Principal{}, err
	case link.Active():
		p.SubscriptionID = link.SubscriptionID
	}

	return p, nil
}
