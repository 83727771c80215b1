package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var meta datatypes.JSON
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		ContractorID: ev.ContractorID,
		UserID:       nonNil(ev.UserID),
		Action:       ev.Action,
		Entity:       ev.Entity,
		EntityID:     nonNil(ev.EntityID),
		Metadata:     meta,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
