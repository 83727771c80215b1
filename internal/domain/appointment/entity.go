package appointment

import (
	"time"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	StartTime *time.Time
	Duration  *duration.Duration
	Confirmed *bool
}

func (c Changes) Empty() bool {
	return c.StartTime == nil && c.Duration == nil && c.Confirmed == nil
}

func Apply(ap *models.Appointment, c Changes) error {
	if c.Duration != nil {
		if !c.Duration.Valid() {
			return ErrInvalidDuration
		}
		ap.Duration = *c.Duration
	}
	if c.StartTime != nil {
		ap.StartTime = c.StartTime.UTC()
	}
	if c.Confirmed != nil {
		ap.Confirmed = *c.Confirmed
	}
	return nil
}
