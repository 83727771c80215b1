package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	apdomain "github.com/BruksfildServices01/contractor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/availability"
)

func parseStart(raw string, loc *time.Location) (time.Time, error) {
	start, ok := availability.ParseStart(raw, loc)
	if !ok {
		return time.Time{}, apdomain.ErrInvalidStartTime
	}
	return start, nil
}

// lookupError turns a missing row into the given not-found failure.
func lookupError(err error, missing error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return missing
	}
	return fmt.Errorf("load booking reference: %w", err)
}
