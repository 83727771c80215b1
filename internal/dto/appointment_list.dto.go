package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
)

type AppointmentListDTO struct {
	ID             uuid.UUID         `json:"id"`
	ContractorID   uuid.UUID         `json:"contractorId"`
	UserID         uuid.UUID         `json:"userId"`
	ServiceID      *uuid.UUID        `json:"serviceId"`
	ScheduleID     *uuid.UUID        `json:"scheduleId"`
	StartTime      time.Time         `json:"startTime"`
	Duration       duration.Duration `json:"duration"`
	Confirmed      bool              `json:"confirmed"`
	Status         string            `json:"status"`
	ContractorName string            `json:"contractorName"`
	Username       string            `json:"username"`
	ServiceName    *string           `json:"serviceName"`
}
