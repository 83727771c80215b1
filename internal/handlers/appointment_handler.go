package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/contractor-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createAsClientUC     *ucAppointment.CreateAsClient
	createAsContractorUC *ucAppointment.CreateAsContractor
	updateUC             *ucAppointment.UpdateAppointment
	deleteUC             *ucAppointment.DeleteAppointment
	listUC               *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	createAsClientUC *ucAppointment.CreateAsClient,
	createAsContractorUC *ucAppointment.CreateAsContractor,
	updateUC *ucAppointment.UpdateAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	listUC *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		createAsClientUC:     createAsClientUC,
		createAsContractorUC: createAsContractorUC,
		updateUC:             updateUC,
		deleteUC:             deleteUC,
		listUC:               listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ContractorID uuid.UUID          `json:"contractorId" binding:"required"`
	ServiceID    *uuid.UUID         `json:"serviceId"`
	ScheduleID   *uuid.UUID         `json:"scheduleId"`
	StartTime    string             `json:"startTime" binding:"required"`
	Duration     *duration.Duration `json:"duration"`
}

// CreateContractorAppointmentRequest keeps every field optional; missing
// ones are reported by the booking rules, not by binding.
type CreateContractorAppointmentRequest struct {
	UserID     *uuid.UUID         `json:"userId"`
	ServiceID  *uuid.UUID         `json:"serviceId"`
	ScheduleID *uuid.UUID         `json:"scheduleId"`
	StartTime  string             `json:"startTime"`
	Duration   *duration.Duration `json:"duration"`
}

type UpdateAppointmentRequest struct {
	StartTime *string            `json:"startTime"`
	Duration  *duration.Duration `json:"duration"`
	Confirmed *bool              `json:"confirmed"`
}

// ======================================================
// CREATE
// ======================================================

// Create books an appointment with a contractor on behalf of the caller.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.createAsClientUC.Execute(c.Request.Context(), ucAppointment.CreateAsClientInput{
		Principal:    middleware.Principal(c),
		ContractorID: req.ContractorID,
		ServiceID:    req.ServiceID,
		ScheduleID:   req.ScheduleID,
		StartTime:    req.StartTime,
		Duration:     req.Duration,
	})
	if err != nil {
		httperr.Respond(c, err, "Could not create appointment")
		return
	}

	httpresp.Created(c, http.StatusOK, ap)
}

// CreateAsContractor books an appointment for one of the contractor's clients.
func (h *AppointmentHandler) CreateAsContractor(c *gin.Context) {
	var req CreateContractorAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.createAsContractorUC.Execute(c.Request.Context(), ucAppointment.CreateAsContractorInput{
		Principal:  middleware.Principal(c),
		UserID:     req.UserID,
		ServiceID:  req.ServiceID,
		ScheduleID: req.ScheduleID,
		StartTime:  req.StartTime,
		Duration:   req.Duration,
	})
	if err != nil {
		httperr.Respond(c, err, "Could not create appointment")
		return
	}

	httpresp.Created(c, http.StatusCreated, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.listUC.ForPrincipal(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		httperr.Respond(c, err, "Could not list appointments")
		return
	}

	httpresp.Keyed(c, http.StatusOK, "appointments", list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.listUC.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.Respond(c, err, "Could not load appointment")
		return
	}

	httpresp.Keyed(c, http.StatusOK, "appointment", ap)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Principal:     middleware.Principal(c),
		AppointmentID: id,
		StartTime:     req.StartTime,
		Duration:      req.Duration,
		Confirmed:     req.Confirmed,
	})
	if err != nil {
		httperr.Respond(c, err, "Could not update appointment")
		return
	}

	httpresp.Updated(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.deleteUC.Execute(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.Respond(c, err, "Could not delete appointment")
		return
	}

	httpresp.Deleted(c, ap)
}
