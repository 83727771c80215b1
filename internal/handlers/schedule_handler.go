package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/contractor-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	createUC *ucSchedule.CreateSchedule
	updateUC *ucSchedule.UpdateSchedule
	deleteUC *ucSchedule.DeleteSchedule
	listUC   *ucSchedule.ListSchedules
}

func NewScheduleHandler(
	createUC *ucSchedule.CreateSchedule,
	updateUC *ucSchedule.UpdateSchedule,
	deleteUC *ucSchedule.DeleteSchedule,
	listUC *ucSchedule.ListSchedules,
) *ScheduleHandler {
	return &ScheduleHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		listUC:   listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	StartTime string             `json:"startTime"`
	Duration  *duration.Duration `json:"duration"`
	Open      *bool              `json:"open"`
}

type UpdateScheduleRequest struct {
	StartTime *string            `json:"startTime"`
	Duration  *duration.Duration `json:"duration"`
	Open      *bool              `json:"open"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucSchedule.CreateScheduleInput{
		Principal: middleware.Principal(c),
		StartTime: req.StartTime,
		Open:      req.Open,
	}
	// a missing duration is zero and rejected as invalid
	if req.Duration != nil {
		in.Duration = *req.Duration
	}

	block, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err, "Could not create schedule")
		return
	}

	httpresp.Created(c, http.StatusCreated, block)
}

// ======================================================
// READ
// ======================================================

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	block, err := h.listUC.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "Could not load schedule")
		return
	}

	httpresp.Keyed(c, http.StatusOK, "schedule", block)
}

func (h *ScheduleHandler) ListByContractor(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	blocks, err := h.listUC.ByContractor(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "Could not list schedules")
		return
	}

	httpresp.Keyed(c, http.StatusOK, "schedule", blocks)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	block, err := h.updateUC.Execute(c.Request.Context(), ucSchedule.UpdateScheduleInput{
		Principal:  middleware.Principal(c),
		ScheduleID: id,
		StartTime:  req.StartTime,
		Duration:   req.Duration,
		Open:       req.Open,
	})
	if err != nil {
		httperr.Respond(c, err, "Could not update schedule")
		return
	}

	httpresp.Updated(c, block)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	block, err := h.deleteUC.Execute(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.Respond(c, err, "Could not delete schedule")
		return
	}

	httpresp.Deleted(c, block)
}
