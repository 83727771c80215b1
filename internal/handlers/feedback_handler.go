package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

// FeedbackHandler stores and lists contractor feedback. Ratings are kept
// as submitted; nothing aggregates them.
type FeedbackHandler struct {
	db *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

type CreateFeedbackRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	contractorID, ok := uuidParam(c, "contractorId")
	if !ok {
		return
	}

	var req CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&models.Contractor{}).Where("id = ?", contractorID).Count(&count).Error; err != nil {
		httperr.Respond(c, err, "Could not load contractor")
		return
	}
	if count == 0 {
		httperr.NotFound(c, "contractor_not_found", "Contractor not found")
		return
	}

	p := middleware.Principal(c)
	fb := models.Feedback{
		UserID:       &p.UserID,
		ContractorID: &contractorID,
		Stars:        req.Stars,
		Message:      strings.TrimSpace(req.Message),
	}

	if err := db.Create(&fb).Error; err != nil {
		httperr.Respond(c, err, "Could not save feedback")
		return
	}

	httpresp.Created(c, http.StatusCreated, fb)
}

func (h *FeedbackHandler) ListByContractor(c *gin.Context) {
	contractorID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	feedback := []models.Feedback{}
	if err := h.db.WithContext(c.Request.Context()).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Find(&feedback).Error; err != nil {

		httperr.Respond(c, err, "Could not list feedback")
		return
	}

	httpresp.List(c, feedback)
}
