package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/auth"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/media"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
	"github.com/BruksfildServices01/contractor-scheduler/internal/timezone"
)

type ContractorHandler struct {
	repo            *repository.ContractorGormRepository
	tokens          *auth.Tokens
	avatars         *media.Avatars
	audit           *audit.Dispatcher
	defaultTimezone string
}

// NewContractorHandler builds the handler. avatars may be nil when uploads
// are not configured.
func NewContractorHandler(
	repo *repository.ContractorGormRepository,
	tokens *auth.Tokens,
	avatars *media.Avatars,
	audit *audit.Dispatcher,
	defaultTimezone string,
) *ContractorHandler {
	if !timezone.IsValid(defaultTimezone) {
		defaultTimezone = timezone.DefaultTimezone
	}
	return &ContractorHandler{
		repo:            repo,
		tokens:          tokens,
		avatars:         avatars,
		audit:           audit,
		defaultTimezone: defaultTimezone,
	}
}

// --------- Requests ---------

type RegisterContractorRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	PhoneNumber   string   `json:"phoneNumber" binding:"required,max=20"`
	StreetAddress string   `json:"streetAddress"`
	City          string   `json:"city"`
	StateAbbr     string   `json:"stateAbbr" binding:"omitempty,len=2"`
	ZipCode       string   `json:"zipCode" binding:"max=10"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Timezone      string   `json:"timezone"`
}

type UpdateContractorRequest struct {
	Name          *string  `json:"name,omitempty"`
	PhoneNumber   *string  `json:"phoneNumber,omitempty"`
	StreetAddress *string  `json:"streetAddress,omitempty"`
	City          *string  `json:"city,omitempty"`
	StateAbbr     *string  `json:"stateAbbr,omitempty"`
	ZipCode       *string  `json:"zipCode,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Timezone      *string  `json:"timezone,omitempty"`
}

// --------- Handlers ---------

func (h *ContractorHandler) List(c *gin.Context) {
	contractors, err := h.repo.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, "Could not list contractors")
		return
	}
	httpresp.Keyed(c, http.StatusOK, "contractors", contractors)
}

func (h *ContractorHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	contractor, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStore(c, err, "contractor_not_found", "Could not load contractor")
		return
	}
	httpresp.Keyed(c, http.StatusOK, "contractor", contractor)
}

// Register makes the caller a contractor and returns a refreshed token.
func (h *ContractorHandler) Register(c *gin.Context) {
	p := middleware.Principal(c)
	if p.IsContractor() {
		httperr.Write(c, http.StatusConflict, "already_contractor", "User is already a contractor")
		return
	}

	var req RegisterContractorRequest
	if !bindJSON(c, &req) {
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = h.defaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone")
		return
	}

	contractor := models.Contractor{
		Name:          strings.TrimSpace(req.Name),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		StreetAddress: req.StreetAddress,
		City:          req.City,
		StateAbbr:     strings.ToUpper(req.StateAbbr),
		ZipCode:       req.ZipCode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Timezone:      tz,
	}

	if err := h.repo.Register(c.Request.Context(), p.UserID, &contractor); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// the user gained a contractor between the check and the update
			httperr.Write(c, http.StatusConflict, "already_contractor", "User is already a contractor")
		case errors.Is(err, domain.ErrDuplicate):
			httperr.Write(c, http.StatusConflict, "phone_in_use", "Phone number already registered")
		default:
			httperr.Respond(c, err, "Could not register contractor")
		}
		return
	}

	token, err := h.tokens.Issue(p.UserID, &contractor.ID)
	if err != nil {
		httperr.Respond(c, err, "Could not issue token")
		return
	}

	h.audit.Dispatch(audit.Event{
		ContractorID: &contractor.ID,
		UserID:       &p.UserID,
		Action:       "contractor_registered",
		Entity:       "contractor",
		EntityID:     &contractor.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"created": contractor,
		"token":   token,
	})
}

func (h *ContractorHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p := middleware.Principal(c)
	if access.CanMutateContractor(p, id) == access.Deny {
		httperr.Respond(c, access.ErrForbidden, "")
		return
	}

	var req UpdateContractorRequest
	if !bindJSON(c, &req) {
		return
	}

	contractor, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStore(c, err, "contractor_not_found", "Could not load contractor")
		return
	}

	if req.Timezone != nil && !timezone.IsValid(*req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone")
		return
	}
	if req.StateAbbr != nil && len(*req.StateAbbr) != 2 {
		httperr.BadRequest(c, "invalid_state", "State must be a two letter abbreviation")
		return
	}

	applyString(&contractor.Name, req.Name)
	applyString(&contractor.PhoneNumber, req.PhoneNumber)
	applyString(&contractor.StreetAddress, req.StreetAddress)
	applyString(&contractor.City, req.City)
	applyString(&contractor.ZipCode, req.ZipCode)
	applyString(&contractor.Timezone, req.Timezone)
	if req.StateAbbr != nil {
		contractor.StateAbbr = strings.ToUpper(*req.StateAbbr)
	}
	if req.Latitude != nil {
		contractor.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		contractor.Longitude = req.Longitude
	}

	if err := h.repo.Update(c.Request.Context(), contractor); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			httperr.Write(c, http.StatusConflict, "phone_in_use", "Phone number already registered")
			return
		}
		httperr.Respond(c, err, "Could not update contractor")
		return
	}

	h.audit.Dispatch(audit.Event{
		ContractorID: &contractor.ID,
		UserID:       &p.UserID,
		Action:       "contractor_updated",
		Entity:       "contractor",
		EntityID:     &contractor.ID,
		Metadata:     req,
	})

	httpresp.Updated(c, contractor)
}

// Delete removes the contractor and everything that hangs off it,
// including the users acting as it.
func (h *ContractorHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p := middleware.Principal(c)
	if access.CanMutateContractor(p, id) == access.Deny {
		httperr.Respond(c, access.ErrForbidden, "")
		return
	}

	contractor, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStore(c, err, "contractor_not_found", "Could not load contractor")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err, "Could not delete contractor")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "contractor_deleted",
		Entity:   "contractor",
		EntityID: &id,
		Metadata: map[string]string{"name": contractor.Name},
	})

	httpresp.Deleted(c, contractor)
}

// UploadAvatar accepts a multipart "image" field and stores it as the
// contractor's avatar.
func (h *ContractorHandler) UploadAvatar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p := middleware.Principal(c)
	if access.CanMutateContractor(p, id) == access.Deny {
		httperr.Respond(c, access.ErrForbidden, "")
		return
	}

	if h.avatars == nil {
		httperr.Internal(c, "uploads_disabled", "File uploads are not configured")
		return
	}

	// room for the multipart envelope around the largest accepted image
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1<<20)

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Multipart field \"image\" is required")
		return
	}
	if file.Size > media.MaxUploadBytes {
		httperr.Respond(c, media.ErrTooLarge, "")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Respond(c, err, "Could not read upload")
		return
	}
	defer src.Close()

	url, err := h.avatars.Upload(c.Request.Context(), id, src)
	if err != nil {
		httperr.Respond(c, err, "Could not store avatar")
		return
	}

	if err := h.repo.SetAvatar(c.Request.Context(), id, url); err != nil {
		respondStore(c, err, "contractor_not_found", "Could not save avatar")
		return
	}

	h.audit.Dispatch(audit.Event{
		ContractorID: &id,
		UserID:       &p.UserID,
		Action:       "avatar_uploaded",
		Entity:       "contractor",
		EntityID:     &id,
	})

	httpresp.Updated(c, gin.H{"avatarUrl": url})
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
