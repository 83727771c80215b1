package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/contractor-scheduler/internal/models"
)

type ServiceHandler struct {
	repo  *repository.ServiceGormRepository
	audit *audit.Dispatcher
}

func NewServiceHandler(repo *repository.ServiceGormRepository, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{repo: repo, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name  string   `json:"name" binding:"required,max=100"`
	Price *float64 `json:"price" binding:"omitempty,gte=0"`
}

type UpdateServiceRequest struct {
	Name  *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Price *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
}

// --------- Handlers ---------

// List returns services, optionally narrowed with ?contractorId=, ?query=,
// ?min_price=, ?max_price= and ?sort=price_asc|price_desc.
func (h *ServiceHandler) List(c *gin.Context) {
	var f repository.ServiceFilter

	if raw := c.Query("contractorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "Invalid contractorId")
			return
		}
		f.ContractorID = &id
	}

	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_"+key, "Invalid "+key)
			return
		}
		*dst = &v
	}

	f.Query = c.Query("query")
	f.Sort = strings.ToLower(strings.TrimSpace(c.Query("sort")))

	services, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err, "Could not list services")
		return
	}
	httpresp.Keyed(c, http.StatusOK, "services", services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStore(c, err, "service_not_found", "Could not load service")
		return
	}
	httpresp.Keyed(c, http.StatusOK, "service", svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	if !p.IsContractor() {
		httperr.Write(c, http.StatusForbidden, "not_contractor", "Only contractors can create services")
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc := models.Service{
		ContractorID: *p.ContractorID,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
	}

	if err := h.repo.Create(c.Request.Context(), &svc); err != nil {
		httperr.Respond(c, err, "Could not create service")
		return
	}

	h.dispatch(p, "service_created", &svc, req)
	httpresp.Created(c, http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc, p, ok := h.loadOwned(c, id)
	if !ok {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		svc.Price = req.Price
	}

	if err := h.repo.Update(c.Request.Context(), svc); err != nil {
		httperr.Respond(c, err, "Could not update service")
		return
	}

	h.dispatch(p, "service_updated", svc, req)
	httpresp.Updated(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	svc, p, ok := h.loadOwned(c, id)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStore(c, err, "service_not_found", "Could not delete service")
		return
	}

	h.dispatch(p, "service_deleted", svc, nil)
	httpresp.Deleted(c, svc)
}

// loadOwned loads the service and checks that the caller owns it, writing
// the failure response itself.
func (h *ServiceHandler) loadOwned(c *gin.Context, id uuid.UUID) (*models.Service, access.Principal, bool) {
	p := middleware.Principal(c)

	svc, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStore(c, err, "service_not_found", "Could not load service")
		return nil, p, false
	}

	if access.CanMutateService(p, svc) == access.Deny {
		httperr.Respond(c, access.ErrForbidden, "")
		return nil, p, false
	}
	return svc, p, true
}

func (h *ServiceHandler) dispatch(p access.Principal, action string, svc *models.Service, meta any) {
	h.audit.Dispatch(audit.Event{
		ContractorID: &svc.ContractorID,
		UserID:       &p.UserID,
		Action:       action,
		Entity:       "service",
		EntityID:     &svc.ID,
		Metadata:     meta,
	})
}
