package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
)

type MeHandler struct {
	users *repository.UserGormRepository
}

func NewMeHandler(users *repository.UserGormRepository) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	p := middleware.Principal(c)

	user, err := h.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		httperr.Respond(c, err, "Could not load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"contractorId":    p.ContractorID,
		"isContractor":    p.IsContractor(),
		"hasSubscription": p.HasSubscription(),
	})
}
