package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/contractor-scheduler/internal/billing"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
)

type SubscriptionHandler struct {
	billing *billing.Service
}

func NewSubscriptionHandler(svc *billing.Service) *SubscriptionHandler {
	return &SubscriptionHandler{billing: svc}
}

type SubscribeRequest struct {
	PayerEmail string `json:"payerEmail"`
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	view, err := h.billing.Status(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		httperr.Respond(c, err, "Could not load subscription")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.billing.Subscribe(c.Request.Context(), middleware.Principal(c), req.PayerEmail)
	if err != nil {
		httperr.Respond(c, err, "Could not create subscription")
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	view, err := h.billing.Cancel(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		httperr.Respond(c, err, "Could not cancel subscription")
		return
	}
	c.JSON(http.StatusOK, view)
}
