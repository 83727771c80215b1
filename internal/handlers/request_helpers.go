package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/duration"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
)

// uuidParam parses a path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into dst, answering 400 on failure. A bad
// duration gets its own code.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, duration.ErrInvalid) {
			httperr.BadRequest(c, "invalid_duration", "Duration must look like \"1h 30m\" or {\"hours\": 1, \"minutes\": 30}")
			return false
		}
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// respondStore reports a repository failure, turning a missing record into
// a 404 with the given code.
func respondStore(c *gin.Context, err error, notFoundCode, fallback string) {
	if errors.Is(err, domain.ErrNotFound) {
		httperr.NotFound(c, notFoundCode, "Not found")
		return
	}
	httperr.Respond(c, err, fallback)
}
