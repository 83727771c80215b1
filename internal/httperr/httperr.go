package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error. Business errors keep their code and
// message; anything else becomes a 500 with fallback as the message, and
// the cause is attached to the gin context for the request logger.
func Respond(c *gin.Context, err error, fallback string) {
	var be BusinessError
	if errors.As(err, &be) && be.Kind != KindUnclassified {
		Write(c, StatusFor(be.Kind), be.Code, be.Message)
		return
	}

	_ = c.Error(err)

	msg := fallback
	code := "internal_error"
	if errors.As(err, &be) {
		code = be.Code
		if be.Message != "" {
			msg = be.Message
		}
	}
	Internal(c, code, msg)
}
