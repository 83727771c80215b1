package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// Keyed writes {key: data}, the envelope every resource endpoint uses.
func Keyed(c *gin.Context, status int, key string, data any) {
	c.JSON(status, gin.H{key: data})
}

func Created(c *gin.Context, status int, data any) {
	Keyed(c, status, "created", data)
}

func Updated(c *gin.Context, data any) {
	Keyed(c, http.StatusOK, "updated", data)
}

func Deleted(c *gin.Context, data any) {
	Keyed(c, http.StatusOK, "deleted", data)
}
