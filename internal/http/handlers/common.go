package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload: "+err.Error())
		return false
	}
	return true
}

// PathID parses a positive int64 path parameter.
func PathID(c *gin.Context, name string) (domain.ID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name)
		return 0, false
	}
	return domain.ID(id), true
}
