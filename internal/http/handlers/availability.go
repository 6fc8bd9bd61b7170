package handlers

import (
	"net/http"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

type validateRequest struct {
	VehicleID        domain.ID         `json:"vehicleId"`
	DriverID         domain.ID         `json:"driverId"`
	ExcludePackageID domain.ID         `json:"excludePackageId"`
	Activities       []domain.Activity `json:"activities"`
}

// POST /api/availability/validate
// Conflicts are part of the 200 response; only malformed input or a store
// failure produces an error status.
func (a *API) ValidateAvailability(c *gin.Context) {
	var req validateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := a.availability(c).Validate(c.Request.Context(), req.VehicleID, req.DriverID, req.Activities, req.ExcludePackageID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
