package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

// POST /api/packages
// Runs the booking flow: availability first, persist on approval. A
// rejected booking returns 409 with the structured conflict result.
func (a *API) CreatePackage(c *gin.Context) {
	var pkg domain.Package
	if !BindJSONOrError(c, &pkg) {
		return
	}

	id, result, err := a.booking(c).CreateBooking(c.Request.Context(), pkg)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !result.IsValid {
		c.JSON(http.StatusConflict, gin.H{"validation": result})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "validation": result})
}

type statusRequest struct {
	Status domain.PackageStatus `json:"status"`
}

// PUT /api/packages/:id/status
func (a *API) UpdatePackageStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := a.booking(c).TransitionStatus(c.Request.Context(), id, req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// GET /api/packages/:id/financials?start=YYYY-MM-DD&end=YYYY-MM-DD
func (a *API) PackageFinancials(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	window := domain.DateRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}

	summary, err := a.finance(c).Reconcile(c.Request.Context(), id, window)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/packages/:id/financials/pdf
func (a *API) PackageFinancialsPDF(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	window := domain.DateRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}

	summary, err := a.finance(c).Reconcile(c.Request.Context(), id, window)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := a.statements(c).FinancialStatement(summary)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
