package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/agencies/:id/settlements?start=YYYY-MM-DD&end=YYYY-MM-DD
func (a *API) AgencySettlementView(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	view, err := a.Settlements.AgencyView(c.Request.Context(), id,
		strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type settleRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// POST /api/agencies/:id/settlements/settle
func (a *API) SettleAgencyPeriod(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req settleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	receipt, err := a.Settlements.SettlePeriod(c.Request.Context(), id, req.Start, req.End)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

type cancelRequest struct {
	ChargeIDs []domain.ID `json:"chargeIds"`
}

// POST /api/settlements/cancel
func (a *API) CancelSettlement(c *gin.Context) {
	var req cancelRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	receipt, err := a.Settlements.CancelSettlement(c.Request.Context(), req.ChargeIDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// GET /api/agencies/:id/settlements/pdf
func (a *API) AgencySettlementPDF(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	view, err := a.Settlements.AgencyView(c.Request.Context(), id,
		strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := a.statements(c).SettlementStatement(view)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
