package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/drivers/:id/rates?start=YYYY-MM-DD&end=YYYY-MM-DD
func (a *API) DriverRates(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	summary, err := a.driverLedger(c).Ledger(c.Request.Context(), id,
		strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type driverPayRequest struct {
	EntryIDs []domain.ID `json:"entryIds"`
}

// POST /api/drivers/:id/rates/pay
func (a *API) PayDriverRates(c *gin.Context) {
	if _, ok := PathID(c, "id"); !ok {
		return
	}
	var req driverPayRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := a.driverLedger(c).MarkPaid(c.Request.Context(), req.EntryIDs); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paid": req.EntryIDs})
}

// POST /api/drivers/:id/rates/unpay
func (a *API) UnpayDriverRates(c *gin.Context) {
	if _, ok := PathID(c, "id"); !ok {
		return
	}
	var req driverPayRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := a.driverLedger(c).MarkUnpaid(c.Request.Context(), req.EntryIDs); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reverted": req.EntryIDs})
}

// POST /api/drivers/:id/rates
// Records a manual override or substitute row.
func (a *API) AddDriverRate(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var entry domain.DriverRateEntry
	if !BindJSONOrError(c, &entry) {
		return
	}
	entry.DriverID = id

	entryID, err := a.driverLedger(c).AddManualEntry(c.Request.Context(), entry)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": entryID})
}
