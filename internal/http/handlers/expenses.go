package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/vehicles/:id/expenses?start=YYYY-MM-DD&end=YYYY-MM-DD
func (a *API) VehicleExpenses(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	window := domain.DateRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}

	expenses, err := a.Store.FetchVehicleExpenses(c.Request.Context(), id, window)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// POST /api/vehicles/:id/expenses
func (a *API) AddVehicleExpense(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var expense domain.VehicleExpense
	if !BindJSONOrError(c, &expense) {
		return
	}
	expense.VehicleID = id

	if expense.Category == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "category required")
		return
	}
	if !utils.ValidDate(expense.Date) {
		respondError(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return
	}
	if expense.Amount.IsNegative() {
		respondError(c, http.StatusBadRequest, "validation_error", "amount must not be negative")
		return
	}

	expenseID, err := a.Store.Expenses.Insert(c.Request.Context(), expense)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": expenseID})
}
