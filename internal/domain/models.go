package domain

import "github.com/shopspring/decimal"

type PackageStatus string

const (
	PackagePending    PackageStatus = "pending"
	PackageConfirmed  PackageStatus = "confirmed"
	PackageInProgress PackageStatus = "in_progress"
	PackageCompleted  PackageStatus = "completed"
	PackageCancelled  PackageStatus = "cancelled"
)

// Committed reports whether the package blocks its vehicle and driver.
// Only confirmed and in_progress bookings count against availability.
func (s PackageStatus) Committed() bool {
	return s == PackageConfirmed || s == PackageInProgress
}

// Package is a booked tour for an agency: one vehicle, one driver, a date
// range and the activities scheduled inside it. Never hard-deleted while
// activities reference it.
type Package struct {
	ID        ID            `json:"id"`
	AgencyID  ID            `json:"agencyId"`
	VehicleID ID            `json:"vehicleId"`
	DriverID  ID            `json:"driverId"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Status    PackageStatus `json:"status"`

	// DailyServiceRate is the flat per-day price charged once on any day
	// that has at least one full-day activity.
	DailyServiceRate decimal.Decimal `json:"dailyServiceRate"`

	// ConsiderDriverDailyCost enables charging the driver's daily rate as a
	// cost on days with activities. Charged on any day with >=1 activity
	// regardless of billing mode; see FinancialSummary.
	ConsiderDriverDailyCost bool `json:"considerDriverDailyCost"`

	// DriverDailyRate is joined from the driver record on fetch.
	DriverDailyRate decimal.Decimal `json:"driverDailyRate"`

	Activities []Activity `json:"activities,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// Activity is one scheduled attraction instance, owned by its package.
type Activity struct {
	ID           ID     `json:"id"`
	PackageID    ID     `json:"packageId"`
	AttractionID ID     `json:"attractionId"`

	ScheduledDate string `json:"scheduledDate"` // YYYY-MM-DD

	// StartTime (HH:MM) is required only when ConsiderNetValue is true.
	StartTime       string `json:"startTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`

	// ConsiderNetValue true means hourly/NET billing at the attraction's
	// net value; false means full-day billing via the package daily rate
	// with exclusive use of the resource for that date.
	ConsiderNetValue bool `json:"considerNetValue"`

	// NetValue is joined from the attraction; used only when
	// ConsiderNetValue is true.
	NetValue decimal.Decimal `json:"netValue"`

	AttractionName string `json:"attractionName,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// FullDay reports whether the activity claims the whole date.
func (a Activity) FullDay() bool { return !a.ConsiderNetValue }

// Attraction is reference data.
type Attraction struct {
	ID              ID              `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	NetValue        decimal.Decimal `json:"netValue"`
}

// VehicleExpense is independent of activities; a day can carry an expense
// with zero activities and still appear in the financial breakdown.
type VehicleExpense struct {
	ID        ID              `json:"id"`
	VehicleID ID              `json:"vehicleId"`
	PackageID ID              `json:"packageId,omitempty"` // 0 when not tied to a package
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

// LedgerKind tags how a ledger row came to exist. Explicit tag, never
// inferred from the shape of an id.
type LedgerKind string

const (
	LedgerAutomatic LedgerKind = "automatic" // derived from a committed package
	LedgerManual    LedgerKind = "manual"    // explicit override or substitute row
)

// LedgerEntry is a single chargeable unit owed by an agency for one day.
type LedgerEntry struct {
	ID          ID              `json:"id"`
	Kind        LedgerKind      `json:"kind"`
	AgencyID    ID              `json:"agencyId"`
	PackageID   ID              `json:"packageId,omitempty"` // 0 for pure manual entries
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Paid        bool            `json:"paid"`

	// SettlementID is the batch that flipped this entry to paid; empty
	// while pending.
	SettlementID string `json:"settlementId,omitempty"`
	PaidAt       string `json:"paidAt,omitempty"`
}

// DriverRateEntry is one day of pay owed to a driver.
type DriverRateEntry struct {
	ID           ID              `json:"id"`
	Kind         LedgerKind      `json:"kind"`
	DriverID     ID              `json:"driverId"`
	PackageID    ID              `json:"packageId,omitempty"` // 0 for pure manual entries
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         bool            `json:"paid"`
	IsSubstitute bool            `json:"isSubstitute"`
}

// ValidationResult is the availability verdict for a candidate booking.
// Conflicts are data, not errors; each entry reads "YYYY-MM-DD: reason".
type ValidationResult struct {
	IsValid          bool     `json:"isValid"`
	VehicleConflicts []string `json:"vehicleConflicts"`
	DriverConflicts  []string `json:"driverConflicts"`
}

// DailyFinancialBreakdown is one day of a package's money picture.
type DailyFinancialBreakdown struct {
	Date                 string          `json:"date"`
	DailyServiceRate     decimal.Decimal `json:"dailyServiceRate"`
	TotalNet             decimal.Decimal `json:"totalNet"`
	DriverDailyCost      decimal.Decimal `json:"driverDailyCost"`
	TotalVehicleExpenses decimal.Decimal `json:"totalVehicleExpenses"`
	DailyRevenue         decimal.Decimal `json:"dailyRevenue"`
	DailyCost            decimal.Decimal `json:"dailyCost"`
	DailyMargin          decimal.Decimal `json:"dailyMargin"`
}

// PackageFinancialSummary aggregates the per-day breakdown. The per-day
// fields sum exactly to the totals.
type PackageFinancialSummary struct {
	PackageID ID        `json:"packageId"`
	AgencyID  ID        `json:"agencyId"`
	Period    DateRange `json:"period"`

	TotalServiceRate     decimal.Decimal `json:"totalServiceRate"`
	TotalNet             decimal.Decimal `json:"totalNet"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	TotalDriverCost      decimal.Decimal `json:"totalDriverCost"`
	TotalVehicleExpenses decimal.Decimal `json:"totalVehicleExpenses"`
	TotalCosts           decimal.Decimal `json:"totalCosts"`
	GrossMargin          decimal.Decimal `json:"grossMargin"`
	MarginPercentage     decimal.Decimal `json:"marginPercentage"`

	Daily []DailyFinancialBreakdown `json:"dailyBreakdown"`
}

type SettlementStatus string

const (
	SettlementPendente SettlementStatus = "Pendente"
	SettlementParcial  SettlementStatus = "Parcial"
	SettlementPago     SettlementStatus = "Pago"
)

// AgencyChargeDay is one day of an agency's charge ledger within a period.
type AgencyChargeDay struct {
	Date       string          `json:"date"`
	TotalValue decimal.Decimal `json:"totalValue"`
	PaidValue  decimal.Decimal `json:"paidValue"`
	EntryIDs   []ID            `json:"entryIds"`
}

// AgencySettlementView is computed from the charge ledger, never stored.
type AgencySettlementView struct {
	AgencyID ID        `json:"agencyId"`
	Period   DateRange `json:"period"`

	TotalValueToPay decimal.Decimal  `json:"totalValueToPay"`
	TotalValuePaid  decimal.Decimal  `json:"totalValuePaid"`
	Status          SettlementStatus `json:"settlementStatus"`

	// SettlementIDs are the charge ids flipped by the most recent pay
	// action, kept so that exactly that batch can be reversed.
	SettlementIDs []ID `json:"settlementIds"`

	Daily []AgencyChargeDay `json:"dailyBreakdown"`
}

// SettlementReceipt reports what one SettlePeriod call actually flipped.
type SettlementReceipt struct {
	BatchID    string           `json:"batchId"`
	AgencyID   ID               `json:"agencyId"`
	Period     DateRange        `json:"period"`
	PaidAmount decimal.Decimal  `json:"paidAmount"`
	FlippedIDs []ID             `json:"flippedIds"`
	Status     SettlementStatus `json:"status"`
}

// CancelReceipt reports which ids a CancelSettlement call asked to revert.
// Unknown or already-pending ids are skipped by the store, so a retry of the
// same cancellation is a no-op.
type CancelReceipt struct {
	RevertedIDs []ID `json:"revertedIds"`
}
