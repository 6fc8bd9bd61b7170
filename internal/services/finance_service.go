package services

import (
	"context"
	"fmt"
	"sort"

	"backoffice/internal/cache"
	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// FinanceStore is the slice of the ledger store the reconciler needs.
type FinanceStore interface {
	FetchPackage(ctx context.Context, id domain.ID) (domain.Package, error)
	FetchVehicleExpenses(ctx context.Context, vehicleID domain.ID, window domain.DateRange) ([]domain.VehicleExpense, error)
}

// FinanceService produces the day-by-day revenue/cost breakdown for a
// package. Purely a read/aggregate: no side effects, deterministic for
// identical inputs, and the per-day fields always sum exactly to the totals.
type FinanceService struct {
	Store     FinanceStore
	Cache     *cache.TTLCache
	RequestID string
}

// FinanceCacheKeyPrefix builds the invalidation prefix for one package's
// cached summaries (all windows).
func FinanceCacheKeyPrefix(packageID domain.ID) string {
	return fmt.Sprintf("finsum:%d:", packageID)
}

func financeCacheKey(packageID domain.ID, window domain.DateRange) string {
	return fmt.Sprintf("finsum:%d:%s:%s", packageID, window.Start, window.End)
}

// Reconcile computes the financial summary for a package, optionally
// restricted to a date window. A zero-value window means the package's own
// date range.
func (s FinanceService) Reconcile(ctx context.Context, packageID domain.ID, window domain.DateRange) (domain.PackageFinancialSummary, error) {
	key := financeCacheKey(packageID, window)
	if v, ok := s.Cache.Get(key); ok {
		if summary, ok := v.(domain.PackageFinancialSummary); ok {
			return summary, nil
		}
	}

	pkg, err := s.Store.FetchPackage(ctx, packageID)
	if err != nil {
		return domain.PackageFinancialSummary{}, err
	}

	eff := window
	if eff.Start == "" {
		eff.Start = pkg.StartDate
	}
	if eff.End == "" {
		eff.End = pkg.EndDate
	}

	expenses, err := s.Store.FetchVehicleExpenses(ctx, pkg.VehicleID, eff)
	if err != nil {
		return domain.PackageFinancialSummary{}, err
	}

	summary := buildSummary(pkg, eff, expenses)
	s.Cache.Set(key, summary)

	utils.LogEvent(s.RequestID, "finance", "reconcile",
		fmt.Sprintf("package=%d days=%d revenue=%s", packageID, len(summary.Daily), summary.TotalRevenue.String()))
	return summary, nil
}

type dayAccumulator struct {
	hasFullDay  bool
	hasActivity bool
	totalNet    decimal.Decimal
	expenses    decimal.Decimal
}

func buildSummary(pkg domain.Package, window domain.DateRange, expenses []domain.VehicleExpense) domain.PackageFinancialSummary {
	days := make(map[string]*dayAccumulator)
	day := func(date string) *dayAccumulator {
		if d, ok := days[date]; ok {
			return d
		}
		d := &dayAccumulator{}
		days[date] = d
		return d
	}

	// A day appears if it has an activity or an expense; a day with only an
	// expense still shows up with zero revenue.
	for _, a := range pkg.Activities {
		if !window.Contains(a.ScheduledDate) {
			continue
		}
		d := day(a.ScheduledDate)
		d.hasActivity = true
		if a.FullDay() {
			d.hasFullDay = true
		} else {
			d.totalNet = d.totalNet.Add(a.NetValue)
		}
	}
	for _, e := range expenses {
		if !window.Contains(e.Date) {
			continue
		}
		d := day(e.Date)
		d.expenses = d.expenses.Add(e.Amount)
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	summary := domain.PackageFinancialSummary{
		PackageID: pkg.ID,
		AgencyID:  pkg.AgencyID,
		Period:    window,
		Daily:     make([]domain.DailyFinancialBreakdown, 0, len(dates)),
	}

	for _, date := range dates {
		d := days[date]
		row := domain.DailyFinancialBreakdown{
			Date:                 date,
			TotalNet:             d.totalNet,
			TotalVehicleExpenses: d.expenses,
		}

		// Flat per day, not per activity: charged once when the day has at
		// least one full-day entry.
		if d.hasFullDay {
			row.DailyServiceRate = pkg.DailyServiceRate
		}

		// Charged once on any day with >=1 activity of either billing
		// mode. Whether NET-billed days should carry it at all is an open
		// product question; this mirrors the settled screen behavior.
		if pkg.ConsiderDriverDailyCost && d.hasActivity {
			row.DriverDailyCost = pkg.DriverDailyRate
		}

		row.DailyRevenue = row.DailyServiceRate.Add(row.TotalNet)
		row.DailyCost = row.DriverDailyCost.Add(row.TotalVehicleExpenses)
		row.DailyMargin = row.DailyRevenue.Sub(row.DailyCost)
		summary.Daily = append(summary.Daily, row)

		summary.TotalServiceRate = summary.TotalServiceRate.Add(row.DailyServiceRate)
		summary.TotalNet = summary.TotalNet.Add(row.TotalNet)
		summary.TotalRevenue = summary.TotalRevenue.Add(row.DailyRevenue)
		summary.TotalDriverCost = summary.TotalDriverCost.Add(row.DriverDailyCost)
		summary.TotalVehicleExpenses = summary.TotalVehicleExpenses.Add(row.TotalVehicleExpenses)
		summary.TotalCosts = summary.TotalCosts.Add(row.DailyCost)
	}

	summary.GrossMargin = summary.TotalRevenue.Sub(summary.TotalCosts)
	if !summary.TotalRevenue.IsZero() {
		summary.MarginPercentage = summary.GrossMargin.
			Div(summary.TotalRevenue).
			Mul(decimal.NewFromInt(100))
	}
	return summary
}
