package services

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/domain"

	"github.com/shopspring/decimal"
)

type fakeFinanceStore struct {
	pkg          domain.Package
	expenses     []domain.VehicleExpense
	packageCalls int
}

func (f *fakeFinanceStore) FetchPackage(_ context.Context, _ domain.ID) (domain.Package, error) {
	f.packageCalls++
	return f.pkg, nil
}

func (f *fakeFinanceStore) FetchVehicleExpenses(_ context.Context, _ domain.ID, window domain.DateRange) ([]domain.VehicleExpense, error) {
	var out []domain.VehicleExpense
	for _, e := range f.expenses {
		if window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func money(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func twoDayPackage() domain.Package {
	return domain.Package{
		ID:                      10,
		AgencyID:                3,
		VehicleID:               5,
		DriverID:                7,
		StartDate:               "2024-10-01",
		EndDate:                 "2024-10-02",
		Status:                  domain.PackageConfirmed,
		DailyServiceRate:        money("100"),
		ConsiderDriverDailyCost: true,
		DriverDailyRate:         money("50"),
		Activities: []domain.Activity{
			{ScheduledDate: "2024-10-01", ConsiderNetValue: false},
			{ScheduledDate: "2024-10-02", ConsiderNetValue: false},
		},
	}
}

func TestReconcileTwoDayScenario(t *testing.T) {
	store := &fakeFinanceStore{
		pkg: twoDayPackage(),
		expenses: []domain.VehicleExpense{
			{VehicleID: 5, Category: "fuel", Amount: money("75"), Date: "2024-10-01"},
		},
	}
	svc := FinanceService{Store: store, Cache: cache.New(0)}

	sum, err := svc.Reconcile(context.Background(), 10, domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sum.TotalRevenue.Equal(money("200")) {
		t.Fatalf("total revenue = %s, want 200", sum.TotalRevenue)
	}
	if !sum.TotalCosts.Equal(money("175")) {
		t.Fatalf("total costs = %s, want 175", sum.TotalCosts)
	}
	if !sum.GrossMargin.Equal(money("25")) {
		t.Fatalf("gross margin = %s, want 25", sum.GrossMargin)
	}
	if len(sum.Daily) != 2 {
		t.Fatalf("daily rows = %d, want 2", len(sum.Daily))
	}

	day1 := sum.Daily[0]
	if day1.Date != "2024-10-01" {
		t.Fatalf("first day = %s", day1.Date)
	}
	if !day1.DailyCost.Equal(money("125")) { // 50 driver + 75 expense
		t.Fatalf("day1 cost = %s, want 125", day1.DailyCost)
	}
}

func TestReconcileDailySumsMatchTotals(t *testing.T) {
	store := &fakeFinanceStore{
		pkg: domain.Package{
			ID:                      11,
			VehicleID:               5,
			StartDate:               "2024-10-01",
			EndDate:                 "2024-10-04",
			DailyServiceRate:        money("123.45"),
			ConsiderDriverDailyCost: true,
			DriverDailyRate:         money("67.89"),
			Activities: []domain.Activity{
				{ScheduledDate: "2024-10-01", ConsiderNetValue: false},
				{ScheduledDate: "2024-10-02", ConsiderNetValue: true, StartTime: "09:00", NetValue: money("33.33")},
				{ScheduledDate: "2024-10-02", ConsiderNetValue: true, StartTime: "14:00", NetValue: money("33.33")},
				{ScheduledDate: "2024-10-03", ConsiderNetValue: false},
			},
		},
		expenses: []domain.VehicleExpense{
			{VehicleID: 5, Category: "toll", Amount: money("10.01"), Date: "2024-10-02"},
			{VehicleID: 5, Category: "fuel", Amount: money("99.99"), Date: "2024-10-04"},
		},
	}
	svc := FinanceService{Store: store, Cache: cache.New(0)}

	sum, err := svc.Reconcile(context.Background(), 11, domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	revenue := decimal.Zero
	costs := decimal.Zero
	for _, d := range sum.Daily {
		revenue = revenue.Add(d.DailyRevenue)
		costs = costs.Add(d.DailyCost)
	}
	if !revenue.Equal(sum.TotalRevenue) {
		t.Fatalf("sum of daily revenue %s != total %s", revenue, sum.TotalRevenue)
	}
	if !costs.Equal(sum.TotalCosts) {
		t.Fatalf("sum of daily cost %s != total %s", costs, sum.TotalCosts)
	}
}

func TestReconcileExpenseOnlyDayAppears(t *testing.T) {
	store := &fakeFinanceStore{
		pkg: domain.Package{
			ID:        12,
			VehicleID: 5,
			StartDate: "2024-10-01",
			EndDate:   "2024-10-03",
			Activities: []domain.Activity{
				{ScheduledDate: "2024-10-01", ConsiderNetValue: false},
			},
			DailyServiceRate: money("100"),
		},
		expenses: []domain.VehicleExpense{
			{VehicleID: 5, Category: "parking", Amount: money("20"), Date: "2024-10-03"},
		},
	}
	svc := FinanceService{Store: store, Cache: cache.New(0)}

	sum, err := svc.Reconcile(context.Background(), 12, domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sum.Daily) != 2 {
		t.Fatalf("daily rows = %d, want 2", len(sum.Daily))
	}
	last := sum.Daily[1]
	if last.Date != "2024-10-03" || !last.DailyRevenue.IsZero() || !last.DailyCost.Equal(money("20")) {
		t.Fatalf("expense-only day wrong: %+v", last)
	}
}

// The flat daily rate is charged once per day with a full-day activity, not
// per activity; NET values repeat per activity; the driver daily cost lands
// on any day with at least one activity of either billing mode.
func TestReconcileRateChargingRules(t *testing.T) {
	store := &fakeFinanceStore{
		pkg: domain.Package{
			ID:                      13,
			VehicleID:               5,
			StartDate:               "2024-10-01",
			EndDate:                 "2024-10-02",
			DailyServiceRate:        money("100"),
			ConsiderDriverDailyCost: true,
			DriverDailyRate:         money("50"),
			Activities: []domain.Activity{
				// Two full-day rows on the same day: rate still charged once.
				{ScheduledDate: "2024-10-01", ConsiderNetValue: false},
				{ScheduledDate: "2024-10-01", ConsiderNetValue: false},
				// NET-only day: no daily rate, but driver cost applies.
				{ScheduledDate: "2024-10-02", ConsiderNetValue: true, StartTime: "09:00", NetValue: money("40")},
				{ScheduledDate: "2024-10-02", ConsiderNetValue: true, StartTime: "14:00", NetValue: money("40")},
			},
		},
	}
	svc := FinanceService{Store: store, Cache: cache.New(0)}

	sum, err := svc.Reconcile(context.Background(), 13, domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day1, day2 := sum.Daily[0], sum.Daily[1]
	if !day1.DailyRevenue.Equal(money("100")) {
		t.Fatalf("day1 revenue = %s, want 100", day1.DailyRevenue)
	}
	if !day2.DailyRevenue.Equal(money("80")) {
		t.Fatalf("day2 revenue = %s, want 80", day2.DailyRevenue)
	}
	if !day2.DriverDailyCost.Equal(money("50")) {
		t.Fatalf("day2 driver cost = %s, want 50 (charged on NET-billed days too)", day2.DriverDailyCost)
	}
}

func TestReconcileZeroRevenueHasZeroMarginPercentage(t *testing.T) {
	store := &fakeFinanceStore{
		pkg: domain.Package{ID: 14, VehicleID: 5, StartDate: "2024-10-01", EndDate: "2024-10-01"},
		expenses: []domain.VehicleExpense{
			{VehicleID: 5, Category: "fuel", Amount: money("30"), Date: "2024-10-01"},
		},
	}
	svc := FinanceService{Store: store, Cache: cache.New(0)}

	sum, err := svc.Reconcile(context.Background(), 14, domain.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.MarginPercentage.IsZero() {
		t.Fatalf("margin percentage = %s, want 0", sum.MarginPercentage)
	}
}

func TestReconcileUsesCacheUntilInvalidated(t *testing.T) {
	store := &fakeFinanceStore{pkg: twoDayPackage()}
	c := cache.New(time.Minute)
	svc := FinanceService{Store: store, Cache: c}

	if _, err := svc.Reconcile(context.Background(), 10, domain.DateRange{}); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	if _, err := svc.Reconcile(context.Background(), 10, domain.DateRange{}); err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if store.packageCalls != 1 {
		t.Fatalf("package fetched %d times, want 1 (cached)", store.packageCalls)
	}

	c.InvalidatePrefix(FinanceCacheKeyPrefix(10))
	if _, err := svc.Reconcile(context.Background(), 10, domain.DateRange{}); err != nil {
		t.Fatalf("third call error: %v", err)
	}
	if store.packageCalls != 2 {
		t.Fatalf("package fetched %d times after invalidation, want 2", store.packageCalls)
	}
}
