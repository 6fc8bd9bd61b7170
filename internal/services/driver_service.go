package services

import (
	"context"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// DriverLedgerStore is the persistence slice for driver daily-rate rows.
type DriverLedgerStore interface {
	ListForDriver(ctx context.Context, driverID domain.ID, window domain.DateRange) ([]domain.DriverRateEntry, error)
	SetPaid(ctx context.Context, entryIDs []domain.ID, paid bool) error
	InsertManual(ctx context.Context, e domain.DriverRateEntry) (domain.ID, error)
}

// DriverLedgerSummary is what the driver-accounts screen shows: the rows
// plus owed/paid totals for the period.
type DriverLedgerSummary struct {
	DriverID  domain.ID                `json:"driverId"`
	Period    domain.DateRange         `json:"period"`
	TotalOwed decimal.Decimal          `json:"totalOwed"`
	TotalPaid decimal.Decimal          `json:"totalPaid"`
	Entries   []domain.DriverRateEntry `json:"entries"`
}

// DriverLedgerService handles money owed to drivers: automatic daily-rate
// rows derived from committed packages plus manual override/substitute rows.
type DriverLedgerService struct {
	Store     DriverLedgerStore
	RequestID string
}

func (s DriverLedgerService) Ledger(ctx context.Context, driverID domain.ID, start, end string) (DriverLedgerSummary, error) {
	window := domain.DateRange{Start: start, End: end}
	if start != "" && !utils.ValidDate(start) {
		return DriverLedgerSummary{}, domain.ValidationError{Field: "start", Msg: fmt.Sprintf("invalid date %q", start)}
	}
	if end != "" && !utils.ValidDate(end) {
		return DriverLedgerSummary{}, domain.ValidationError{Field: "end", Msg: fmt.Sprintf("invalid date %q", end)}
	}

	entries, err := s.Store.ListForDriver(ctx, driverID, window)
	if err != nil {
		return DriverLedgerSummary{}, err
	}

	out := DriverLedgerSummary{DriverID: driverID, Period: window, Entries: entries}
	for _, e := range entries {
		out.TotalOwed = out.TotalOwed.Add(e.Amount)
		if e.Paid {
			out.TotalPaid = out.TotalPaid.Add(e.Amount)
		}
	}
	return out, nil
}

// MarkPaid flips the given rows to paid. Already-paid rows are skipped by
// the store, keeping retries idempotent.
func (s DriverLedgerService) MarkPaid(ctx context.Context, entryIDs []domain.ID) error {
	ids := dedupeIDs(entryIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := s.Store.SetPaid(ctx, ids, true); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "driver_ledger", "mark_paid", fmt.Sprintf("entries=%d", len(ids)))
	return nil
}

// MarkUnpaid reverts rows to unpaid, mirroring MarkPaid.
func (s DriverLedgerService) MarkUnpaid(ctx context.Context, entryIDs []domain.ID) error {
	ids := dedupeIDs(entryIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := s.Store.SetPaid(ctx, ids, false); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "driver_ledger", "mark_unpaid", fmt.Sprintf("entries=%d", len(ids)))
	return nil
}

// AddManualEntry records an override or substitute row. Kind is always
// manual; automatic rows are only ever derived from packages.
func (s DriverLedgerService) AddManualEntry(ctx context.Context, e domain.DriverRateEntry) (domain.ID, error) {
	if e.DriverID == 0 {
		return 0, domain.ValidationError{Field: "driverId", Msg: "required"}
	}
	if !utils.ValidDate(e.Date) {
		return 0, domain.ValidationError{Field: "date", Msg: fmt.Sprintf("invalid date %q", e.Date)}
	}
	if e.Amount.IsNegative() {
		return 0, domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	e.Kind = domain.LedgerManual

	id, err := s.Store.InsertManual(ctx, e)
	if err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "driver_ledger", "add_manual", fmt.Sprintf("driver=%d date=%s", e.DriverID, e.Date))
	return id, nil
}
