package services

import (
	"context"
	"testing"

	"backoffice/internal/domain"
)

type fakeDriverLedgerStore struct {
	entries  []domain.DriverRateEntry
	setPaid  [][]domain.ID
	lastPaid bool
	inserted []domain.DriverRateEntry
}

func (f *fakeDriverLedgerStore) ListForDriver(_ context.Context, driverID domain.ID, window domain.DateRange) ([]domain.DriverRateEntry, error) {
	var out []domain.DriverRateEntry
	for _, e := range f.entries {
		if e.DriverID == driverID && window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeDriverLedgerStore) SetPaid(_ context.Context, entryIDs []domain.ID, paid bool) error {
	f.setPaid = append(f.setPaid, entryIDs)
	f.lastPaid = paid
	return nil
}

func (f *fakeDriverLedgerStore) InsertManual(_ context.Context, e domain.DriverRateEntry) (domain.ID, error) {
	f.inserted = append(f.inserted, e)
	return domain.ID(len(f.inserted)), nil
}

func TestDriverLedgerTotals(t *testing.T) {
	store := &fakeDriverLedgerStore{entries: []domain.DriverRateEntry{
		{ID: 1, DriverID: 7, Date: "2024-10-01", Amount: money("50"), Paid: true},
		{ID: 2, DriverID: 7, Date: "2024-10-02", Amount: money("50")},
		{ID: 3, DriverID: 7, Date: "2024-10-03", Amount: money("80"), IsSubstitute: true},
	}}
	svc := DriverLedgerService{Store: store}

	sum, err := svc.Ledger(context.Background(), 7, "2024-10-01", "2024-10-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.TotalOwed.Equal(money("180")) {
		t.Fatalf("total owed = %s, want 180", sum.TotalOwed)
	}
	if !sum.TotalPaid.Equal(money("50")) {
		t.Fatalf("total paid = %s, want 50", sum.TotalPaid)
	}
	if len(sum.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(sum.Entries))
	}
}

func TestDriverLedgerRejectsBadWindow(t *testing.T) {
	svc := DriverLedgerService{Store: &fakeDriverLedgerStore{}}
	if _, err := svc.Ledger(context.Background(), 7, "bad", ""); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMarkPaidDedupesAndSkipsEmpty(t *testing.T) {
	store := &fakeDriverLedgerStore{}
	svc := DriverLedgerService{Store: store}

	if err := svc.MarkPaid(context.Background(), []domain.ID{2, 2, 0, 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.setPaid) != 1 || len(store.setPaid[0]) != 2 || !store.lastPaid {
		t.Fatalf("setPaid calls = %v paid=%t", store.setPaid, store.lastPaid)
	}

	if err := svc.MarkPaid(context.Background(), nil); err != nil {
		t.Fatalf("empty ids: %v", err)
	}
	if len(store.setPaid) != 1 {
		t.Fatalf("empty ids must not hit the store")
	}
}

func TestMarkUnpaidFlipsDirection(t *testing.T) {
	store := &fakeDriverLedgerStore{}
	svc := DriverLedgerService{Store: store}

	if err := svc.MarkUnpaid(context.Background(), []domain.ID{4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastPaid {
		t.Fatalf("MarkUnpaid must set paid=false")
	}
}

func TestAddManualEntryForcesManualKind(t *testing.T) {
	store := &fakeDriverLedgerStore{}
	svc := DriverLedgerService{Store: store}

	id, err := svc.AddManualEntry(context.Background(), domain.DriverRateEntry{
		Kind:     domain.LedgerAutomatic, // callers cannot forge automatic rows
		DriverID: 7,
		Date:     "2024-10-05",
		Amount:   money("80"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected an id")
	}
	if store.inserted[0].Kind != domain.LedgerManual {
		t.Fatalf("kind = %s, want manual", store.inserted[0].Kind)
	}
}

func TestAddManualEntryValidation(t *testing.T) {
	svc := DriverLedgerService{Store: &fakeDriverLedgerStore{}}

	if _, err := svc.AddManualEntry(context.Background(), domain.DriverRateEntry{Date: "2024-10-05"}); !domain.IsValidation(err) {
		t.Fatalf("missing driver: %v", err)
	}
	if _, err := svc.AddManualEntry(context.Background(), domain.DriverRateEntry{DriverID: 7, Date: "bad"}); !domain.IsValidation(err) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := svc.AddManualEntry(context.Background(), domain.DriverRateEntry{DriverID: 7, Date: "2024-10-05", Amount: money("-1")}); !domain.IsValidation(err) {
		t.Fatalf("negative amount: %v", err)
	}
}
