package repositories

import (
	"context"
	"database/sql"

	"backoffice/internal/domain"
)

// LedgerStore is the persistence contract consumed by the engine services.
// Implementations must surface access failures as errors; returning empty
// results on failure is never acceptable (a missed conflict double-books a
// vehicle, a missed charge corrupts a settlement).
type LedgerStore interface {
	// FetchActivitiesForResource returns committed activities (package
	// status confirmed or in_progress) occupying the resource on the given
	// dates. excludePackageID, when non-zero, removes a package's own
	// activities so an in-place edit does not conflict with itself.
	FetchActivitiesForResource(ctx context.Context, resource domain.ResourceType, resourceID domain.ID, dates []string, excludePackageID domain.ID) ([]domain.Activity, error)

	// FetchVehicleExpenses returns all expenses for the vehicle inside the
	// window, any category.
	FetchVehicleExpenses(ctx context.Context, vehicleID domain.ID, window domain.DateRange) ([]domain.VehicleExpense, error)

	// FetchPackage returns the package with the driver's daily rate and its
	// activities (attraction net values joined).
	FetchPackage(ctx context.Context, id domain.ID) (domain.Package, error)

	// FetchAgencyCharges returns the agency's ledger entries inside the
	// window, paid and pending alike.
	FetchAgencyCharges(ctx context.Context, agencyID domain.ID, window domain.DateRange) ([]domain.LedgerEntry, error)

	// PersistSettlementFlip atomically marks the given pending charges paid
	// under batchID. Either every id flips or none does.
	PersistSettlementFlip(ctx context.Context, agencyID domain.ID, window domain.DateRange, batchID string, chargeIDs []domain.ID) error

	// RevertSettlementFlip atomically returns the given charges to pending.
	RevertSettlementFlip(ctx context.Context, chargeIDs []domain.ID) error
}

// MySQLLedgerStore implements LedgerStore over the shared MySQL pool.
type MySQLLedgerStore struct {
	Activities ActivityRepository
	Packages   PackageRepository
	Expenses   VehicleExpenseRepository
	Charges    SettlementRepository
}

func NewMySQLLedgerStore(db *sql.DB) *MySQLLedgerStore {
	return &MySQLLedgerStore{
		Activities: ActivityRepository{DB: db},
		Packages:   PackageRepository{DB: db},
		Expenses:   VehicleExpenseRepository{DB: db},
		Charges:    SettlementRepository{DB: db},
	}
}

func (s *MySQLLedgerStore) FetchActivitiesForResource(ctx context.Context, resource domain.ResourceType, resourceID domain.ID, dates []string, excludePackageID domain.ID) ([]domain.Activity, error) {
	return s.Activities.FetchForResource(ctx, resource, resourceID, dates, excludePackageID)
}

func (s *MySQLLedgerStore) FetchVehicleExpenses(ctx context.Context, vehicleID domain.ID, window domain.DateRange) ([]domain.VehicleExpense, error) {
	return s.Expenses.ListForVehicle(ctx, vehicleID, window)
}

func (s *MySQLLedgerStore) FetchPackage(ctx context.Context, id domain.ID) (domain.Package, error) {
	return s.Packages.GetByID(ctx, id)
}

func (s *MySQLLedgerStore) FetchAgencyCharges(ctx context.Context, agencyID domain.ID, window domain.DateRange) ([]domain.LedgerEntry, error) {
	return s.Charges.FetchAgencyCharges(ctx, agencyID, window)
}

func (s *MySQLLedgerStore) PersistSettlementFlip(ctx context.Context, agencyID domain.ID, window domain.DateRange, batchID string, chargeIDs []domain.ID) error {
	return s.Charges.PersistSettlementFlip(ctx, agencyID, window, batchID, chargeIDs)
}

func (s *MySQLLedgerStore) RevertSettlementFlip(ctx context.Context, chargeIDs []domain.ID) error {
	return s.Charges.RevertSettlementFlip(ctx, chargeIDs)
}
