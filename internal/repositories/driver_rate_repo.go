package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
)

type DriverRateRepository struct {
	DB *sql.DB
}

// ListForDriver returns the driver's daily-rate ledger inside the window,
// automatic and manual rows alike.
func (r DriverRateRepository) ListForDriver(ctx context.Context, driverID domain.ID, window domain.DateRange) ([]domain.DriverRateEntry, error) {
	query := `
        SELECT id, kind, driver_id, COALESCE(package_id, 0),
               DATE_FORMAT(rate_date, '%Y-%m-%d'), amount, paid, is_substitute
        FROM driver_rate_entries
        WHERE driver_id = ?`
	args := []any{driverID}

	if window.Start != "" {
		query += " AND rate_date >= ?"
		args = append(args, window.Start)
	}
	if window.End != "" {
		query += " AND rate_date <= ?"
		args = append(args, window.End)
	}
	query += " ORDER BY rate_date ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "fetch driver rates", Err: err}
	}
	defer rows.Close()

	out := []domain.DriverRateEntry{}
	for rows.Next() {
		var e domain.DriverRateEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.DriverID, &e.PackageID, &e.Date, &e.Amount, &e.Paid, &e.IsSubstitute); err != nil {
			return nil, domain.UnavailableError{Op: "scan driver rate", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "fetch driver rates", Err: err}
	}
	return out, nil
}

// SetPaid flips the paid flag on the given entries in one transaction.
// Rows already in the target state are not matched; that is not an error.
func (r DriverRateRepository) SetPaid(ctx context.Context, entryIDs []domain.ID, paid bool) error {
	if len(entryIDs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.UnavailableError{Op: "begin driver rate update", Err: err}
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`UPDATE driver_rate_entries SET paid = ? WHERE paid = ? AND id IN (%s)`,
		idPlaceholders(len(entryIDs)))
	args := []any{paid, !paid}
	for _, id := range entryIDs {
		args = append(args, id)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.UnavailableError{Op: "driver rate update", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.UnavailableError{Op: "commit driver rate update", Err: err}
	}
	return nil
}

// InsertManual records a manual override or substitute row. PackageID stays
// NULL for pure manual entries.
func (r DriverRateRepository) InsertManual(ctx context.Context, e domain.DriverRateEntry) (domain.ID, error) {
	var packageID any
	if e.PackageID != 0 {
		packageID = e.PackageID
	}
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO driver_rate_entries (kind, driver_id, package_id, rate_date, amount, paid, is_substitute)
        VALUES (?, ?, ?, ?, ?, 0, ?)`,
		domain.LedgerManual, e.DriverID, packageID, e.Date, e.Amount, e.IsSubstitute)
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert driver rate", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert driver rate", Err: err}
	}
	return domain.ID(id), nil
}
