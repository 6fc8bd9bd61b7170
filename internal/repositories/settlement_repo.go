package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"backoffice/internal/domain"
)

type SettlementRepository struct {
	DB *sql.DB
}

// FetchAgencyCharges returns the agency's ledger entries inside the window,
// paid and pending alike, oldest first.
func (r SettlementRepository) FetchAgencyCharges(ctx context.Context, agencyID domain.ID, window domain.DateRange) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, kind, agency_id, COALESCE(package_id, 0),
               DATE_FORMAT(charge_date, '%Y-%m-%d'),
               COALESCE(description, ''), amount, paid,
               COALESCE(settlement_id, ''),
               COALESCE(DATE_FORMAT(paid_at, '%Y-%m-%d %H:%i:%s'), '')
        FROM agency_charges
        WHERE agency_id = ?`
	args := []any{agencyID}

	if window.Start != "" {
		query += " AND charge_date >= ?"
		args = append(args, window.Start)
	}
	if window.End != "" {
		query += " AND charge_date <= ?"
		args = append(args, window.End)
	}
	query += " ORDER BY charge_date ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "fetch agency charges", Err: err}
	}
	defer rows.Close()

	out := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.AgencyID,
			&e.PackageID,
			&e.Date,
			&e.Description,
			&e.Amount,
			&e.Paid,
			&e.SettlementID,
			&e.PaidAt,
		); err != nil {
			return nil, domain.UnavailableError{Op: "scan agency charge", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "fetch agency charges", Err: err}
	}
	return out, nil
}

// PersistSettlementFlip marks the given pending charges paid under batchID
// inside one transaction. If any id no longer matches a pending charge of
// this agency inside the window, nothing is written: the affected-row count
// must equal len(chargeIDs) or the whole flip rolls back.
func (r SettlementRepository) PersistSettlementFlip(ctx context.Context, agencyID domain.ID, window domain.DateRange, batchID string, chargeIDs []domain.ID) error {
	if len(chargeIDs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.UnavailableError{Op: "begin settlement flip", Err: err}
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
        UPDATE agency_charges
        SET paid = 1, settlement_id = ?, paid_at = NOW()
        WHERE agency_id = ? AND paid = 0 AND id IN (%s)`, idPlaceholders(len(chargeIDs)))
	args := []any{batchID, agencyID}
	for _, id := range chargeIDs {
		args = append(args, id)
	}
	if window.Start != "" {
		query += " AND charge_date >= ?"
		args = append(args, window.Start)
	}
	if window.End != "" {
		query += " AND charge_date <= ?"
		args = append(args, window.End)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.UnavailableError{Op: "settlement flip", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.UnavailableError{Op: "settlement flip", Err: err}
	}
	if n != int64(len(chargeIDs)) {
		return domain.ConflictError{
			Resource: "settlement",
			Msg:      fmt.Sprintf("expected to flip %d charges, matched %d", len(chargeIDs), n),
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UnavailableError{Op: "commit settlement flip", Err: err}
	}
	return nil
}

// RevertSettlementFlip returns the given charges to pending inside one
// transaction. Ids that are unknown or already pending are simply not
// matched; reverting fewer rows than requested is not an error, which keeps
// cancellation idempotent under retries.
func (r SettlementRepository) RevertSettlementFlip(ctx context.Context, chargeIDs []domain.ID) error {
	if len(chargeIDs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.UnavailableError{Op: "begin settlement revert", Err: err}
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
        UPDATE agency_charges
        SET paid = 0, settlement_id = NULL, paid_at = NULL
        WHERE paid = 1 AND id IN (%s)`, idPlaceholders(len(chargeIDs)))
	args := make([]any, 0, len(chargeIDs))
	for _, id := range chargeIDs {
		args = append(args, id)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.UnavailableError{Op: "settlement revert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.UnavailableError{Op: "commit settlement revert", Err: err}
	}
	return nil
}

// InsertCharge records a ledger entry (used for manual rows and by the
// booking flow when materializing automatic charges).
func (r SettlementRepository) InsertCharge(ctx context.Context, e domain.LedgerEntry) (domain.ID, error) {
	var packageID any
	if e.PackageID != 0 {
		packageID = e.PackageID
	}
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO agency_charges (kind, agency_id, package_id, charge_date, description, amount, paid)
        VALUES (?, ?, ?, ?, ?, ?, 0)`,
		e.Kind, e.AgencyID, packageID, e.Date, e.Description, e.Amount)
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert agency charge", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert agency charge", Err: err}
	}
	return domain.ID(id), nil
}

func idPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
