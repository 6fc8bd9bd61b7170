package repositories

import (
	"context"
	"database/sql"

	"backoffice/internal/domain"
)

type VehicleExpenseRepository struct {
	DB *sql.DB
}

// ListForVehicle returns all expenses for the vehicle inside the window,
// any category. Expenses exist independently of activities.
func (r VehicleExpenseRepository) ListForVehicle(ctx context.Context, vehicleID domain.ID, window domain.DateRange) ([]domain.VehicleExpense, error) {
	query := `
        SELECT id, vehicle_id, COALESCE(package_id, 0), category, amount,
               DATE_FORMAT(expense_date, '%Y-%m-%d')
        FROM vehicle_expenses
        WHERE vehicle_id = ?`
	args := []any{vehicleID}

	if window.Start != "" {
		query += " AND expense_date >= ?"
		args = append(args, window.Start)
	}
	if window.End != "" {
		query += " AND expense_date <= ?"
		args = append(args, window.End)
	}
	query += " ORDER BY expense_date ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "fetch vehicle expenses", Err: err}
	}
	defer rows.Close()

	out := []domain.VehicleExpense{}
	for rows.Next() {
		var e domain.VehicleExpense
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.PackageID, &e.Category, &e.Amount, &e.Date); err != nil {
			return nil, domain.UnavailableError{Op: "scan vehicle expense", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "fetch vehicle expenses", Err: err}
	}
	return out, nil
}

// Insert records one expense row.
func (r VehicleExpenseRepository) Insert(ctx context.Context, e domain.VehicleExpense) (domain.ID, error) {
	var packageID any
	if e.PackageID != 0 {
		packageID = e.PackageID
	}
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO vehicle_expenses (vehicle_id, package_id, category, amount, expense_date)
        VALUES (?, ?, ?, ?, ?)`,
		e.VehicleID, packageID, e.Category, e.Amount, e.Date)
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert vehicle expense", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert vehicle expense", Err: err}
	}
	return domain.ID(id), nil
}
