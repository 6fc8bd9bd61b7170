package repositories

import (
	"context"
	"database/sql"

	"backoffice/internal/domain"
)

type PackageRepository struct {
	DB *sql.DB
}

// GetByID loads the package with the driver's daily rate joined, plus its
// activities with attraction net values.
func (r PackageRepository) GetByID(ctx context.Context, id domain.ID) (domain.Package, error) {
	var p domain.Package

	err := r.DB.QueryRowContext(ctx, `
        SELECT p.id, p.agency_id, p.vehicle_id, p.driver_id,
               DATE_FORMAT(p.start_date, '%Y-%m-%d'),
               DATE_FORMAT(p.end_date, '%Y-%m-%d'),
               p.status, p.daily_service_rate, p.consider_driver_daily_cost,
               COALESCE(d.daily_rate, 0),
               COALESCE(p.notes, '')
        FROM packages p
        LEFT JOIN drivers d ON d.id = p.driver_id
        WHERE p.id = ?`, id).Scan(
		&p.ID,
		&p.AgencyID,
		&p.VehicleID,
		&p.DriverID,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.DailyServiceRate,
		&p.ConsiderDriverDailyCost,
		&p.DriverDailyRate,
		&p.Notes,
	)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "package"}
	}
	if err != nil {
		return p, domain.UnavailableError{Op: "fetch package", Err: err}
	}

	rows, err := r.DB.QueryContext(ctx, `
        SELECT a.id, a.package_id, a.attraction_id, COALESCE(att.name, ''),
               DATE_FORMAT(a.scheduled_date, '%Y-%m-%d'),
               COALESCE(a.start_time, ''),
               COALESCE(NULLIF(a.duration_minutes, 0), att.duration_minutes, 0),
               a.consider_net_value,
               COALESCE(att.net_value, 0),
               COALESCE(a.notes, '')
        FROM activities a
        LEFT JOIN attractions att ON att.id = a.attraction_id
        WHERE a.package_id = ?
        ORDER BY a.scheduled_date ASC, a.start_time ASC, a.id ASC`, id)
	if err != nil {
		return p, domain.UnavailableError{Op: "fetch package activities", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(
			&a.ID,
			&a.PackageID,
			&a.AttractionID,
			&a.AttractionName,
			&a.ScheduledDate,
			&a.StartTime,
			&a.DurationMinutes,
			&a.ConsiderNetValue,
			&a.NetValue,
			&a.Notes,
		); err != nil {
			return p, domain.UnavailableError{Op: "scan package activity", Err: err}
		}
		p.Activities = append(p.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return p, domain.UnavailableError{Op: "fetch package activities", Err: err}
	}
	return p, nil
}

// Insert persists a package and its activities in one transaction.
func (r PackageRepository) Insert(ctx context.Context, p domain.Package) (domain.ID, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.UnavailableError{Op: "begin insert package", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO packages
            (agency_id, vehicle_id, driver_id, start_date, end_date, status,
             daily_service_rate, consider_driver_daily_cost, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AgencyID, p.VehicleID, p.DriverID, p.StartDate, p.EndDate, p.Status,
		p.DailyServiceRate, p.ConsiderDriverDailyCost, p.Notes)
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert package", Err: err}
	}
	pkgID, err := res.LastInsertId()
	if err != nil {
		return 0, domain.UnavailableError{Op: "insert package", Err: err}
	}

	for _, a := range p.Activities {
		var startTime any
		if a.StartTime != "" {
			startTime = a.StartTime
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO activities
                (package_id, attraction_id, scheduled_date, start_time,
                 duration_minutes, consider_net_value, notes)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pkgID, a.AttractionID, a.ScheduledDate, startTime,
			a.DurationMinutes, a.ConsiderNetValue, a.Notes); err != nil {
			return 0, domain.UnavailableError{Op: "insert activity", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.UnavailableError{Op: "commit insert package", Err: err}
	}
	return domain.ID(pkgID), nil
}

// UpdateStatus moves a package through its lifecycle.
func (r PackageRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.PackageStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE packages SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return domain.UnavailableError{Op: "update package status", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "package"}
	}
	return nil
}
