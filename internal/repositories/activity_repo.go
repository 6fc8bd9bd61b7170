package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"backoffice/internal/domain"
)

type ActivityRepository struct {
	DB *sql.DB
}

// FetchForResource returns committed activities occupying a vehicle or
// driver on the given dates. Only packages with status confirmed or
// in_progress block a resource.
func (r ActivityRepository) FetchForResource(ctx context.Context, resource domain.ResourceType, resourceID domain.ID, dates []string, excludePackageID domain.ID) ([]domain.Activity, error) {
	if len(dates) == 0 {
		return []domain.Activity{}, nil
	}

	var resourceCol string
	switch resource {
	case domain.ResourceVehicle:
		resourceCol = "p.vehicle_id"
	case domain.ResourceDriver:
		resourceCol = "p.driver_id"
	default:
		return nil, domain.ValidationError{Field: "resource", Msg: fmt.Sprintf("unknown resource type %q", resource)}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	args := make([]any, 0, len(dates)+2)
	args = append(args, resourceID)
	for _, d := range dates {
		args = append(args, d)
	}

	query := fmt.Sprintf(`
        SELECT a.id, a.package_id, a.attraction_id, COALESCE(att.name, ''),
               DATE_FORMAT(a.scheduled_date, '%%Y-%%m-%%d'),
               COALESCE(a.start_time, ''),
               COALESCE(NULLIF(a.duration_minutes, 0), att.duration_minutes, 0),
               a.consider_net_value,
               COALESCE(att.net_value, 0)
        FROM activities a
        JOIN packages p ON p.id = a.package_id
        LEFT JOIN attractions att ON att.id = a.attraction_id
        WHERE %s = ?
          AND p.status IN ('confirmed', 'in_progress')
          AND a.scheduled_date IN (%s)`, resourceCol, placeholders)

	if excludePackageID != 0 {
		query += " AND a.package_id <> ?"
		args = append(args, excludePackageID)
	}
	query += " ORDER BY a.scheduled_date ASC, a.start_time ASC, a.id ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "fetch activities", Err: err}
	}
	defer rows.Close()

	out := []domain.Activity{}
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
		); err != nil {
			return nil, domain.UnavailableError{Op: "scan activity", Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "fetch activities", Err: err}
	}
	return out, nil
}
