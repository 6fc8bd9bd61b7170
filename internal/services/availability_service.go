package services

import (
	"context"
	"fmt"
	"sort"

	"backoffice/internal/domain"
	"backoffice/internal/utils"
)

// OverlapBufferMinutes pads every hourly activity: a resource is blocked
// from 30 minutes before the start until 30 minutes after the computed end.
const OverlapBufferMinutes = 30

// AvailabilityStore is the slice of the ledger store the validator needs.
type AvailabilityStore interface {
	FetchActivitiesForResource(ctx context.Context, resource domain.ResourceType, resourceID domain.ID, dates []string, excludePackageID domain.ID) ([]domain.Activity, error)
}

// AvailabilityService decides whether a candidate vehicle+driver+activity
// set can be booked without colliding with committed bookings. It never
// mutates state; conflicts come back as per-date strings so screens can show
// the precise reason.
type AvailabilityService struct {
	Store     AvailabilityStore
	RequestID string
}

// Validate checks the candidate activities against committed bookings for
// both the vehicle and the driver. The two checks are independent; both
// sides may report conflicts for the same date. A store failure aborts the
// whole validation — it is never reported as "no conflict".
func (s AvailabilityService) Validate(ctx context.Context, vehicleID, driverID domain.ID, candidates []domain.Activity, excludePackageID domain.ID) (domain.ValidationResult, error) {
	result := domain.ValidationResult{
		IsValid:          true,
		VehicleConflicts: []string{},
		DriverConflicts:  []string{},
	}

	if vehicleID == 0 {
		return result, domain.ValidationError{Field: "vehicleId", Msg: "required"}
	}
	if driverID == 0 {
		return result, domain.ValidationError{Field: "driverId", Msg: "required"}
	}

	byDate, dates, err := groupCandidatesByDate(candidates)
	if err != nil {
		return result, err
	}
	if len(dates) == 0 {
		return result, nil
	}

	vehicleConflicts, err := s.checkResource(ctx, domain.ResourceVehicle, vehicleID, byDate, dates, excludePackageID)
	if err != nil {
		return result, err
	}
	driverConflicts, err := s.checkResource(ctx, domain.ResourceDriver, driverID, byDate, dates, excludePackageID)
	if err != nil {
		return result, err
	}

	result.VehicleConflicts = vehicleConflicts
	result.DriverConflicts = driverConflicts
	result.IsValid = len(vehicleConflicts) == 0 && len(driverConflicts) == 0

	utils.LogEvent(s.RequestID, "availability", "validate",
		fmt.Sprintf("vehicle=%d driver=%d dates=%d valid=%t", vehicleID, driverID, len(dates), result.IsValid))
	return result, nil
}

func (s AvailabilityService) checkResource(ctx context.Context, resource domain.ResourceType, resourceID domain.ID, byDate map[string][]domain.Activity, dates []string, excludePackageID domain.ID) ([]string, error) {
	existing, err := s.Store.FetchActivitiesForResource(ctx, resource, resourceID, dates, excludePackageID)
	if err != nil {
		return nil, err
	}

	existingByDate := make(map[string][]domain.Activity)
	for _, a := range existing {
		existingByDate[a.ScheduledDate] = append(existingByDate[a.ScheduledDate], a)
	}

	conflicts := []string{}
	for _, date := range dates {
		if msg := checkDate(date, existingByDate[date], byDate[date]); msg != "" {
			conflicts = append(conflicts, msg)
		}
	}
	return conflicts, nil
}

// checkDate applies the per-date rules in order:
//  1. an existing full-day reservation blocks everything;
//  2. a candidate full-day entry cannot share its date with anything else,
//     existing or candidate;
//  3. otherwise all entries are hourly: merge, sort by start, and reject a
//     start that falls before the previous entry's buffered end.
func checkDate(date string, existing, candidates []domain.Activity) string {
	for _, a := range existing {
		if a.FullDay() {
			return fmt.Sprintf("%s: full-day reservation exists", date)
		}
	}

	candidateFullDay := false
	for _, a := range candidates {
		if a.FullDay() {
			candidateFullDay = true
			break
		}
	}
	// A full-day candidate demands the whole date for itself: it conflicts
	// with existing rows and with any sibling candidate on the same date.
	if candidateFullDay && (len(existing) > 0 || len(candidates) > 1) {
		return fmt.Sprintf("%s: cannot add full-day booking over existing activities", date)
	}

	type window struct {
		start int
		end   int // start + duration, before trailing buffer
	}
	windows := make([]window, 0, len(existing)+len(candidates))
	for _, a := range append(append([]domain.Activity{}, existing...), candidates...) {
		if a.FullDay() {
			continue
		}
		start, err := utils.ParseClock(a.StartTime)
		if err != nil {
			// Committed rows are validated on write; candidates are
			// validated in groupCandidatesByDate. Reaching this means a
			// malformed stored row, treated as occupying nothing.
			continue
		}
		windows = append(windows, window{start: start, end: start + a.DurationMinutes})
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })

	// The blocked window of the current entry is half-open:
	// [start-buffer, end+buffer). Only the next entry's raw start is tested
	// against it, matching the settled booking-screen behavior; see
	// DESIGN.md on the asymmetric buffer.
	for i := 0; i+1 < len(windows); i++ {
		blockedUntil := windows[i].end + OverlapBufferMinutes
		if windows[i+1].start < blockedUntil {
			return fmt.Sprintf("%s: time overlap with buffer", date)
		}
	}
	return ""
}

func groupCandidatesByDate(candidates []domain.Activity) (map[string][]domain.Activity, []string, error) {
	byDate := make(map[string][]domain.Activity)
	for i, a := range candidates {
		if !utils.ValidDate(a.ScheduledDate) {
			return nil, nil, domain.ValidationError{
				Field: fmt.Sprintf("activities[%d].scheduledDate", i),
				Msg:   fmt.Sprintf("invalid date %q", a.ScheduledDate),
			}
		}
		if a.ConsiderNetValue {
			if _, err := utils.ParseClock(a.StartTime); err != nil {
				return nil, nil, domain.ValidationError{
					Field: fmt.Sprintf("activities[%d].startTime", i),
					Msg:   "required for hourly (NET) activities",
				}
			}
		}
		byDate[a.ScheduledDate] = append(byDate[a.ScheduledDate], a)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return byDate, dates, nil
}
