package services

import (
	"context"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/utils"
)

// BookingStore is the write side of the package lifecycle.
type BookingStore interface {
	Insert(ctx context.Context, p domain.Package) (domain.ID, error)
	UpdateStatus(ctx context.Context, id domain.ID, status domain.PackageStatus) error
}

// BookingService runs the booking control flow: validate availability, then
// persist the package with its activities and invalidate any cached
// financial summaries touched by the change.
type BookingService struct {
	Availability AvailabilityService
	Packages     BookingStore

	// Invalidate drops cached summaries by key prefix. Wired to the TTL
	// cache at bootstrap; nil disables invalidation.
	Invalidate func(prefix string)

	RequestID string
}

// CreateBooking validates the candidate package and persists it when clean.
// A rejection is data, not an error: the zero ID plus the conflict-bearing
// ValidationResult come back with a nil error.
func (s BookingService) CreateBooking(ctx context.Context, pkg domain.Package) (domain.ID, domain.ValidationResult, error) {
	var zero domain.ValidationResult

	if pkg.AgencyID == 0 {
		return 0, zero, domain.ValidationError{Field: "agencyId", Msg: "required"}
	}
	if !utils.ValidDate(pkg.StartDate) || !utils.ValidDate(pkg.EndDate) {
		return 0, zero, domain.ValidationError{Field: "dateRange", Msg: "start and end must be YYYY-MM-DD"}
	}
	if pkg.EndDate < pkg.StartDate {
		return 0, zero, domain.ValidationError{Field: "dateRange", Msg: "end before start"}
	}
	for i, a := range pkg.Activities {
		if a.ScheduledDate < pkg.StartDate || a.ScheduledDate > pkg.EndDate {
			return 0, zero, domain.ValidationError{
				Field: fmt.Sprintf("activities[%d].scheduledDate", i),
				Msg:   "outside package date range",
			}
		}
	}
	if pkg.Status == "" {
		pkg.Status = domain.PackagePending
	}

	result, err := s.Availability.Validate(ctx, pkg.VehicleID, pkg.DriverID, pkg.Activities, 0)
	if err != nil {
		return 0, zero, err
	}
	if !result.IsValid {
		utils.LogEvent(s.RequestID, "booking", "create",
			fmt.Sprintf("rejected vehicle=%d driver=%d conflicts=%d/%d",
				pkg.VehicleID, pkg.DriverID, len(result.VehicleConflicts), len(result.DriverConflicts)))
		return 0, result, nil
	}

	id, err := s.Packages.Insert(ctx, pkg)
	if err != nil {
		return 0, zero, err
	}
	s.invalidatePackage(id)

	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("package=%d agency=%d", id, pkg.AgencyID))
	return id, result, nil
}

// TransitionStatus moves a package through its lifecycle and drops its
// cached summaries, since committed status changes what the availability
// and finance reads see.
func (s BookingService) TransitionStatus(ctx context.Context, id domain.ID, status domain.PackageStatus) error {
	switch status {
	case domain.PackagePending, domain.PackageConfirmed, domain.PackageInProgress,
		domain.PackageCompleted, domain.PackageCancelled:
	default:
		return domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", status)}
	}

	if err := s.Packages.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidatePackage(id)

	utils.LogEvent(s.RequestID, "booking", "transition", fmt.Sprintf("package=%d status=%s", id, status))
	return nil
}

func (s BookingService) invalidatePackage(id domain.ID) {
	if s.Invalidate != nil {
		s.Invalidate(FinanceCacheKeyPrefix(id))
	}
}
