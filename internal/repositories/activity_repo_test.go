package repositories

import (
	"context"
	"testing"

	"backoffice/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func activityColumns() []string {
	return []string{
		"id", "package_id", "attraction_id", "name", "scheduled_date",
		"start_time", "duration_minutes", "consider_net_value", "net_value",
	}
}

func TestFetchForResourceVehicle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(activityColumns()).
		AddRow(1, 10, 3, "City Tour", "2024-10-10", "", 0, false, "0").
		AddRow(2, 11, 4, "Boat Trip", "2024-10-11", "09:00", 120, true, "150.00")

	mock.ExpectQuery("FROM activities a").
		WithArgs(int64(5), "2024-10-10", "2024-10-11").
		WillReturnRows(rows)

	repo := ActivityRepository{DB: db}
	acts, err := repo.FetchForResource(context.Background(), domain.ResourceVehicle, 5,
		[]string{"2024-10-10", "2024-10-11"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("got %d activities, want 2", len(acts))
	}
	if !acts[0].FullDay() {
		t.Fatalf("first activity should be full-day: %+v", acts[0])
	}
	if acts[1].FullDay() || acts[1].StartTime != "09:00" || acts[1].DurationMinutes != 120 {
		t.Fatalf("second activity wrong: %+v", acts[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFetchForResourcePassesExcludePackageID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM activities a").
		WithArgs(int64(7), "2024-10-10", int64(42)).
		WillReturnRows(sqlmock.NewRows(activityColumns()))

	repo := ActivityRepository{DB: db}
	acts, err := repo.FetchForResource(context.Background(), domain.ResourceDriver, 7,
		[]string{"2024-10-10"}, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(acts) != 0 {
		t.Fatalf("expected empty slice, got %v", acts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFetchForResourceEmptyDatesSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := ActivityRepository{DB: db}
	acts, err := repo.FetchForResource(context.Background(), domain.ResourceVehicle, 5, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(acts) != 0 {
		t.Fatalf("expected empty slice, got %v", acts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no SQL should run: %v", err)
	}
}

func TestFetchForResourceRejectsUnknownResource(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := ActivityRepository{DB: db}
	_, err = repo.FetchForResource(context.Background(), domain.ResourceType("boat"), 5, []string{"2024-10-10"}, 0)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFetchForResourceQueryFailureIsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM activities a").
		WillReturnError(context.DeadlineExceeded)

	repo := ActivityRepository{DB: db}
	_, err = repo.FetchForResource(context.Background(), domain.ResourceVehicle, 5, []string{"2024-10-10"}, 0)
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}
