package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// Repository reads marketplace records from Postgres. It implements
// contracts.RecordReader; all methods are read-only.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// FetchDuties returns duties created inside [window.Start, window.End).
func (r *Repository) FetchDuties(ctx context.Context, facilityID string, window contracts.Window) ([]contracts.Duty, error) {
	query := `
		SELECT id, facility_id, start_time, end_time, hourly_rate,
			specialty, urgent, status, COALESCE(assigned_personnel_id, ''), created_at
		FROM marketplace.duties
		WHERE facility_id = $1
			AND created_at >= $2
			AND created_at < $3
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, facilityID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query duties: %w", err)
	}
	defer rows.Close()

	return scanDuties(rows)
}

// FetchUpcomingDuties returns non-terminal duties scheduled to start in
// [from, to).
func (r *Repository) FetchUpcomingDuties(ctx context.Context, facilityID string, from, to time.Time) ([]contracts.Duty, error) {
	query := `
		SELECT id, facility_id, start_time, end_time, hourly_rate,
			specialty, urgent, status, COALESCE(assigned_personnel_id, ''), created_at
		FROM marketplace.duties
		WHERE facility_id = $1
			AND start_time >= $2
			AND start_time < $3
			AND status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY start_time, id
	`

	rows, err := r.db.Query(ctx, query, facilityID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query upcoming duties: %w", err)
	}
	defer rows.Close()

	return scanDuties(rows)
}

// FetchApplications returns applications created inside the window for the
// facility's duties.
func (r *Repository) FetchApplications(ctx context.Context, facilityID string, window contracts.Window) ([]contracts.Application, error) {
	query := `
		SELECT a.id, a.duty_id, a.personnel_id, a.status, a.created_at
		FROM marketplace.applications a
		JOIN marketplace.duties d ON d.id = a.duty_id
		WHERE d.facility_id = $1
			AND a.created_at >= $2
			AND a.created_at < $3
		ORDER BY a.created_at, a.id
	`

	rows, err := r.db.Query(ctx, query, facilityID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	apps := []contracts.Application{}
	for rows.Next() {
		var a contracts.Application
		if err := rows.Scan(&a.ID, &a.DutyID, &a.PersonnelID, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return apps, nil
}

// FetchEarnings returns earnings dated inside the window.
func (r *Repository) FetchEarnings(ctx context.Context, facilityID string, window contracts.Window) ([]contracts.Earning, error) {
	query := `
		SELECT e.id, e.personnel_id, e.duty_id, e.amount, e.status, e.earned_date
		FROM marketplace.earnings e
		JOIN marketplace.duties d ON d.id = e.duty_id
		WHERE d.facility_id = $1
			AND e.earned_date >= $2
			AND e.earned_date < $3
		ORDER BY e.earned_date, e.id
	`

	rows, err := r.db.Query(ctx, query, facilityID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query earnings: %w", err)
	}
	defer rows.Close()

	earnings := []contracts.Earning{}
	for rows.Next() {
		var e contracts.Earning
		if err := rows.Scan(&e.ID, &e.PersonnelID, &e.DutyID, &e.Amount, &e.Status, &e.EarnedDate); err != nil {
			return nil, fmt.Errorf("scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return earnings, nil
}

// FetchSettings returns the facility's analytics settings. A facility with
// no stored row gets defaults rather than an error.
func (r *Repository) FetchSettings(ctx context.Context, facilityID string) (contracts.FacilitySettings, error) {
	query := `
		SELECT facility_id, monthly_budget, alert_threshold, horizon_days,
			COALESCE(timezone, ''), advisories
		FROM marketplace.facility_settings
		WHERE facility_id = $1
	`

	var (
		settings      contracts.FacilitySettings
		advisoriesRaw []byte
	)
	err := r.db.QueryRow(ctx, query, facilityID).Scan(
		&settings.FacilityID,
		&settings.MonthlyBudget,
		&settings.AlertThreshold,
		&settings.HorizonDays,
		&settings.Timezone,
		&advisoriesRaw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contracts.DefaultSettings(facilityID), nil
		}
		return contracts.FacilitySettings{}, fmt.Errorf("query facility settings: %w", err)
	}

	if len(advisoriesRaw) > 0 {
		if err := json.Unmarshal(advisoriesRaw, &settings.Advisories); err != nil {
			return contracts.FacilitySettings{}, fmt.Errorf("unmarshal advisory flags: %w", err)
		}
	}

	return settings, nil
}

// Facility is a marketplace facility account.
type Facility struct {
	ID     string
	Name   string
	Status string
}

// ListActiveFacilities returns active facilities that posted at least one
// duty since the given time. The report warm job iterates this set.
func (r *Repository) ListActiveFacilities(ctx context.Context, since time.Time) ([]Facility, error) {
	query := `
		SELECT f.id, f.name, f.status
		FROM marketplace.facilities f
		WHERE f.status = 'active'
			AND EXISTS (
				SELECT 1 FROM marketplace.duties d
				WHERE d.facility_id = f.id AND d.created_at >= $1
			)
		ORDER BY f.id
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query active facilities: %w", err)
	}
	defer rows.Close()

	var facilities []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Status); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		facilities = append(facilities, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return facilities, nil
}

func scanDuties(rows pgx.Rows) ([]contracts.Duty, error) {
	duties := []contracts.Duty{}
	for rows.Next() {
		var d contracts.Duty
		if err := rows.Scan(
			&d.ID, &d.FacilityID, &d.StartTime, &d.EndTime, &d.HourlyRate,
			&d.Specialty, &d.Urgent, &d.Status, &d.AssignedPersonnelID, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan duty: %w", err)
		}
		duties = append(duties, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return duties, nil
}
