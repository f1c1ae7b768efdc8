package contracts

import (
	"context"
	"time"
)

// RecordReader is the read-only accessor over the four input streams,
// scoped to one facility. Implementations must return empty slices, never
// nil, when no data matches, and must honor the caller's context deadline.
type RecordReader interface {
	// FetchDuties returns duties created inside the window.
	FetchDuties(ctx context.Context, facilityID string, window Window) ([]Duty, error)

	// FetchUpcomingDuties returns duties scheduled to start in [from, to)
	// that have not reached a terminal status. Kept separate from
	// FetchDuties so in-window and upcoming records are never conflated.
	FetchUpcomingDuties(ctx context.Context, facilityID string, from, to time.Time) ([]Duty, error)

	// FetchApplications returns applications created inside the window.
	FetchApplications(ctx context.Context, facilityID string, window Window) ([]Application, error)

	// FetchEarnings returns earnings dated inside the window.
	FetchEarnings(ctx context.Context, facilityID string, window Window) ([]Earning, error)

	// FetchSettings returns the facility's analytics settings, or defaults
	// when no row exists. A nil-settings success is not allowed.
	FetchSettings(ctx context.Context, facilityID string) (FacilitySettings, error)
}

// PersonnelProfile is the directory's view of one personnel identity.
type PersonnelProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`
	LicenseNumber string  `json:"license_number,omitempty"`
}

// ProfileProvider supplies personnel ratings and names from the external
// directory. Failures degrade rankings, they never fail the report.
type ProfileProvider interface {
	GetProfiles(ctx context.Context, personnelIDs []string) (map[string]PersonnelProfile, error)
}

// LicenseChecker flags personnel whose credentials have lapsed according
// to the public license board.
type LicenseChecker interface {
	LapsedLicenses(ctx context.Context, profiles map[string]PersonnelProfile) (map[string]bool, error)
}
