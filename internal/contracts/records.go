package contracts

import "time"

// DutyStatus is the lifecycle status of a shift posting.
// Transitions are monotonic: OPEN → FILLED → COMPLETED, with CANCELLED
// reachable from OPEN or FILLED only. The analytics engine never mutates
// duty state, it only reads it.
type DutyStatus string

const (
	DutyOpen      DutyStatus = "OPEN"
	DutyFilled    DutyStatus = "FILLED"
	DutyCancelled DutyStatus = "CANCELLED"
	DutyCompleted DutyStatus = "COMPLETED"
)

// Terminal reports whether no further transitions are possible.
func (s DutyStatus) Terminal() bool {
	return s == DutyCompleted || s == DutyCancelled
}

// Filled reports whether the duty reached FILLED or COMPLETED.
func (s DutyStatus) Filled() bool {
	return s == DutyFilled || s == DutyCompleted
}

// Duty is a single staffing shift posted by a facility.
type Duty struct {
	ID                  string     `json:"id"`
	FacilityID          string     `json:"facility_id"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             time.Time  `json:"end_time"`
	HourlyRate          float64    `json:"hourly_rate"`
	Specialty           string     `json:"specialty"`
	Urgent              bool       `json:"urgent"`
	Status              DutyStatus `json:"status"`
	AssignedPersonnelID string     `json:"assigned_personnel_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// DurationHours returns the scheduled shift length in hours.
func (d Duty) DurationHours() float64 {
	if !d.EndTime.After(d.StartTime) {
		return 0
	}
	return d.EndTime.Sub(d.StartTime).Hours()
}

// ApplicationStatus is the lifecycle status of a personnel's application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Application is a personnel's request to fill a duty. At most one ACCEPTED
// application exists per duty (enforced upstream).
type Application struct {
	ID          string            `json:"id"`
	DutyID      string            `json:"duty_id"`
	PersonnelID string            `json:"personnel_id"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// PaymentStatus is the settlement status of an earning.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// Earning is a payment obligation toward personnel for a completed duty.
type Earning struct {
	ID          string        `json:"id"`
	PersonnelID string        `json:"personnel_id"`
	DutyID      string        `json:"duty_id"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	EarnedDate  time.Time     `json:"earned_date"`
}

// AdvisoryFlags enables or disables advisory categories per facility.
type AdvisoryFlags struct {
	PostingTiming  bool `json:"posting_timing"`
	BudgetPressure bool `json:"budget_pressure"`
	UrgencyPremium bool `json:"urgency_premium"`
}

// FacilitySettings is the per-facility analytics configuration.
type FacilitySettings struct {
	FacilityID     string        `json:"facility_id"`
	MonthlyBudget  float64       `json:"monthly_budget"`
	AlertThreshold float64       `json:"alert_threshold"` // fraction of budget, 0..1
	HorizonDays    int           `json:"horizon_days"`
	Timezone       string        `json:"timezone"` // IANA name, empty means UTC
	Advisories     AdvisoryFlags `json:"advisories"`

	// BudgetInvalid is set during normalization when the stored budget was
	// structurally invalid (negative). The tracker then forces OVER.
	BudgetInvalid bool `json:"-"`
}

// DefaultHorizonDays is the forecast look-ahead used when a facility has
// no explicit setting.
const DefaultHorizonDays = 14

// DefaultSettings returns settings for a facility with no stored row.
func DefaultSettings(facilityID string) FacilitySettings {
	return FacilitySettings{
		FacilityID:     facilityID,
		MonthlyBudget:  0,
		AlertThreshold: 0.8,
		HorizonDays:    DefaultHorizonDays,
		Timezone:       "UTC",
		Advisories: AdvisoryFlags{
			PostingTiming:  true,
			BudgetPressure: true,
			UrgencyPremium: true,
		},
	}
}

// Normalize clamps out-of-range values instead of failing. A negative
// budget becomes 0 and is flagged invalid so the budget tracker can force
// the conservative OVER status.
func (s FacilitySettings) Normalize() FacilitySettings {
	if s.AlertThreshold < 0 {
		s.AlertThreshold = 0
	}
	if s.AlertThreshold > 1 {
		s.AlertThreshold = 1
	}
	if s.MonthlyBudget < 0 {
		s.MonthlyBudget = 0
		s.BudgetInvalid = true
	}
	if s.HorizonDays <= 0 {
		s.HorizonDays = DefaultHorizonDays
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	return s
}

// Location resolves the facility's IANA timezone, falling back to UTC for
// unknown names rather than failing the report.
func (s FacilitySettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
