package contracts

import "time"

// BudgetStatus classifies trailing spend against the configured budget.
type BudgetStatus string

const (
	BudgetUnder BudgetStatus = "UNDER"
	BudgetNear  BudgetStatus = "NEAR"
	BudgetOver  BudgetStatus = "OVER"
)

// AlertLevel classifies the short-horizon staffing gap.
type AlertLevel string

const (
	AlertNone     AlertLevel = "NONE"
	AlertElevated AlertLevel = "ELEVATED"
	AlertCritical AlertLevel = "CRITICAL"
)

// AdvisoryCategory tags a cost-optimization advisory. Declaration order is
// the tie-break order when advisories carry equal estimated impact.
type AdvisoryCategory string

const (
	AdvisoryPostingTiming  AdvisoryCategory = "POSTING_TIMING"
	AdvisoryBudgetPressure AdvisoryCategory = "BUDGET_PRESSURE"
	AdvisoryUrgencyPremium AdvisoryCategory = "URGENCY_PREMIUM"
)

// advisoryOrder maps categories to their declaration rank.
var advisoryOrder = map[AdvisoryCategory]int{
	AdvisoryPostingTiming:  0,
	AdvisoryBudgetPressure: 1,
	AdvisoryUrgencyPremium: 2,
}

// Rank returns the category's declaration order, used for deterministic
// tie-breaking.
func (c AdvisoryCategory) Rank() int {
	if r, ok := advisoryOrder[c]; ok {
		return r
	}
	return len(advisoryOrder)
}

// TrendPoint is one month of the trailing fill-rate/spend trend.
type TrendPoint struct {
	Month    string  `json:"month"` // YYYY-MM
	FillRate float64 `json:"fillRate"`
	Spend    float64 `json:"spend"`
}

// MetricsBlock holds point-in-time and trailing-window operational metrics.
type MetricsBlock struct {
	DutiesPosted       int          `json:"dutiesPosted"`
	FillRate           float64      `json:"fillRate"`
	AvgTimeToFillHours float64      `json:"avgTimeToFillHours"`
	TotalSpend         float64      `json:"totalSpend"`
	CommittedSpend     float64      `json:"committedSpend"`
	Trend              []TrendPoint `json:"trend"`
}

// BudgetBlock holds budget-compliance figures.
type BudgetBlock struct {
	Remaining   float64      `json:"remaining"`
	PercentUsed float64      `json:"percentUsed"`
	Status      BudgetStatus `json:"status"`
}

// ForecastBlock holds the staffing-gap projection over the horizon.
type ForecastBlock struct {
	UpcomingShifts   int        `json:"upcomingShifts"`
	UnfilledUpcoming int        `json:"unfilledUpcoming"`
	StaffingGapRatio float64    `json:"staffingGapRatio"`
	AlertLevel       AlertLevel `json:"alertLevel"`
}

// Performer is one entry of the ranked-performers sequence.
type Performer struct {
	PersonnelID    string  `json:"personnelId"`
	Name           string  `json:"name,omitempty"`
	CompletedCount int     `json:"completedCount"`
	Rating         float64 `json:"rating"`
	LicenseLapsed  bool    `json:"licenseLapsed,omitempty"`
}

// Advisory is one actionable cost-optimization suggestion.
type Advisory struct {
	Category        AdvisoryCategory `json:"category"`
	Message         string           `json:"message"`
	EstimatedImpact float64          `json:"estimatedImpact"`
}

// AnalyticsReport is the versioned report returned to the caller. It is
// constructed fresh per request and never persisted.
type AnalyticsReport struct {
	Version       int           `json:"version"`
	FacilityID    string        `json:"facilityId"`
	GeneratedAt   time.Time     `json:"generatedAt"`
	Window        Window        `json:"window"`
	Metrics       MetricsBlock  `json:"metrics"`
	Budget        BudgetBlock   `json:"budget"`
	Forecast      ForecastBlock `json:"forecast"`
	TopPerformers []Performer   `json:"topPerformers"`
	Advisories    []Advisory    `json:"advisories"`
}

// ReportVersion is bumped when the report shape changes.
const ReportVersion = 1
