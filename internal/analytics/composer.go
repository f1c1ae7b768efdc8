package analytics

import (
	"time"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// Composer assembles component outputs into the versioned report value.
// It is pure: no I/O, no recomputation of any figure, so every number in
// the report has exactly one source.
type Composer struct{}

// NewComposer creates a report composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose stamps the generation timestamp and returns the report. Slices
// are normalized to empty, never nil, so the JSON shape is stable.
func (c *Composer) Compose(
	facilityID string,
	generatedAt time.Time,
	window contracts.Window,
	metrics contracts.MetricsBlock,
	budget contracts.BudgetBlock,
	forecast contracts.ForecastBlock,
	performers []contracts.Performer,
	advisories []contracts.Advisory,
) *contracts.AnalyticsReport {
	if metrics.Trend == nil {
		metrics.Trend = []contracts.TrendPoint{}
	}
	if performers == nil {
		performers = []contracts.Performer{}
	}
	if advisories == nil {
		advisories = []contracts.Advisory{}
	}

	return &contracts.AnalyticsReport{
		Version:       contracts.ReportVersion,
		FacilityID:    facilityID,
		GeneratedAt:   generatedAt,
		Window:        window,
		Metrics:       metrics,
		Budget:        budget,
		Forecast:      forecast,
		TopPerformers: performers,
		Advisories:    advisories,
	}
}
