package analytics

import (
	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// Alert level boundaries for the staffing gap ratio.
const (
	criticalGapRatio = 0.5
)

// Forecaster projects staffing gaps over the configured look-ahead horizon
// from already-scheduled, not-yet-filled duties. The projection is purely
// count-based: historical posting volume is too sparse at facility scope to
// support statistical extrapolation.
type Forecaster struct {
	log zerolog.Logger
}

// NewForecaster creates a forecaster.
func NewForecaster(log zerolog.Logger) *Forecaster {
	return &Forecaster{
		log: log.With().Str("component", "analytics.forecaster").Logger(),
	}
}

// Project computes the forecast block from the upcoming duty collection.
// The caller supplies duties scheduled within the horizon that are not yet
// COMPLETED or CANCELLED; terminal records are skipped here regardless.
func (f *Forecaster) Project(upcoming []contracts.Duty) contracts.ForecastBlock {
	var block contracts.ForecastBlock

	for _, d := range upcoming {
		if d.Status.Terminal() {
			continue
		}
		block.UpcomingShifts++
		if d.Status == contracts.DutyOpen {
			block.UnfilledUpcoming++
		}
	}

	if block.UpcomingShifts > 0 {
		block.StaffingGapRatio = float64(block.UnfilledUpcoming) / float64(block.UpcomingShifts)
	}

	switch {
	case block.StaffingGapRatio == 0:
		block.AlertLevel = contracts.AlertNone
	case block.StaffingGapRatio < criticalGapRatio:
		block.AlertLevel = contracts.AlertElevated
	default:
		block.AlertLevel = contracts.AlertCritical
	}

	f.log.Debug().
		Int("upcoming", block.UpcomingShifts).
		Int("unfilled", block.UnfilledUpcoming).
		Str("alert_level", string(block.AlertLevel)).
		Msg("staffing gap projected")

	return block
}
