package analytics

import (
	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// BudgetTracker compares trailing spend against the facility's monthly
// budget and alert threshold.
type BudgetTracker struct {
	log zerolog.Logger
}

// NewBudgetTracker creates a budget tracker.
func NewBudgetTracker(log zerolog.Logger) *BudgetTracker {
	return &BudgetTracker{
		log: log.With().Str("component", "analytics.budget").Logger(),
	}
}

// Evaluate derives the budget block from actual spend and normalized
// settings. Boundary values classify toward the stricter state: exactly at
// the threshold is NEAR, exactly at 100% is OVER.
func (t *BudgetTracker) Evaluate(totalSpend float64, settings contracts.FacilitySettings) contracts.BudgetBlock {
	budget := settings.MonthlyBudget
	threshold := settings.AlertThreshold

	block := contracts.BudgetBlock{
		Remaining: budget - totalSpend, // may be negative
	}

	if budget > 0 {
		block.PercentUsed = totalSpend / budget
	}

	switch {
	case settings.BudgetInvalid:
		// A structurally invalid budget was replaced with 0 upstream; the
		// conservative signal is OVER.
		block.Status = contracts.BudgetOver
		t.log.Warn().
			Str("facility_id", settings.FacilityID).
			Msg("invalid budget configuration, forcing OVER status")
	case block.PercentUsed >= 1.0:
		block.Status = contracts.BudgetOver
	case block.PercentUsed >= threshold:
		block.Status = contracts.BudgetNear
	default:
		block.Status = contracts.BudgetUnder
	}

	return block
}
