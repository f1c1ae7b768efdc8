package analytics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/medshift/backend/internal/contracts"
)

func allFlags() contracts.AdvisoryFlags {
	return contracts.AdvisoryFlags{
		PostingTiming:  true,
		BudgetPressure: true,
		UrgencyPremium: true,
	}
}

func ratedDuty(id string, rate float64, urgent bool) contracts.Duty {
	created := time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)
	return contracts.Duty{
		ID:         id,
		FacilityID: "fac-001",
		StartTime:  created.Add(48 * time.Hour),
		EndTime:    created.Add(56 * time.Hour), // 8h shifts
		HourlyRate: rate,
		Urgent:     urgent,
		Status:     contracts.DutyOpen,
		CreatedAt:  created,
	}
}

func TestAdvisor_PostingTimingFires(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	ctx := AdvisorContext{
		Window: augustWindow,
		Metrics: contracts.MetricsBlock{
			DutiesPosted:       10,
			FillRate:           0.5,
			AvgTimeToFillHours: 60,
		},
		Duties: []contracts.Duty{ratedDuty("d-1", 100, false)},
		Flags:  allFlags(),
	}

	advisories := a.Advise(ctx)
	require.Len(t, advisories, 1)
	assert.Equal(t, contracts.AdvisoryPostingTiming, advisories[0].Category)
	assert.Contains(t, advisories[0].Message, "Posting shifts earlier")
	assert.Greater(t, advisories[0].EstimatedImpact, 0.0)
}

func TestAdvisor_PostingTimingAtBoundaryDoesNotFire(t *testing.T) {
	// fillRate=0.7, avgTimeToFill=30h: the advisory must NOT fire
	a := NewAdvisor(zerolog.Nop())

	ctx := AdvisorContext{
		Window: augustWindow,
		Metrics: contracts.MetricsBlock{
			DutiesPosted:       10,
			FillRate:           0.7,
			AvgTimeToFillHours: 30,
		},
		Budget: contracts.BudgetBlock{Status: contracts.BudgetUnder},
		Flags:  allFlags(),
	}

	assert.Empty(t, a.Advise(ctx))
}

func TestAdvisor_BudgetPressureListsHighRateOpenShifts(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	upcoming := []contracts.Duty{
		ratedDuty("up-cheap", 60, false),
		ratedDuty("up-mid", 110, false),
		ratedDuty("up-high", 180, false),
		ratedDuty("up-top", 200, false),
	}
	filled := ratedDuty("up-filled", 500, false)
	filled.Status = contracts.DutyFilled
	upcoming = append(upcoming, filled)

	ctx := AdvisorContext{
		Window:   augustWindow,
		Budget:   contracts.BudgetBlock{Status: contracts.BudgetNear, PercentUsed: 0.9},
		Upcoming: upcoming,
		Flags:    allFlags(),
	}

	advisories := a.Advise(ctx)
	require.Len(t, advisories, 1)
	adv := advisories[0]
	assert.Equal(t, contracts.AdvisoryBudgetPressure, adv.Category)
	// Only the top 3 OPEN shifts are named, FILLED ones never
	assert.Contains(t, adv.Message, "up-top")
	assert.Contains(t, adv.Message, "up-high")
	assert.Contains(t, adv.Message, "up-mid")
	assert.NotContains(t, adv.Message, "up-cheap")
	assert.NotContains(t, adv.Message, "up-filled")
	// Impact is the avoidable cost of the listed shifts: (200+180+110)*8h
	assert.InDelta(t, 3920, adv.EstimatedImpact, 1e-9)
}

func TestAdvisor_BudgetPressureNotUnder(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	ctx := AdvisorContext{
		Window: augustWindow,
		Budget: contracts.BudgetBlock{Status: contracts.BudgetUnder, PercentUsed: 0.2},
		Flags:  allFlags(),
	}

	assert.Empty(t, a.Advise(ctx))
}

func TestAdvisor_UrgencyPremium(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	var duties []contracts.Duty
	for i := 0; i < 4; i++ {
		duties = append(duties, ratedDuty("urgent-"+string(rune('a'+i)), 120, true))
	}
	for i := 0; i < 6; i++ {
		duties = append(duties, ratedDuty("normal-"+string(rune('a'+i)), 90, false))
	}

	ctx := AdvisorContext{
		Window:  augustWindow,
		Metrics: contracts.MetricsBlock{DutiesPosted: 10},
		Duties:  duties,
		Flags:   allFlags(),
	}

	advisories := a.Advise(ctx)
	require.Len(t, advisories, 1)
	adv := advisories[0]
	assert.Equal(t, contracts.AdvisoryUrgencyPremium, adv.Category)
	// Premium of $30/h times 4 urgent duties
	assert.InDelta(t, 120, adv.EstimatedImpact, 1e-9)
	assert.Contains(t, adv.Message, "urgent postings")
}

func TestAdvisor_UrgencyPremiumBelowShareDoesNotFire(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	// 3 of 10 urgent: exactly 30% does not exceed the share limit
	var duties []contracts.Duty
	for i := 0; i < 3; i++ {
		duties = append(duties, ratedDuty("urgent-"+string(rune('a'+i)), 200, true))
	}
	for i := 0; i < 7; i++ {
		duties = append(duties, ratedDuty("normal-"+string(rune('a'+i)), 90, false))
	}

	ctx := AdvisorContext{
		Window:  augustWindow,
		Metrics: contracts.MetricsBlock{DutiesPosted: 10},
		Duties:  duties,
		Flags:   allFlags(),
	}

	assert.Empty(t, a.Advise(ctx))
}

func TestAdvisor_OrderedByImpactDescending(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	// Fire timing (low impact: cheap duties) and urgency (high premium)
	var duties []contracts.Duty
	for i := 0; i < 4; i++ {
		duties = append(duties, ratedDuty("urgent-"+string(rune('a'+i)), 500, true))
	}
	for i := 0; i < 6; i++ {
		duties = append(duties, ratedDuty("normal-"+string(rune('a'+i)), 100, false))
	}

	ctx := AdvisorContext{
		Window: augustWindow,
		Metrics: contracts.MetricsBlock{
			DutiesPosted:       10,
			FillRate:           0.5,
			AvgTimeToFillHours: 72,
		},
		Duties: duties,
		Flags:  allFlags(),
	}

	advisories := a.Advise(ctx)
	require.Len(t, advisories, 2)
	assert.GreaterOrEqual(t, advisories[0].EstimatedImpact, advisories[1].EstimatedImpact)
	// Timing: 0.35 uplift * 10 duties * $2080 avg shift = $7280,
	// ahead of the $1600 urgency premium
	assert.Equal(t, contracts.AdvisoryPostingTiming, advisories[0].Category)
	assert.Equal(t, contracts.AdvisoryUrgencyPremium, advisories[1].Category)
}

func TestAdvisor_DisabledFlagsSuppressRules(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	ctx := AdvisorContext{
		Window: augustWindow,
		Metrics: contracts.MetricsBlock{
			DutiesPosted:       10,
			FillRate:           0.2,
			AvgTimeToFillHours: 90,
		},
		Budget: contracts.BudgetBlock{Status: contracts.BudgetOver, PercentUsed: 1.2},
		Flags:  contracts.AdvisoryFlags{}, // everything off
	}

	assert.Empty(t, a.Advise(ctx))
}

func TestAdvisor_EmptyWindowNoAdvisories(t *testing.T) {
	a := NewAdvisor(zerolog.Nop())

	ctx := AdvisorContext{
		Window: augustWindow,
		Flags:  allFlags(),
	}

	assert.Empty(t, a.Advise(ctx))
}
