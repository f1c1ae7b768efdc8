package analytics

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// Advisory rule thresholds.
const (
	lowFillRate       = 0.7  // below this, posting timing is suspect
	slowFillHours     = 48.0 // average time-to-fill considered slow
	targetFillRate    = 0.85 // uplift target for the timing advisory
	urgentShareLimit  = 0.3  // urgent postings above this share draw scrutiny
	urgentPremiumMult = 1.2  // urgent rate must exceed non-urgent by 20%
	maxListedDuties   = 3    // upcoming duties named in the budget advisory
)

// AdvisorContext is the shared input every rule evaluates. Rules are
// independent and order-insensitive; each fires zero or one advisory.
type AdvisorContext struct {
	Window   contracts.Window
	Metrics  contracts.MetricsBlock
	Budget   contracts.BudgetBlock
	Forecast contracts.ForecastBlock
	Duties   []contracts.Duty // created inside the report window
	Upcoming []contracts.Duty
	Flags    contracts.AdvisoryFlags
}

// Rule is a pure evaluator over the advisor context. New advisories are
// added by appending rules, never by branching inside an existing one.
type Rule func(AdvisorContext) *contracts.Advisory

// Advisor runs a fixed rule set and orders the firing advisories by
// estimated financial impact.
type Advisor struct {
	rules []Rule
	log   zerolog.Logger
}

// NewAdvisor creates an advisor with the standard rule set.
func NewAdvisor(log zerolog.Logger) *Advisor {
	return &Advisor{
		rules: []Rule{
			postingTimingRule,
			budgetPressureRule,
			urgencyPremiumRule,
		},
		log: log.With().Str("component", "analytics.advisor").Logger(),
	}
}

// Advise evaluates every rule and returns the firing advisories ordered by
// estimated impact descending, ties broken by category declaration order.
func (a *Advisor) Advise(ctx AdvisorContext) []contracts.Advisory {
	advisories := make([]contracts.Advisory, 0, len(a.rules))
	for _, rule := range a.rules {
		if adv := rule(ctx); adv != nil {
			advisories = append(advisories, *adv)
		}
	}

	sort.SliceStable(advisories, func(i, j int) bool {
		if advisories[i].EstimatedImpact != advisories[j].EstimatedImpact {
			return advisories[i].EstimatedImpact > advisories[j].EstimatedImpact
		}
		return advisories[i].Category.Rank() < advisories[j].Category.Rank()
	})

	a.log.Debug().Int("advisories", len(advisories)).Msg("advisory rules evaluated")
	return advisories
}

// postingTimingRule fires when shifts fill slowly and the fill rate is low:
// the facility is posting too late for personnel to pick shifts up.
func postingTimingRule(ctx AdvisorContext) *contracts.Advisory {
	if !ctx.Flags.PostingTiming {
		return nil
	}
	m := ctx.Metrics
	if m.FillRate >= lowFillRate || m.AvgTimeToFillHours <= slowFillHours {
		return nil
	}

	uplift := targetFillRate - m.FillRate
	if uplift < 0 {
		uplift = 0
	}

	// Monetary impact: additional filled shifts valued at the window's
	// average shift cost. Zero when no in-window duty data exists.
	impact := uplift * float64(m.DutiesPosted) * avgShiftValue(ctx.Duties)

	return &contracts.Advisory{
		Category: contracts.AdvisoryPostingTiming,
		Message: fmt.Sprintf(
			"Shifts are averaging %.0f hours to fill and only %.0f%% get filled. Posting shifts earlier could raise your fill rate toward %.0f%% (est. +%.0f%%).",
			m.AvgTimeToFillHours, m.FillRate*100, targetFillRate*100, uplift*100,
		),
		EstimatedImpact: impact,
	}
}

// budgetPressureRule fires under budget pressure and points at the most
// expensive still-open upcoming shifts as the lever for cost reduction.
func budgetPressureRule(ctx AdvisorContext) *contracts.Advisory {
	if !ctx.Flags.BudgetPressure {
		return nil
	}
	if ctx.Budget.Status != contracts.BudgetNear && ctx.Budget.Status != contracts.BudgetOver {
		return nil
	}

	open := make([]contracts.Duty, 0, len(ctx.Upcoming))
	for _, d := range ctx.Upcoming {
		if d.Status == contracts.DutyOpen {
			open = append(open, d)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].HourlyRate != open[j].HourlyRate {
			return open[i].HourlyRate > open[j].HourlyRate
		}
		return open[i].ID < open[j].ID
	})
	if len(open) > maxListedDuties {
		open = open[:maxListedDuties]
	}

	impact := 0.0
	listed := ""
	for i, d := range open {
		impact += d.HourlyRate * d.DurationHours()
		if i > 0 {
			listed += ", "
		}
		listed += fmt.Sprintf("%s ($%.0f/h)", d.ID, d.HourlyRate)
	}

	msg := fmt.Sprintf("Budget is %.0f%% used (%s). Review upcoming unfilled high-rate shifts for cost reduction",
		ctx.Budget.PercentUsed*100, ctx.Budget.Status)
	if listed != "" {
		msg += ": " + listed
	}
	msg += "."

	return &contracts.Advisory{
		Category:        contracts.AdvisoryBudgetPressure,
		Message:         msg,
		EstimatedImpact: impact,
	}
}

// urgencyPremiumRule fires when urgent postings dominate and carry a
// meaningful rate premium over non-urgent ones.
func urgencyPremiumRule(ctx AdvisorContext) *contracts.Advisory {
	if !ctx.Flags.UrgencyPremium {
		return nil
	}
	if ctx.Metrics.DutiesPosted == 0 {
		return nil
	}

	var urgentCount, normalCount int
	var urgentRate, normalRate float64
	for _, d := range ctx.Duties {
		if !ctx.Window.Contains(d.CreatedAt) {
			continue
		}
		if d.Urgent {
			urgentCount++
			urgentRate += d.HourlyRate
		} else {
			normalCount++
			normalRate += d.HourlyRate
		}
	}
	if urgentCount == 0 || normalCount == 0 {
		return nil
	}

	urgentShare := float64(urgentCount) / float64(ctx.Metrics.DutiesPosted)
	urgentAvg := urgentRate / float64(urgentCount)
	normalAvg := normalRate / float64(normalCount)

	if urgentShare <= urgentShareLimit || urgentAvg <= normalAvg*urgentPremiumMult {
		return nil
	}

	// Savings estimate: the rate premium times the urgent duty count.
	impact := (urgentAvg - normalAvg) * float64(urgentCount)

	return &contracts.Advisory{
		Category: contracts.AdvisoryUrgencyPremium,
		Message: fmt.Sprintf(
			"Urgent postings are %.0f%% of your shifts at a $%.0f/h premium over standard postings. Reducing reliance on urgent postings could save about $%.0f.",
			urgentShare*100, urgentAvg-normalAvg, impact,
		),
		EstimatedImpact: impact,
	}
}

// avgShiftValue is the mean rate*duration of the given duties, 0 when the
// slice is empty.
func avgShiftValue(duties []contracts.Duty) float64 {
	if len(duties) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range duties {
		total += d.HourlyRate * d.DurationHours()
	}
	return total / float64(len(duties))
}
