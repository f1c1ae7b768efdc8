package analytics

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// Aggregator computes point-in-time and trailing-window operational metrics
// from in-window duty, application, and earning records. It holds no state
// across invocations.
type Aggregator struct {
	trendMonths int
	log         zerolog.Logger
}

// NewAggregator creates a metrics aggregator. trendMonths is the length of
// the trailing fill-rate/spend trend.
func NewAggregator(trendMonths int, log zerolog.Logger) *Aggregator {
	if trendMonths <= 0 {
		trendMonths = 6
	}
	return &Aggregator{
		trendMonths: trendMonths,
		log:         log.With().Str("component", "analytics.aggregator").Logger(),
	}
}

// windowFigures holds the single-window metric set. The trailing trend is
// produced by invoking the same computation once per month, never by a
// separate code path.
type windowFigures struct {
	DutiesPosted       int
	FillRate           float64
	AvgTimeToFillHours float64
	TotalSpend         float64
	CommittedSpend     float64
}

// Aggregate computes the metrics block for the report window plus the
// trailing monthly trend. The record slices may span a wider range than the
// window; filtering happens here.
func (a *Aggregator) Aggregate(
	win contracts.Window,
	loc *time.Location,
	duties []contracts.Duty,
	apps []contracts.Application,
	earnings []contracts.Earning,
) contracts.MetricsBlock {
	acceptedAt := acceptedTimes(apps)

	figures := a.figuresFor(win, duties, earnings, acceptedAt)

	// One tuple per trailing calendar month, each computed independently
	// with the same single-window rules.
	months := contracts.TrailingMonths(win.Start, a.trendMonths, loc)
	trend := make([]contracts.TrendPoint, 0, len(months))
	for _, month := range months {
		mf := a.figuresFor(month, duties, earnings, acceptedAt)
		trend = append(trend, contracts.TrendPoint{
			Month:    month.MonthKey(),
			FillRate: mf.FillRate,
			Spend:    mf.TotalSpend,
		})
	}

	a.log.Debug().
		Int("duties_posted", figures.DutiesPosted).
		Float64("fill_rate", figures.FillRate).
		Float64("total_spend", figures.TotalSpend).
		Msg("metrics aggregated")

	return contracts.MetricsBlock{
		DutiesPosted:       figures.DutiesPosted,
		FillRate:           figures.FillRate,
		AvgTimeToFillHours: figures.AvgTimeToFillHours,
		TotalSpend:         figures.TotalSpend,
		CommittedSpend:     figures.CommittedSpend,
		Trend:              trend,
	}
}

// figuresFor computes the metric set for a single window.
func (a *Aggregator) figuresFor(
	win contracts.Window,
	duties []contracts.Duty,
	earnings []contracts.Earning,
	acceptedAt map[string]time.Time,
) windowFigures {
	var f windowFigures

	filled := 0
	ttfHours := 0.0
	ttfCount := 0

	for _, d := range duties {
		if !win.Contains(d.CreatedAt) {
			continue
		}
		f.DutiesPosted++

		if d.Status.Filled() {
			filled++
			// Duties with no matching ACCEPTED application are excluded
			// from the mean, not treated as zero.
			if at, ok := acceptedAt[d.ID]; ok {
				ttfHours += at.Sub(d.CreatedAt).Hours()
				ttfCount++
			}
		}
	}

	// Never divide by zero: no activity means zero-valued metrics.
	if f.DutiesPosted > 0 {
		f.FillRate = float64(filled) / float64(f.DutiesPosted)
	}
	if ttfCount > 0 {
		f.AvgTimeToFillHours = ttfHours / float64(ttfCount)
	}

	pending := 0.0
	for _, e := range earnings {
		if !win.Contains(e.EarnedDate) {
			continue
		}
		switch e.Status {
		case contracts.PaymentPaid:
			f.TotalSpend += e.Amount
		case contracts.PaymentPending:
			pending += e.Amount
		}
	}
	// Committed = paid + pending. OVERDUE is in neither figure.
	f.CommittedSpend = f.TotalSpend + pending

	return f
}

// acceptedTimes maps duty id to the creation time of its ACCEPTED
// application. With upstream guaranteeing at most one ACCEPTED application
// per duty, the earliest one wins if that invariant is ever violated.
func acceptedTimes(apps []contracts.Application) map[string]time.Time {
	accepted := make(map[string]time.Time, len(apps))
	for _, app := range apps {
		if app.Status != contracts.ApplicationAccepted {
			continue
		}
		if prev, ok := accepted[app.DutyID]; !ok || app.CreatedAt.Before(prev) {
			accepted[app.DutyID] = app.CreatedAt
		}
	}
	return accepted
}
