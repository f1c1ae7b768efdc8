package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/redis"
)

// Service generates analytics reports. Every report is a pure function of
// the record snapshot read for the current request; nothing is shared
// between concurrent invocations.
type Service struct {
	reader   contracts.RecordReader
	profiles contracts.ProfileProvider // optional enrichment
	licenses contracts.LicenseChecker  // optional enrichment

	aggregator *Aggregator
	budget     *BudgetTracker
	forecaster *Forecaster
	ranker     *Ranker
	advisor    *Advisor
	composer   *Composer

	cache *redis.Cache // nil disables caching
	cfg   config.AnalyticsConfig
	log   zerolog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewService wires the analytics components. profiles, licenses, and cache
// may be nil; the corresponding enrichment is skipped.
func NewService(
	reader contracts.RecordReader,
	profiles contracts.ProfileProvider,
	licenses contracts.LicenseChecker,
	cache *redis.Cache,
	cfg config.AnalyticsConfig,
	log zerolog.Logger,
) *Service {
	return &Service{
		reader:     reader,
		profiles:   profiles,
		licenses:   licenses,
		aggregator: NewAggregator(cfg.TrendMonths, log),
		budget:     NewBudgetTracker(log),
		forecaster: NewForecaster(log),
		ranker:     NewRanker(cfg.TopPerformers, log),
		advisor:    NewAdvisor(log),
		composer:   NewComposer(),
		cache:      cache,
		cfg:        cfg,
		log:        log.With().Str("component", "analytics.service").Logger(),
		now:        time.Now,
	}
}

// recordSet is the immutable snapshot one report computes from.
type recordSet struct {
	duties   []contracts.Duty
	apps     []contracts.Application
	earnings []contracts.Earning
	upcoming []contracts.Duty
}

// GenerateReport computes a fresh analytics report for the facility.
// Missing window bounds default to the current calendar month in the
// facility's configured time zone. A failure on any input stream surfaces
// as ErrDataUnavailable; no partial report is returned.
func (s *Service) GenerateReport(ctx context.Context, facilityID string, windowStart, windowEnd *time.Time) (*contracts.AnalyticsReport, error) {
	started := s.now()

	// Settings first: the window default and horizon depend on them.
	settings, err := s.fetchSettings(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("%w: settings: %v", ErrDataUnavailable, err)
	}
	settings = settings.Normalize()
	loc := settings.Location()

	window, err := resolveWindow(windowStart, windowEnd, s.now(), loc)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchRecords(ctx, facilityID, window, settings)
	if err != nil {
		return nil, err
	}

	metrics := s.aggregator.Aggregate(window, loc, records.duties, records.apps, records.earnings)
	budget := s.budget.Evaluate(metrics.TotalSpend, settings)
	forecast := s.forecaster.Project(records.upcoming)

	performers := s.rankPerformers(ctx, records)

	advisories := s.advisor.Advise(AdvisorContext{
		Window:   window,
		Metrics:  metrics,
		Budget:   budget,
		Forecast: forecast,
		Duties:   inWindowDuties(records.duties, window),
		Upcoming: records.upcoming,
		Flags:    settings.Advisories,
	})

	report := s.composer.Compose(facilityID, s.now(), window, metrics, budget, forecast, performers, advisories)

	s.log.Info().
		Str("facility_id", facilityID).
		Str("window", window.MonthKey()).
		Dur("duration", s.now().Sub(started)).
		Int("duties_posted", metrics.DutiesPosted).
		Str("budget_status", string(budget.Status)).
		Str("alert_level", string(forecast.AlertLevel)).
		Msg("analytics report generated")

	return report, nil
}

// CachedReport serves the default-window report through the Redis cache.
// Explicit windows are never cached. fresh=true skips the cache read but
// still stores the recomputed report, so warm jobs can repopulate entries.
// Cache failures are absorbed; a cold cache just means a fresh computation.
func (s *Service) CachedReport(ctx context.Context, facilityID string, windowStart, windowEnd *time.Time, fresh bool) (*contracts.AnalyticsReport, error) {
	cacheable := s.cache != nil && windowStart == nil && windowEnd == nil
	key := ""

	if cacheable {
		month := contracts.CurrentMonthWindow(s.now(), time.UTC)
		key = redis.ReportKey(facilityID, month.Start, month.End)
	}

	if cacheable && !fresh {
		var cached contracts.AnalyticsReport
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn().Err(err).Str("facility_id", facilityID).Msg("report cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	report, err := s.GenerateReport(ctx, facilityID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, report, s.cfg.ReportCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("facility_id", facilityID).Msg("report cache write failed")
		}
	}

	return report, nil
}

// fetchSettings reads facility settings under the fetch bound.
func (s *Service) fetchSettings(ctx context.Context, facilityID string) (contracts.FacilitySettings, error) {
	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return s.reader.FetchSettings(fctx, facilityID)
}

// fetchRecords issues the four record reads concurrently and joins them.
// The reads are mutually independent; each is bounded by its own timeout so
// a stalled stream fails the report instead of hanging it.
func (s *Service) fetchRecords(ctx context.Context, facilityID string, window contracts.Window, settings contracts.FacilitySettings) (*recordSet, error) {
	// Duties, applications, and earnings are fetched over a trailing range
	// wide enough for both the monthly trend and the ranking lookback; the
	// aggregator and ranker narrow to their own windows in memory.
	lookbackStart := window.End.AddDate(0, -s.lookbackMonths(), 0)
	trendStart := window.Start.AddDate(0, -(s.aggregator.trendMonths - 1), 0)
	if trendStart.Before(lookbackStart) {
		lookbackStart = trendStart
	}
	trailing := contracts.Window{Start: lookbackStart, End: window.End}

	horizonEnd := window.End.AddDate(0, 0, settings.HorizonDays)

	var (
		records recordSet
		wg      sync.WaitGroup
		errCh   = make(chan error, 4)
	)

	fetch := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		if err := fn(fctx); err != nil {
			errCh <- fmt.Errorf("%s: %w", name, err)
		}
	}

	wg.Add(4)
	go fetch("duties", func(fctx context.Context) (err error) {
		records.duties, err = s.reader.FetchDuties(fctx, facilityID, trailing)
		return err
	})
	go fetch("applications", func(fctx context.Context) (err error) {
		records.apps, err = s.reader.FetchApplications(fctx, facilityID, trailing)
		return err
	})
	go fetch("earnings", func(fctx context.Context) (err error) {
		records.earnings, err = s.reader.FetchEarnings(fctx, facilityID, trailing)
		return err
	})
	go fetch("upcoming duties", func(fctx context.Context) (err error) {
		records.upcoming, err = s.reader.FetchUpcomingDuties(fctx, facilityID, window.End, horizonEnd)
		return err
	})
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	return &records, nil
}

// rankPerformers runs the ranker with best-effort directory and license
// enrichment. Enrichment failures degrade rankings to zero ratings; they
// never fail the report.
func (s *Service) rankPerformers(ctx context.Context, records *recordSet) []contracts.Performer {
	profiles := map[string]contracts.PersonnelProfile{}
	if s.profiles != nil {
		ids := AcceptedPersonnelIDs(records.apps)
		if len(ids) > 0 {
			fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()
			fetched, err := s.profiles.GetProfiles(fctx, ids)
			if err != nil {
				s.log.Warn().Err(err).Msg("personnel directory lookup failed, ranking without ratings")
			} else {
				profiles = fetched
			}
		}
	}

	lapsed := map[string]bool{}
	if s.licenses != nil && len(profiles) > 0 {
		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		flagged, err := s.licenses.LapsedLicenses(fctx, profiles)
		if err != nil {
			s.log.Warn().Err(err).Msg("license board lookup failed, skipping credential flags")
		} else {
			lapsed = flagged
		}
	}

	return s.ranker.Rank(records.apps, records.duties, profiles, lapsed)
}

func (s *Service) lookbackMonths() int {
	if s.cfg.LookbackMonths <= 0 {
		return 12
	}
	return s.cfg.LookbackMonths
}

// resolveWindow applies the current-calendar-month default for missing
// bounds and validates an explicit window.
func resolveWindow(start, end *time.Time, now time.Time, loc *time.Location) (contracts.Window, error) {
	month := contracts.CurrentMonthWindow(now, loc)
	window := month
	if start != nil {
		window.Start = start.In(loc)
	}
	if end != nil {
		window.End = end.In(loc)
	}
	if !window.Start.Before(window.End) {
		return contracts.Window{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidWindow, window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}
	return window, nil
}

// inWindowDuties narrows a duty slice to those created inside the window.
func inWindowDuties(duties []contracts.Duty, window contracts.Window) []contracts.Duty {
	out := make([]contracts.Duty, 0, len(duties))
	for _, d := range duties {
		if window.Contains(d.CreatedAt) {
			out = append(out, d)
		}
	}
	return out
}
