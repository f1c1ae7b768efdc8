package analytics

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/wardline/medshift/backend/internal/contracts"
)

// DefaultTopPerformers is the ranking size when none is configured.
const DefaultTopPerformers = 5

// Ranker ranks personnel by completed-engagement volume over an extended
// lookback window, rewarding cumulative track record rather than the
// current report window alone.
type Ranker struct {
	topN int
	log  zerolog.Logger
}

// NewRanker creates a performer ranker returning the top n entries.
func NewRanker(topN int, log zerolog.Logger) *Ranker {
	if topN <= 0 {
		topN = DefaultTopPerformers
	}
	return &Ranker{
		topN: topN,
		log:  log.With().Str("component", "analytics.ranker").Logger(),
	}
}

// Rank groups ACCEPTED applications by personnel, counts completed
// engagements against the linked duties, and returns the top N. Ordering is
// completed count descending, then declared rating descending, then
// personnel id ascending so ties resolve deterministically. Personnel with
// zero completed engagements are excluded.
func (r *Ranker) Rank(
	apps []contracts.Application,
	duties []contracts.Duty,
	profiles map[string]contracts.PersonnelProfile,
	lapsed map[string]bool,
) []contracts.Performer {
	dutyByID := make(map[string]contracts.Duty, len(duties))
	for _, d := range duties {
		dutyByID[d.ID] = d
	}

	// Each duty counts once per personnel even if duplicate ACCEPTED rows
	// slip past the upstream uniqueness guarantee.
	counted := make(map[string]map[string]struct{})
	for _, app := range apps {
		if app.Status != contracts.ApplicationAccepted {
			continue
		}
		duty, ok := dutyByID[app.DutyID]
		if !ok || duty.Status != contracts.DutyCompleted {
			continue
		}
		if counted[app.PersonnelID] == nil {
			counted[app.PersonnelID] = make(map[string]struct{})
		}
		counted[app.PersonnelID][app.DutyID] = struct{}{}
	}

	ranked := make([]contracts.Performer, 0, len(counted))
	for personnelID, dutyIDs := range counted {
		if len(dutyIDs) == 0 {
			continue
		}
		p := contracts.Performer{
			PersonnelID:    personnelID,
			CompletedCount: len(dutyIDs),
		}
		if profile, ok := profiles[personnelID]; ok {
			p.Name = profile.Name
			p.Rating = profile.Rating
		}
		if lapsed[personnelID] {
			p.LicenseLapsed = true
		}
		ranked = append(ranked, p)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CompletedCount != ranked[j].CompletedCount {
			return ranked[i].CompletedCount > ranked[j].CompletedCount
		}
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].PersonnelID < ranked[j].PersonnelID
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}

	r.log.Debug().
		Int("candidates", len(counted)).
		Int("ranked", len(ranked)).
		Msg("performers ranked")

	return ranked
}

// AcceptedPersonnelIDs returns the unique personnel ids holding an ACCEPTED
// application, in deterministic order. Used to scope directory lookups.
func AcceptedPersonnelIDs(apps []contracts.Application) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, app := range apps {
		if app.Status != contracts.ApplicationAccepted {
			continue
		}
		if _, ok := seen[app.PersonnelID]; ok {
			continue
		}
		seen[app.PersonnelID] = struct{}{}
		ids = append(ids, app.PersonnelID)
	}
	sort.Strings(ids)
	return ids
}
