package analytics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/wardline/medshift/backend/internal/contracts"
)

var augustWindow = contracts.Window{
	Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
}

func testDuty(id string, created time.Time, status contracts.DutyStatus) contracts.Duty {
	return contracts.Duty{
		ID:         id,
		FacilityID: "fac-001",
		StartTime:  created.Add(72 * time.Hour),
		EndTime:    created.Add(84 * time.Hour),
		HourlyRate: 95,
		Status:     status,
		CreatedAt:  created,
	}
}

func acceptedApp(dutyID, personnelID string, at time.Time) contracts.Application {
	return contracts.Application{
		ID:          "app-" + dutyID,
		DutyID:      dutyID,
		PersonnelID: personnelID,
		Status:      contracts.ApplicationAccepted,
		CreatedAt:   at,
	}
}

func TestAggregator_EmptyWindow(t *testing.T) {
	agg := NewAggregator(6, zerolog.Nop())

	m := agg.Aggregate(augustWindow, time.UTC, nil, nil, nil)

	assert.Equal(t, 0, m.DutiesPosted)
	assert.Equal(t, 0.0, m.FillRate)
	assert.Equal(t, 0.0, m.AvgTimeToFillHours)
	assert.Equal(t, 0.0, m.TotalSpend)
	assert.Equal(t, 0.0, m.CommittedSpend)

	// Trend still renders, one zero-valued tuple per trailing month
	assert.Len(t, m.Trend, 6)
	for _, p := range m.Trend {
		assert.Equal(t, 0.0, p.FillRate)
		assert.Equal(t, 0.0, p.Spend)
	}
	assert.Equal(t, "2026-03", m.Trend[0].Month)
	assert.Equal(t, "2026-08", m.Trend[5].Month)
}

func TestAggregator_FillRateAndTimeToFill(t *testing.T) {
	agg := NewAggregator(6, zerolog.Nop())

	created := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	var duties []contracts.Duty
	var apps []contracts.Application

	// 7 of 10 duties reach FILLED/COMPLETED, each accepted 30h after posting
	for i := 0; i < 7; i++ {
		id := "d-filled-" + string(rune('a'+i))
		status := contracts.DutyFilled
		if i%2 == 0 {
			status = contracts.DutyCompleted
		}
		duties = append(duties, testDuty(id, created, status))
		apps = append(apps, acceptedApp(id, "p-1", created.Add(30*time.Hour)))
	}
	for i := 0; i < 3; i++ {
		duties = append(duties, testDuty("d-open-"+string(rune('a'+i)), created, contracts.DutyOpen))
	}

	m := agg.Aggregate(augustWindow, time.UTC, duties, apps, nil)

	assert.Equal(t, 10, m.DutiesPosted)
	assert.InDelta(t, 0.7, m.FillRate, 1e-9)
	assert.InDelta(t, 30.0, m.AvgTimeToFillHours, 1e-9)
	assert.GreaterOrEqual(t, m.FillRate, 0.0)
	assert.LessOrEqual(t, m.FillRate, 1.0)
}

func TestAggregator_FilledWithoutAcceptedAppExcludedFromMean(t *testing.T) {
	agg := NewAggregator(6, zerolog.Nop())

	created := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	duties := []contracts.Duty{
		testDuty("d-1", created, contracts.DutyFilled),
		testDuty("d-2", created, contracts.DutyFilled), // no accepted app
	}
	apps := []contracts.Application{
		acceptedApp("d-1", "p-1", created.Add(10*time.Hour)),
	}

	m := agg.Aggregate(augustWindow, time.UTC, duties, apps, nil)

	// d-2 is excluded from the mean, not counted as zero
	assert.InDelta(t, 10.0, m.AvgTimeToFillHours, 1e-9)
	assert.InDelta(t, 1.0, m.FillRate, 1e-9)
}

func TestAggregator_SpendSeparation(t *testing.T) {
	agg := NewAggregator(6, zerolog.Nop())

	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	earnings := []contracts.Earning{
		{ID: "e-1", DutyID: "d-1", PersonnelID: "p-1", Amount: 500, Status: contracts.PaymentPaid, EarnedDate: date},
		{ID: "e-2", DutyID: "d-2", PersonnelID: "p-1", Amount: 200, Status: contracts.PaymentPending, EarnedDate: date},
		{ID: "e-3", DutyID: "d-3", PersonnelID: "p-2", Amount: 100, Status: contracts.PaymentOverdue, EarnedDate: date},
		// Outside the window, ignored entirely
		{ID: "e-4", DutyID: "d-4", PersonnelID: "p-2", Amount: 999, Status: contracts.PaymentPaid, EarnedDate: date.AddDate(0, 2, 0)},
	}

	m := agg.Aggregate(augustWindow, time.UTC, nil, nil, earnings)

	assert.Equal(t, 500.0, m.TotalSpend)
	assert.Equal(t, 700.0, m.CommittedSpend)
	assert.LessOrEqual(t, m.TotalSpend, m.CommittedSpend)
}

func TestAggregator_TrendReusesSingleWindowRules(t *testing.T) {
	agg := NewAggregator(3, zerolog.Nop())

	june := time.Date(2026, 6, 5, 12, 0, 0, 0, time.UTC)
	july := time.Date(2026, 7, 5, 12, 0, 0, 0, time.UTC)

	duties := []contracts.Duty{
		testDuty("jun-1", june, contracts.DutyCompleted),
		testDuty("jun-2", june, contracts.DutyCancelled),
		testDuty("jul-1", july, contracts.DutyOpen),
	}
	apps := []contracts.Application{
		acceptedApp("jun-1", "p-1", june.Add(12*time.Hour)),
	}
	earnings := []contracts.Earning{
		{ID: "e-1", DutyID: "jun-1", PersonnelID: "p-1", Amount: 1140, Status: contracts.PaymentPaid, EarnedDate: june.AddDate(0, 0, 4)},
	}

	m := agg.Aggregate(augustWindow, time.UTC, duties, apps, earnings)

	// Report window (August) has no activity
	assert.Equal(t, 0, m.DutiesPosted)
	assert.Equal(t, 0.0, m.FillRate)

	assert.Len(t, m.Trend, 3)
	assert.Equal(t, "2026-06", m.Trend[0].Month)
	assert.InDelta(t, 0.5, m.Trend[0].FillRate, 1e-9) // 1 of 2 filled
	assert.Equal(t, 1140.0, m.Trend[0].Spend)

	assert.Equal(t, "2026-07", m.Trend[1].Month)
	assert.Equal(t, 0.0, m.Trend[1].FillRate) // 0 of 1
	assert.Equal(t, 0.0, m.Trend[1].Spend)

	assert.Equal(t, "2026-08", m.Trend[2].Month)
	assert.Equal(t, 0.0, m.Trend[2].FillRate)
}

func TestAcceptedTimes_DuplicateAcceptedKeepsEarliest(t *testing.T) {
	at1 := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	at2 := at1.Add(5 * time.Hour)

	apps := []contracts.Application{
		acceptedApp("d-1", "p-1", at2),
		acceptedApp("d-1", "p-2", at1),
		{ID: "a-3", DutyID: "d-1", PersonnelID: "p-3", Status: contracts.ApplicationRejected, CreatedAt: at1.Add(-time.Hour)},
	}

	accepted := acceptedTimes(apps)
	assert.Len(t, accepted, 1)
	assert.True(t, accepted["d-1"].Equal(at1))
}
