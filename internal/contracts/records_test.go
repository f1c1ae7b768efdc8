package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFacilitySettings_Normalize(t *testing.T) {
	tests := []struct {
		name          string
		in            FacilitySettings
		wantThreshold float64
		wantBudget    float64
		wantInvalid   bool
		wantHorizon   int
	}{
		{
			name:          "valid settings untouched",
			in:            FacilitySettings{MonthlyBudget: 100000, AlertThreshold: 0.8, HorizonDays: 14, Timezone: "UTC"},
			wantThreshold: 0.8,
			wantBudget:    100000,
			wantHorizon:   14,
		},
		{
			name:          "threshold above one clamped",
			in:            FacilitySettings{MonthlyBudget: 1000, AlertThreshold: 1.5, HorizonDays: 14},
			wantThreshold: 1.0,
			wantBudget:    1000,
			wantHorizon:   14,
		},
		{
			name:          "negative threshold clamped",
			in:            FacilitySettings{MonthlyBudget: 1000, AlertThreshold: -0.2, HorizonDays: 7},
			wantThreshold: 0,
			wantBudget:    1000,
			wantHorizon:   7,
		},
		{
			name:          "negative budget zeroed and flagged",
			in:            FacilitySettings{MonthlyBudget: -500, AlertThreshold: 0.8, HorizonDays: 14},
			wantThreshold: 0.8,
			wantBudget:    0,
			wantInvalid:   true,
			wantHorizon:   14,
		},
		{
			name:          "zero horizon defaulted",
			in:            FacilitySettings{MonthlyBudget: 1000, AlertThreshold: 0.8},
			wantThreshold: 0.8,
			wantBudget:    1000,
			wantHorizon:   DefaultHorizonDays,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantThreshold, got.AlertThreshold)
			assert.Equal(t, tt.wantBudget, got.MonthlyBudget)
			assert.Equal(t, tt.wantInvalid, got.BudgetInvalid)
			assert.Equal(t, tt.wantHorizon, got.HorizonDays)
		})
	}
}

func TestFacilitySettings_Location(t *testing.T) {
	s := FacilitySettings{Timezone: "America/New_York"}
	assert.Equal(t, "America/New_York", s.Location().String())

	// Unknown timezone falls back to UTC
	s = FacilitySettings{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, s.Location())

	s = FacilitySettings{}.Normalize()
	assert.Equal(t, time.UTC, s.Location())
}

func TestDutyStatus(t *testing.T) {
	assert.True(t, DutyFilled.Filled())
	assert.True(t, DutyCompleted.Filled())
	assert.False(t, DutyOpen.Filled())
	assert.False(t, DutyCancelled.Filled())

	assert.True(t, DutyCompleted.Terminal())
	assert.True(t, DutyCancelled.Terminal())
	assert.False(t, DutyFilled.Terminal())
}

func TestDuty_DurationHours(t *testing.T) {
	start := time.Date(2026, 8, 1, 7, 0, 0, 0, time.UTC)
	d := Duty{StartTime: start, EndTime: start.Add(12 * time.Hour)}
	assert.Equal(t, 12.0, d.DurationHours())

	// End before start never goes negative
	d = Duty{StartTime: start, EndTime: start.Add(-time.Hour)}
	assert.Equal(t, 0.0, d.DurationHours())
}

func TestTrailingMonths(t *testing.T) {
	anchor := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	windows := TrailingMonths(anchor, 6, time.UTC)

	assert.Len(t, windows, 6)
	assert.Equal(t, "2026-03", windows[0].MonthKey())
	assert.Equal(t, "2026-08", windows[5].MonthKey())

	// Months are contiguous
	for i := 1; i < len(windows); i++ {
		assert.True(t, windows[i].Start.Equal(windows[i-1].End))
	}
}

func TestCurrentMonthWindow(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	now := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC) // Aug 31 UTC is still Aug in Chicago
	w := CurrentMonthWindow(now, loc)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc), w.End)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(w.End))
}
