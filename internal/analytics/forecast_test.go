package analytics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/wardline/medshift/backend/internal/contracts"
)

func upcomingDuty(id string, status contracts.DutyStatus) contracts.Duty {
	start := time.Date(2026, 9, 5, 7, 0, 0, 0, time.UTC)
	return contracts.Duty{
		ID:         id,
		FacilityID: "fac-001",
		StartTime:  start,
		EndTime:    start.Add(12 * time.Hour),
		HourlyRate: 90,
		Status:     status,
		CreatedAt:  start.AddDate(0, 0, -10),
	}
}

func TestForecaster_Project(t *testing.T) {
	f := NewForecaster(zerolog.Nop())

	tests := []struct {
		name         string
		upcoming     []contracts.Duty
		wantShifts   int
		wantUnfilled int
		wantRatio    float64
		wantLevel    contracts.AlertLevel
	}{
		{
			name:      "no upcoming shifts",
			upcoming:  nil,
			wantLevel: contracts.AlertNone,
		},
		{
			name: "all filled",
			upcoming: []contracts.Duty{
				upcomingDuty("d-1", contracts.DutyFilled),
				upcomingDuty("d-2", contracts.DutyFilled),
			},
			wantShifts: 2,
			wantLevel:  contracts.AlertNone,
		},
		{
			name: "small gap is elevated",
			upcoming: []contracts.Duty{
				upcomingDuty("d-1", contracts.DutyOpen),
				upcomingDuty("d-2", contracts.DutyFilled),
				upcomingDuty("d-3", contracts.DutyFilled),
				upcomingDuty("d-4", contracts.DutyFilled),
			},
			wantShifts:   4,
			wantUnfilled: 1,
			wantRatio:    0.25,
			wantLevel:    contracts.AlertElevated,
		},
		{
			name: "half open is critical",
			upcoming: []contracts.Duty{
				upcomingDuty("d-1", contracts.DutyOpen),
				upcomingDuty("d-2", contracts.DutyFilled),
			},
			wantShifts:   2,
			wantUnfilled: 1,
			wantRatio:    0.5,
			wantLevel:    contracts.AlertCritical,
		},
		{
			name: "terminal records skipped",
			upcoming: []contracts.Duty{
				upcomingDuty("d-1", contracts.DutyOpen),
				upcomingDuty("d-2", contracts.DutyCancelled),
				upcomingDuty("d-3", contracts.DutyCompleted),
			},
			wantShifts:   1,
			wantUnfilled: 1,
			wantRatio:    1.0,
			wantLevel:    contracts.AlertCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := f.Project(tt.upcoming)
			assert.Equal(t, tt.wantShifts, block.UpcomingShifts)
			assert.Equal(t, tt.wantUnfilled, block.UnfilledUpcoming)
			assert.InDelta(t, tt.wantRatio, block.StaffingGapRatio, 1e-9)
			assert.Equal(t, tt.wantLevel, block.AlertLevel)
			assert.GreaterOrEqual(t, block.StaffingGapRatio, 0.0)
			assert.LessOrEqual(t, block.StaffingGapRatio, 1.0)
		})
	}
}

func TestForecaster_MajorityOpenIsCritical(t *testing.T) {
	// 5 upcoming, 3 OPEN: gap 0.6, CRITICAL
	f := NewForecaster(zerolog.Nop())

	upcoming := []contracts.Duty{
		upcomingDuty("d-1", contracts.DutyOpen),
		upcomingDuty("d-2", contracts.DutyOpen),
		upcomingDuty("d-3", contracts.DutyOpen),
		upcomingDuty("d-4", contracts.DutyFilled),
		upcomingDuty("d-5", contracts.DutyFilled),
	}

	block := f.Project(upcoming)

	assert.Equal(t, 5, block.UpcomingShifts)
	assert.Equal(t, 3, block.UnfilledUpcoming)
	assert.InDelta(t, 0.6, block.StaffingGapRatio, 1e-9)
	assert.Equal(t, contracts.AlertCritical, block.AlertLevel)
}
