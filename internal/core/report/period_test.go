package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	// A Wednesday afternoon.
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.Local)
	clk := mockClock{now: now}

	tests := []struct {
		name      string
		period    Period
		weekStart string
		want      time.Time
	}{
		{
			name:   "day",
			period: PeriodDay,
			want:   time.Date(2026, 8, 26, 0, 0, 0, 0, time.Local),
		},
		{
			name:   "week defaults to monday",
			period: PeriodWeek,
			want:   time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "week starting sunday",
			period:    PeriodWeek,
			weekStart: "sunday",
			want:      time.Date(2026, 8, 23, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "week starting tuesday",
			period:    PeriodWeek,
			weekStart: "tuesday",
			want:      time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local),
		},
		{
			// Thursday is later in the week than the current Wednesday,
			// so the previous Thursday is used.
			name:      "week start never in the future",
			period:    PeriodWeek,
			weekStart: "thursday",
			want:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "unrecognized week start falls back to monday",
			period:    PeriodWeek,
			weekStart: "someday",
			want:      time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local),
		},
		{
			name:   "month",
			period: PeriodMonth,
			want:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:   "year",
			period: PeriodYear,
			want:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:   "full",
			period: PeriodFull,
			want:   time.Unix(0, 0).In(time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodStart(clk, tt.period, tt.weekStart)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPeriodStartRejectsUnknownPeriod(t *testing.T) {
	clk := mockClock{now: time.Date(2026, 8, 26, 15, 30, 0, 0, time.Local)}

	_, err := PeriodStart(clk, Period(42), "")
	assert.ErrorIs(t, err, ErrValidation)
}
