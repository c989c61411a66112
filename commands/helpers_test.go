package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidag/xtimetracker/internal/core/report"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "date and time",
			value: "2026-03-01 09:30",
			want:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local),
		},
		{
			name:  "date and time with seconds",
			value: "2026-03-01 09:30:15",
			want:  time.Date(2026, 3, 1, 9, 30, 15, 0, time.Local),
		},
		{
			name:  "date only resolves to midnight",
			value: "2026-03-01",
			want:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateTime(tt.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDateTimeAnchorsTimeOnToday(t *testing.T) {
	got, err := parseDateTime("09:30")
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), got.Year())
	assert.Equal(t, now.YearDay(), got.YearDay())
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestParseDateTimeRejectsGarbage(t *testing.T) {
	_, err := parseDateTime("yesterday evening")
	assert.Error(t, err)
}

func TestWindowFlagsDefaults(t *testing.T) {
	var wf windowFlags
	opt, err := wf.options()
	require.NoError(t, err)

	assert.Equal(t, report.PeriodNone, opt.Period)
	assert.WithinDuration(t, time.Now(), opt.To, time.Minute)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), opt.From, time.Minute)
}

func TestWindowFlagsPeriodPrecedence(t *testing.T) {
	tests := []struct {
		name string
		wf   windowFlags
		want report.Period
	}{
		{name: "day", wf: windowFlags{day: true}, want: report.PeriodDay},
		{name: "week beats day", wf: windowFlags{day: true, week: true}, want: report.PeriodWeek},
		{name: "full beats everything", wf: windowFlags{day: true, month: true, full: true}, want: report.PeriodFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := tt.wf.options()
			require.NoError(t, err)
			assert.Equal(t, tt.want, opt.Period)
		})
	}
}

func TestWindowFlagsIncludeCurrent(t *testing.T) {
	var wf windowFlags
	assert.Nil(t, wf.includeCurrent())

	wf.current = true
	include := wf.includeCurrent()
	require.NotNil(t, include)
	assert.True(t, *include)

	wf = windowFlags{noCurrent: true}
	include = wf.includeCurrent()
	require.NotNil(t, include)
	assert.False(t, *include)
}

func TestWindowFlagsParsesBounds(t *testing.T) {
	wf := windowFlags{from: "2026-03-01", to: "2026-03-08"}
	opt, err := wf.options()
	require.NoError(t, err)
	assert.True(t, opt.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, opt.To.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)))

	wf = windowFlags{from: "nope"}
	_, err = wf.options()
	assert.Error(t, err)
}
