package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/clock"
	"github.com/davidag/xtimetracker/internal/config"
	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/data/storage"
	"github.com/davidag/xtimetracker/internal/tracker"
)

// newTracker loads config and persisted state from the application directory.
func newTracker() (*tracker.Tracker, error) {
	cfg, err := config.Load(appDir)
	if err != nil {
		return nil, err
	}
	return tracker.New(storage.NewStore(appDir), cfg, clock.RealClock{})
}

// dateTimeLayouts are the accepted forms for --from/--to/--at values, tried
// in order. Date-only values resolve to local midnight, time-only values to
// today.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// parseDateTime parses a user-supplied date/time in the local timezone.
func parseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err != nil {
			continue
		}
		// Time-only layouts land on year 0; anchor them on today.
		if t.Year() == 0 {
			now := time.Now()
			t = time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date/time: %q", value)
}

// frameFromArgument resolves a command-line frame reference: a negative
// position (-1 is the last frame) or an id prefix. Only negative positions
// are treated as indexes, since a positive number might be an existing id.
func frameFromArgument(t *tracker.Tracker, arg string) (frame.Frame, error) {
	if i, err := strconv.Atoi(arg); err == nil && i < 0 {
		return t.Frames().ByIndex(i)
	}
	return t.Frames().ByID(arg)
}

// windowFlags is the flag set shared by log, report and aggregate.
type windowFlags struct {
	from, to        string
	day, week       bool
	month, year     bool
	full            bool
	projects, tags  []string
	ignoreProjects  []string
	ignoreTags      []string
	current         bool
	noCurrent       bool
	output          string
}

func (wf *windowFlags) register(cmd *cobra.Command, periods bool) {
	cmd.Flags().StringVarP(&wf.from, "from", "f", "", "start of the window (default 7 days ago)")
	cmd.Flags().StringVarP(&wf.to, "to", "t", "", "end of the window (default now)")
	if periods {
		cmd.Flags().BoolVarP(&wf.day, "day", "d", false, "window over the current day")
		cmd.Flags().BoolVarP(&wf.week, "week", "w", false, "window over the current week")
		cmd.Flags().BoolVarP(&wf.month, "month", "m", false, "window over the current month")
		cmd.Flags().BoolVarP(&wf.year, "year", "y", false, "window over the current year")
		cmd.Flags().BoolVarP(&wf.full, "full", "u", false, "window over the full recorded history")
	}
	cmd.Flags().StringArrayVarP(&wf.projects, "project", "p", nil, "only include frames of this project (repeatable)")
	cmd.Flags().StringArrayVarP(&wf.tags, "tag", "T", nil, "only include frames carrying this tag (repeatable)")
	cmd.Flags().StringArrayVar(&wf.ignoreProjects, "ignore-project", nil, "exclude frames of this project (repeatable)")
	cmd.Flags().StringArrayVar(&wf.ignoreTags, "ignore-tag", nil, "exclude frames carrying this tag (repeatable)")
	cmd.Flags().BoolVarP(&wf.current, "current", "c", false, "include the running activity")
	cmd.Flags().BoolVarP(&wf.noCurrent, "no-current", "C", false, "exclude the running activity")
	cmd.Flags().StringVarP(&wf.output, "output", "o", "plain", "output format (plain, json, csv)")
}

// options converts the flags into report options, defaulting the window to
// the last seven days.
func (wf *windowFlags) options() (report.Options, error) {
	now := time.Now()
	opt := report.Options{
		From:           now.AddDate(0, 0, -7),
		To:             now,
		Projects:       wf.projects,
		Tags:           wf.tags,
		IgnoreProjects: wf.ignoreProjects,
		IgnoreTags:     wf.ignoreTags,
	}

	var err error
	if wf.from != "" {
		if opt.From, err = parseDateTime(wf.from); err != nil {
			return opt, err
		}
	}
	if wf.to != "" {
		if opt.To, err = parseDateTime(wf.to); err != nil {
			return opt, err
		}
	}

	// Later period flags override earlier ones, full having the last word.
	if wf.day {
		opt.Period = report.PeriodDay
	}
	if wf.week {
		opt.Period = report.PeriodWeek
	}
	if wf.month {
		opt.Period = report.PeriodMonth
	}
	if wf.year {
		opt.Period = report.PeriodYear
	}
	if wf.full {
		opt.Period = report.PeriodFull
	}
	return opt, nil
}

// includeCurrent returns the tri-state override for including the running
// activity: nil when neither flag was given.
func (wf *windowFlags) includeCurrent() *bool {
	switch {
	case wf.current:
		v := true
		return &v
	case wf.noCurrent:
		v := false
		return &v
	}
	return nil
}
