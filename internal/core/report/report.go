// Package report turns a filtered, time-ordered stream of frames into a
// nested aggregation: total duration per project, per-tag subtotals and a
// grand total over a requested time window.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/davidag/xtimetracker/internal/clock"
	"github.com/davidag/xtimetracker/internal/core/frame"
)

// ErrValidation indicates contradictory or malformed report options. It is
// raised before any filtering work begins; a failed report never mutates the
// frame collection.
var ErrValidation = errors.New("invalid report options")

// currentFrameID is the sentinel id of the synthetic frame representing the
// in-progress activity while a report is computed.
const currentFrameID = "current"

// Current describes the in-progress activity so it can participate in a
// report as a synthetic frame spanning from its start to now.
type Current struct {
	Project string
	Start   time.Time
	Tags    []string
}

// Options selects and restricts the frames a report covers.
type Options struct {
	From time.Time
	To   time.Time

	// Period, when set, overrides From with the start of the current
	// day/week/month/year (or the epoch for PeriodFull). WeekStart names
	// the first day of the week for PeriodWeek ("monday" by default).
	Period    Period
	WeekStart string

	Projects       []string
	Tags           []string
	IgnoreProjects []string
	IgnoreTags     []string

	// Current, when non-nil, transiently adds the live interval to the
	// collection so it is filtered and clipped like any recorded frame.
	Current *Current
}

// Report is the aggregation result. Per-tag times are a breakdown, not a
// partition: a frame carrying several tags contributes its full duration to
// each of them, so tag subtotals may exceed the project total.
type Report struct {
	Timespan Timespan         `json:"timespan"`
	Projects []ProjectSummary `json:"projects"`
	Time     float64          `json:"time"`
}

// Timespan is the snapped window the report covers.
type Timespan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ProjectSummary aggregates the time spent on one project.
type ProjectSummary struct {
	Name string       `json:"name"`
	Time float64      `json:"time"`
	Tags []TagSummary `json:"tags"`
}

// TagSummary aggregates the time spent on one tag within a project.
type TagSummary struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// Log validates the options and returns the frames of the requested window,
// clipped to its boundaries, in collection order. When a current activity is
// given, a synthetic frame is upserted for the duration of the call and
// removed before returning.
func Log(fs *frame.Frames, clk clock.Clock, opt Options) ([]frame.Frame, error) {
	if overlap(opt.Projects, opt.IgnoreProjects) {
		return nil, fmt.Errorf("%w: given projects can't be ignored at the same time", ErrValidation)
	}
	if overlap(opt.Tags, opt.IgnoreTags) {
		return nil, fmt.Errorf("%w: given tags can't be ignored at the same time", ErrValidation)
	}

	from := opt.From
	if opt.Period != PeriodNone {
		start, err := PeriodStart(clk, opt.Period, opt.WeekStart)
		if err != nil {
			return nil, err
		}
		from = start
	}

	if from.After(opt.To) {
		return nil, fmt.Errorf("%w: 'from' must be anterior to 'to'", ErrValidation)
	}

	if opt.Current != nil {
		cur := frame.New(opt.Current.Start, clk.Now(), opt.Current.Project,
			currentFrameID, opt.Current.Tags, clk.Now())
		if err := fs.Set(frame.IDKey(currentFrameID), cur); err != nil {
			return nil, err
		}
	}

	span := frame.NewSpan(from, opt.To, frame.TimeframeDay)
	frames := fs.Filter(frame.FilterOptions{
		Projects:       opt.Projects,
		Tags:           opt.Tags,
		IgnoreProjects: opt.IgnoreProjects,
		IgnoreTags:     opt.IgnoreTags,
		Span:           &span,
	})

	if opt.Current != nil {
		if err := fs.Delete(frame.IDKey(currentFrameID)); err != nil {
			return nil, err
		}
	}

	return frames, nil
}

// Generate builds the aggregated report for the requested window. Frames are
// grouped by project after sorting on that key, so group boundaries are runs
// of consecutive equal names.
func Generate(fs *frame.Frames, clk clock.Clock, opt Options) (*Report, error) {
	frames, err := Log(fs, clk, opt)
	if err != nil {
		return nil, err
	}

	from := opt.From
	if opt.Period != PeriodNone {
		// Validated by Log above, safe to recompute.
		from, _ = PeriodStart(clk, opt.Period, opt.WeekStart)
	}
	span := frame.NewSpan(from, opt.To, frame.TimeframeDay)

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Project < frames[j].Project
	})

	result := &Report{
		Timespan: Timespan{From: span.Start, To: span.Stop},
		Projects: []ProjectSummary{},
	}

	var total time.Duration
	for start := 0; start < len(frames); {
		end := start
		for end < len(frames) && frames[end].Project == frames[start].Project {
			end++
		}
		group := frames[start:end]

		var delta time.Duration
		for _, f := range group {
			delta += f.Duration()
		}
		total += delta

		summary := ProjectSummary{
			Name: group[0].Project,
			Time: delta.Seconds(),
			Tags: []TagSummary{},
		}

		for _, tag := range tagsToPrint(group, opt.Tags) {
			var tagDelta time.Duration
			for _, f := range group {
				if containsTag(f.Tags, tag) {
					tagDelta += f.Duration()
				}
			}
			summary.Tags = append(summary.Tags, TagSummary{Name: tag, Time: tagDelta.Seconds()})
		}

		result.Projects = append(result.Projects, summary)
		start = end
	}

	result.Time = total.Seconds()
	return result, nil
}

// tagsToPrint returns the sorted set of tags observed in the group,
// restricted to the selected tags when a tag filter was given.
func tagsToPrint(group []frame.Frame, selected []string) []string {
	seen := make(map[string]struct{})
	for _, f := range group {
		for _, tag := range f.Tags {
			if len(selected) > 0 && !containsTag(selected, tag) {
				continue
			}
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// overlap reports whether the include and exclude sets share an element.
func overlap(included, excluded []string) bool {
	for _, in := range included {
		for _, ex := range excluded {
			if in == ex {
				return true
			}
		}
	}
	return false
}
