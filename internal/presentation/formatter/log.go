package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mattn/go-runewidth"

	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/util"
)

// LogFormatter renders a list of frames as a daily log.
type LogFormatter interface {
	Format(w io.Writer, frames []frame.Frame) error
}

// NewLogFormatter returns the log formatter for the named output format.
// reverse lists the most recent day first and only affects the plain form.
func NewLogFormatter(format string, reverse bool) (LogFormatter, error) {
	switch format {
	case FormatPlain:
		return plainLog{reverse: reverse}, nil
	case FormatJSON:
		return jsonLog{}, nil
	case FormatCSV:
		return csvLog{}, nil
	default:
		return nil, fmt.Errorf("invalid output format: %q", format)
	}
}

type plainLog struct {
	reverse bool
}

func (p plainLog) Format(w io.Writer, frames []frame.Frame) error {
	days := groupByDay(frames)
	width := termWidth()

	for i, day := range days {
		if p.reverse {
			day = days[len(days)-1-i]
		}

		var total time.Duration
		for _, f := range day.frames {
			total += f.Duration()
		}

		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n",
			styleDate(day.day.Format("Monday 02 January 2006")),
			styleTime(util.FormatDuration(total)))

		for _, f := range day.frames {
			line := fmt.Sprintf("\t%s  %s to %s  %11s  %s%s",
				styleID(util.ShortID(f.ID)),
				styleTime(f.Start.Format("15:04")),
				styleTime(f.Stop.Format("15:04")),
				util.FormatDuration(f.Duration()),
				styleProject(f.Project),
				TagList(f.Tags))
			// Overlong lines lose their color so truncation can work
			// on visible width alone.
			if plain := stripANSI(line); runewidth.StringWidth(plain) > width {
				line = runewidth.Truncate(plain, width, "…")
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

type jsonLog struct{}

func (jsonLog) Format(w io.Writer, frames []frame.Frame) error {
	entries := make([]map[string]any, 0, len(frames))
	for _, f := range frames {
		entries = append(entries, map[string]any{
			"id":      f.ID,
			"start":   f.Start.Format(time.RFC3339),
			"stop":    f.Stop.Format(time.RFC3339),
			"project": f.Project,
			"tags":    f.Tags,
		})
	}
	data, err := sonic.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type csvLog struct{}

func (csvLog) Format(w io.Writer, frames []frame.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "start", "stop", "project", "tags"}); err != nil {
		return err
	}
	for _, f := range frames {
		err := cw.Write([]string{
			util.ShortID(f.ID),
			f.Start.Format(csvTimeLayout),
			f.Stop.Format(csvTimeLayout),
			f.Project,
			strings.Join(f.Tags, ", "),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type dayGroup struct {
	day    time.Time
	frames []frame.Frame
}

// groupByDay buckets frames by their start day, days ascending and frames
// sorted by start within each day.
func groupByDay(frames []frame.Frame) []dayGroup {
	sorted := make([]frame.Frame, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	var days []dayGroup
	for _, f := range sorted {
		day := f.Day()
		if len(days) == 0 || !days[len(days)-1].day.Equal(day) {
			days = append(days, dayGroup{day: day})
		}
		days[len(days)-1].frames = append(days[len(days)-1].frames, f)
	}
	return days
}

// stripANSI removes color escape sequences from a line.
func stripANSI(line string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range line {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
