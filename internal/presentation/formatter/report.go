package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mattn/go-runewidth"

	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/util"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// ReportFormatter renders an aggregated report.
type ReportFormatter interface {
	Format(w io.Writer, r *report.Report) error
}

// NewReportFormatter returns the formatter for the named output format.
func NewReportFormatter(format string) (ReportFormatter, error) {
	switch format {
	case FormatPlain:
		return plainReport{}, nil
	case FormatJSON:
		return jsonReport{}, nil
	case FormatCSV:
		return csvReport{}, nil
	default:
		return nil, fmt.Errorf("invalid output format: %q", format)
	}
}

type plainReport struct{}

func (plainReport) Format(w io.Writer, r *report.Report) error {
	fmt.Fprintf(w, "%s -> %s\n\n",
		styleDate(r.Timespan.From.Format("Mon 02 January 2006")),
		styleDate(r.Timespan.To.Format("Mon 02 January 2006")))

	for _, project := range r.Projects {
		fmt.Fprintf(w, "%s - %s\n",
			styleProject(project.Name),
			styleTime(util.FormatDuration(seconds(project.Time))))

		// Right-align tag durations on the longest tag name.
		width := 0
		for _, tag := range project.Tags {
			if tw := runewidth.StringWidth(tag.Name); tw > width {
				width = tw
			}
		}
		for _, tag := range project.Tags {
			padding := width - runewidth.StringWidth(tag.Name)
			fmt.Fprintf(w, "\t[%s %*s%s]\n",
				styleTag(tag.Name), padding, "",
				styleTime(util.FormatDuration(seconds(tag.Time))))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %s\n", styleTime(util.FormatDuration(seconds(r.Time))))
	return nil
}

type jsonReport struct{}

func (jsonReport) Format(w io.Writer, r *report.Report) error {
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type csvReport struct{}

// Format flattens the report: one row per project with an empty tag column,
// then one row per project/tag pair. Rows with an empty tag sum up to the
// report total.
func (csvReport) Format(w io.Writer, r *report.Report) error {
	cw := csv.NewWriter(w)
	from := r.Timespan.From.Format(csvTimeLayout)
	to := r.Timespan.To.Format(csvTimeLayout)

	if err := cw.Write([]string{"from", "to", "project", "tag", "time"}); err != nil {
		return err
	}
	for _, project := range r.Projects {
		rows := [][]string{{from, to, project.Name, "", formatSeconds(project.Time)}}
		for _, tag := range project.Tags {
			rows = append(rows, []string{from, to, project.Name, tag.Name, formatSeconds(tag.Time)})
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
