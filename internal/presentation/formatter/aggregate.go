package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/util"
)

// AggregateFormatter renders a list of per-day reports.
type AggregateFormatter interface {
	Format(w io.Writer, reports []*report.Report) error
}

// NewAggregateFormatter returns the aggregate formatter for the named output
// format.
func NewAggregateFormatter(format string) (AggregateFormatter, error) {
	switch format {
	case FormatPlain:
		return plainAggregate{}, nil
	case FormatJSON:
		return jsonAggregate{}, nil
	case FormatCSV:
		return csvAggregate{}, nil
	default:
		return nil, fmt.Errorf("invalid output format: %q", format)
	}
}

type plainAggregate struct{}

func (plainAggregate) Format(w io.Writer, reports []*report.Report) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s - %s\n",
			styleDate(r.Timespan.From.Format("Monday 02 January 2006")),
			styleTime(util.FormatDuration(seconds(r.Time))))
		for _, project := range r.Projects {
			fmt.Fprintf(w, "\t%s - %s\n",
				styleProject(project.Name),
				styleTime(util.FormatDuration(seconds(project.Time))))
		}
	}
	return nil
}

type jsonAggregate struct{}

func (jsonAggregate) Format(w io.Writer, reports []*report.Report) error {
	data, err := sonic.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type csvAggregate struct{}

func (csvAggregate) Format(w io.Writer, reports []*report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"from", "to", "project", "tag", "time"}); err != nil {
		return err
	}
	for _, r := range reports {
		from := r.Timespan.From.Format(csvTimeLayout)
		to := r.Timespan.To.Format(csvTimeLayout)
		for _, project := range r.Projects {
			if err := cw.Write([]string{from, to, project.Name, "", formatSeconds(project.Time)}); err != nil {
				return err
			}
			for _, tag := range project.Tags {
				if err := cw.Write([]string{from, to, project.Name, tag.Name, formatSeconds(tag.Time)}); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
