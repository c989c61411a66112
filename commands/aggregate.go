package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/core/report"
	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var aggregateFlags windowFlags

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Show per-day reports over a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		opt, err := aggregateFlags.options()
		if err != nil {
			return err
		}
		if opt.From.After(opt.To) {
			return fmt.Errorf("'from' must be anterior to 'to'")
		}

		include := aggregateFlags.includeCurrent()
		first := time.Date(opt.From.Year(), opt.From.Month(), opt.From.Day(),
			0, 0, 0, 0, time.Local)

		var reports []*report.Report
		for day := first; !day.After(opt.To); day = day.AddDate(0, 0, 1) {
			dayOpt := opt
			dayOpt.From = day
			dayOpt.To = day
			r, err := t.Report(dayOpt, include)
			if err != nil {
				return err
			}
			reports = append(reports, r)
		}

		f, err := formatter.NewAggregateFormatter(aggregateFlags.output)
		if err != nil {
			return err
		}
		return f.Format(os.Stdout, reports)
	},
}

func init() {
	aggregateFlags.register(aggregateCmd, false)
	rootCmd.AddCommand(aggregateCmd)
}
