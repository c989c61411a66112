package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var reportFlags windowFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time totals by project and tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		opt, err := reportFlags.options()
		if err != nil {
			return err
		}

		r, err := t.Report(opt, reportFlags.includeCurrent())
		if err != nil {
			return err
		}

		f, err := formatter.NewReportFormatter(reportFlags.output)
		if err != nil {
			return err
		}
		return f.Format(os.Stdout, r)
	},
}

func init() {
	reportFlags.register(reportCmd, true)
	rootCmd.AddCommand(reportCmd)
}
