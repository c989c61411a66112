package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var (
	logFlags   windowFlags
	logReverse bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show a daily log of recorded frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		opt, err := logFlags.options()
		if err != nil {
			return err
		}

		frames, err := t.Log(opt, logFlags.includeCurrent())
		if err != nil {
			return err
		}

		f, err := formatter.NewLogFormatter(logFlags.output, logReverse)
		if err != nil {
			return err
		}
		return f.Format(os.Stdout, frames)
	},
}

func init() {
	logFlags.register(logCmd, true)
	logCmd.Flags().BoolVarP(&logReverse, "reverse", "r", true,
		"list the most recent day first")
	rootCmd.AddCommand(logCmd)
}
