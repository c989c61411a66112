package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var stopAt string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking and record the frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		at := time.Time{}
		if stopAt != "" {
			if at, err = parseDateTime(stopAt); err != nil {
				return err
			}
		}

		f, err := t.Stop(at)
		if err != nil {
			return err
		}
		if err := t.Save(); err != nil {
			return err
		}

		printStopped(cmd, f)
		return nil
	},
}

func printStopped(cmd *cobra.Command, f frame.Frame) {
	cmd.Printf("Stopping project %s%s, started %s and stopped %s (id: %s)\n",
		formatter.Project(f.Project), formatter.TagList(f.Tags),
		f.Start.Format("15:04"), f.Stop.Format("15:04"),
		formatter.ShortID(f.ID))
}

func init() {
	stopCmd.Flags().StringVar(&stopAt, "at", "",
		"stop the activity at this time instead of now")
	rootCmd.AddCommand(stopCmd)
}
