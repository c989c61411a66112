package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Drop the running activity without recording it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		old, err := t.Cancel()
		if err != nil {
			return err
		}
		if err := t.Save(); err != nil {
			return err
		}

		cmd.Printf("Canceling the timer for project %s%s\n",
			formatter.Project(old.Project), formatter.TagList(old.Tags))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}
