package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
	"github.com/davidag/xtimetracker/internal/tracker"
	"github.com/davidag/xtimetracker/internal/util"
)

var startNoGap bool

var startCmd = &cobra.Command{
	Use:   "start PROJECT [+TAG ...]",
	Short: "Start tracking an activity",
	Long: `Start tracking time for the given project. Tags are words prefixed
with a '+'; a tag extends over the following words up to the next '+':

  xtimetracker start apollo11 +module +brakes with fluid`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		project := util.ParseProject(args)
		tags := util.ParseTags(args)

		if t.IsStarted() && t.Config().Options.StopOnStart {
			stopped, err := t.Stop(time.Time{})
			if err != nil {
				return err
			}
			printStopped(cmd, stopped)
		}

		cur, err := t.Start(project, tags, !startNoGap)
		if errors.Is(err, tracker.ErrAlreadyStarted) {
			return fmt.Errorf("project %s is already started", t.Current().Project)
		}
		if err != nil {
			return err
		}
		if err := t.Save(); err != nil {
			return err
		}

		cmd.Printf("Starting project %s%s at %s\n",
			formatter.Project(cur.Project), formatter.TagList(cur.Tags),
			cur.Start.Format("15:04"))
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVarP(&startNoGap, "no-gap", "G", false,
		"start where the last recorded frame stopped, leaving no gap")
	rootCmd.AddCommand(startCmd)
}
