package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
	"github.com/davidag/xtimetracker/internal/tracker"
	"github.com/davidag/xtimetracker/internal/util"
)

var (
	statusProject bool
	statusTags    bool
	statusElapsed bool
	statusWatch   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !statusWatch {
			t, err := newTracker()
			if err != nil {
				return err
			}
			printStatus(cmd, t)
			return nil
		}

		// Watch mode keeps re-rendering whenever another process
		// rewrites the tracker files, until interrupted.
		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		render := func() {
			t, err := newTracker()
			if err != nil {
				cmd.PrintErrln(err)
				return
			}
			cmd.Printf("\r\033[K")
			printStatus(cmd, t)
		}

		render()
		t, err := newTracker()
		if err != nil {
			return err
		}
		return t.Watch(ctx, render)
	},
}

func printStatus(cmd *cobra.Command, t *tracker.Tracker) {
	cur := t.Current()
	if cur == nil {
		cmd.Println("No project started.")
		return
	}

	switch {
	case statusProject:
		cmd.Println(cur.Project)
	case statusTags:
		cmd.Println(strings.Join(cur.Tags, ", "))
	case statusElapsed:
		cmd.Println(util.FormatDuration(time.Since(cur.Start)))
	default:
		cmd.Printf("Project %s%s started %s (%s)\n",
			formatter.Project(cur.Project), formatter.TagList(cur.Tags),
			humanizeSince(cur.Start),
			cur.Start.Format("2006-01-02 15:04:05-0700"))
	}
}

// humanizeSince gives a rough relative description of a past time.
func humanizeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "seconds ago"
	case d < 2*time.Minute:
		return "a minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "an hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "a day ago"
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}

func init() {
	statusCmd.Flags().BoolVarP(&statusProject, "project", "p", false,
		"only output the project name")
	statusCmd.Flags().BoolVarP(&statusTags, "tags", "t", false,
		"only output the tags")
	statusCmd.Flags().BoolVarP(&statusElapsed, "elapsed", "e", false,
		"only output the elapsed time")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false,
		"keep refreshing as the tracker files change")
	rootCmd.AddCommand(statusCmd)
}
