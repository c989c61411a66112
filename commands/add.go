package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
	"github.com/davidag/xtimetracker/internal/util"
)

var (
	addFrom string
	addTo   string
)

var addCmd = &cobra.Command{
	Use:   "add PROJECT [+TAG ...]",
	Short: "Record a finished activity directly",
	Long: `Record an activity that was never started, with explicit boundaries:

  xtimetracker add apollo11 +reentry --from "2026-08-31 09:00" --to "2026-08-31 11:30"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addFrom == "" || addTo == "" {
			return errors.New("both --from and --to are required")
		}

		t, err := newTracker()
		if err != nil {
			return err
		}

		from, err := parseDateTime(addFrom)
		if err != nil {
			return err
		}
		to, err := parseDateTime(addTo)
		if err != nil {
			return err
		}

		f, err := t.Add(util.ParseProject(args), from, to, util.ParseTags(args))
		if err != nil {
			return err
		}
		if err := t.Save(); err != nil {
			return err
		}

		cmd.Printf("Adding project %s%s, started %s and stopped %s (id: %s)\n",
			formatter.Project(f.Project), formatter.TagList(f.Tags),
			f.Start.Format("2006-01-02 15:04"), f.Stop.Format("2006-01-02 15:04"),
			formatter.ShortID(f.ID))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addFrom, "from", "f", "", "start of the added activity")
	addCmd.Flags().StringVarP(&addTo, "to", "t", "", "end of the added activity")
	rootCmd.AddCommand(addCmd)
}
