package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var mergeForce bool

var mergeCmd = &cobra.Command{
	Use:   "merge FRAMES_FILE",
	Short: "Merge frames from another frames file",
	Long: `Merge the frames of another frames file into the collection. Frames
with an unknown id are added. Frames whose id already exists but whose data
differs are conflicting and are skipped unless --force is given, in which case
the incoming frame wins.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		conflicting, merging, err := t.Merge(args[0])
		if err != nil {
			return err
		}

		for _, f := range conflicting {
			cmd.Printf("conflict: %s %s (%s)\n",
				formatter.ShortID(f.ID), formatter.Project(f.Project),
				formatter.Date(f.Start.Format("2006-01-02 15:04")))
		}

		apply := merging
		if mergeForce {
			apply = append(apply, conflicting...)
		}
		if err := t.ApplyMerge(apply); err != nil {
			return err
		}

		cmd.Printf("%d frames merged, %d conflicting\n", len(apply), len(conflicting))
		return nil
	},
}

func init() {
	mergeCmd.Flags().BoolVarP(&mergeForce, "force", "f", false, "overwrite conflicting frames with the incoming ones")
	rootCmd.AddCommand(mergeCmd)
}
