package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List all recorded projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}
		for _, project := range t.Projects(nil) {
			cmd.Println(formatter.Project(project))
		}
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all recorded tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}
		for _, tag := range t.Tags(nil) {
			cmd.Println(formatter.Tag(tag))
		}
		return nil
	},
}

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "List the ids of all recorded frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}
		for _, id := range t.Frames().IDs() {
			cmd.Println(formatter.ShortID(id))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd, tagsCmd, framesCmd)
}
