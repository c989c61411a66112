package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var renameCmd = &cobra.Command{
	Use:   "rename (project|tag) OLD NEW",
	Short: "Rename a project or tag on every recorded frame",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}

		kind, oldName, newName := args[0], args[1], args[2]
		switch kind {
		case "project":
			if err := t.RenameProject(oldName, newName); err != nil {
				return err
			}
			cmd.Printf("Renamed project %s to %s\n",
				formatter.Project(oldName), formatter.Project(newName))
		case "tag":
			if err := t.RenameTag(oldName, newName); err != nil {
				return err
			}
			cmd.Printf("Renamed tag %s to %s\n",
				formatter.Tag(oldName), formatter.Tag(newName))
		default:
			return fmt.Errorf("invalid argument %q, expected \"project\" or \"tag\"", kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
