package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/core/frame"
	"github.com/davidag/xtimetracker/internal/presentation/formatter"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove FRAME",
	Short: "Remove a frame by id or index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTracker()
		if err != nil {
			return err
		}
		f, err := frameFromArgument(t, args[0])
		if err != nil {
			return err
		}
		if !removeForce {
			prompt := fmt.Sprintf("You are about to remove frame %s started %s, continue? [y/N] ",
				describeFrame(f), formatter.Date(f.Start.Format("2006-01-02 15:04")))
			ok, err := confirm(cmd, prompt)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := t.Remove(frame.IDKey(f.ID)); err != nil {
			return err
		}
		cmd.Println("Frame removed.")
		return nil
	},
}

func describeFrame(f frame.Frame) string {
	s := formatter.Project(f.Project)
	if len(f.Tags) > 0 {
		s += formatter.TagList(f.Tags)
	}
	return s
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	cmd.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "remove without confirmation")
	rootCmd.AddCommand(removeCmd)
}
