// Package commands wires the cobra command surface of xtimetracker: thin
// glue translating flags and arguments into tracker operations.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/logging"
)

var (
	appDir string
	debug  bool

	rootCmd = &cobra.Command{
		Use:   "xtimetracker",
		Short: "A personal command-line time tracker",
		Long: `xtimetracker records intervals of time spent on named projects with
optional tags, keeps them in local files and produces reports over a
date range.

Examples:
  xtimetracker start apollo11 +module +brakes   # begin tracking
  xtimetracker stop                             # record the interval
  xtimetracker log --week                       # daily log of this week
  xtimetracker report --month -p apollo11       # monthly totals by tag
  xtimetracker aggregate --from 2026-08-01 --to 2026-08-31`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if appDir == "" {
				appDir = defaultAppDir()
			}
			logging.Setup(appDir, debug)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&appDir, "dir", "",
		"application directory (default $XTIMETRACKER_DIR or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultAppDir() string {
	if dir := os.Getenv("XTIMETRACKER_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "xtimetracker")
}
