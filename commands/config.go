package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidag/xtimetracker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config KEY [VALUE]",
	Short: "Get or set a configuration value",
	Long: `Get or set a configuration value by its dotted key, for example
options.week_start or default_tags.myproject.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(appDir)
		if err != nil {
			return err
		}

		key := args[0]
		if len(args) == 1 {
			value := cfg.Get(key)
			if value == nil {
				return fmt.Errorf("no such key: %s", key)
			}
			cmd.Println(value)
			return nil
		}
		return cfg.Set(key, args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
