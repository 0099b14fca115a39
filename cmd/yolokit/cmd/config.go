package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a default configuration file",
	Long: `Write a configuration file populated with every setting at its default
value, as a starting point for customization.

Examples:
  yolokit config
  yolokit config --output /etc/yolokit/yolokit.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := config.GenerateDefaultConfigFile(output); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("output", "o", "yolokit.yaml", "output file path")
}
