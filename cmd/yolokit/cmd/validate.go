package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/labelio"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every label file in the dataset",
	Long: `Check every label file in the dataset for format problems: wrong field
counts, non-numeric or out-of-range values, negative class ids and zero-size
boxes. The command exits non-zero when any issue is found.

Examples:
  yolokit validate --root ./dataset
  yolokit validate --root ./dataset --quiet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			return fmt.Errorf("--root is required")
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		images, err := dataset.DiscoverImages(labelio.ImagesDir(root))
		if err != nil {
			return fmt.Errorf("failed to discover images: %w", err)
		}
		if len(images) == 0 {
			return fmt.Errorf("no images found under %s", labelio.ImagesDir(root))
		}

		checked, labeled, broken := 0, 0, 0
		for _, imgPath := range images {
			path := labelio.LabelPath(root, imgPath)
			issues, err := labelio.ValidateFile(path)
			if err != nil {
				return fmt.Errorf("failed to validate %s: %w", path, err)
			}
			checked++
			if _, err := os.Stat(path); err == nil {
				labeled++
			}
			if len(issues) == 0 {
				continue
			}
			broken++
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", path)
				for _, issue := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
				}
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checked %d image(s): %d labeled, %d with issues\n",
			checked, labeled, broken)
		if broken > 0 {
			return fmt.Errorf("%d label file(s) with issues", broken)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("root", "r", "", "dataset root directory (required)")
	validateCmd.Flags().BoolP("quiet", "q", false, "print only the summary line")
}
