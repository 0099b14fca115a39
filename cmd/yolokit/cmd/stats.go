package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/labelio"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dataset annotation statistics",
	Long: `Print statistics about the dataset: image and label counts, boxes per
class, and how many images are still unlabeled.

Examples:
  yolokit stats --root ./dataset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			return fmt.Errorf("--root is required")
		}

		images, err := dataset.DiscoverImages(labelio.ImagesDir(root))
		if err != nil {
			return fmt.Errorf("failed to discover images: %w", err)
		}
		if len(images) == 0 {
			return fmt.Errorf("no images found under %s", labelio.ImagesDir(root))
		}

		classes, err := dataset.LoadClasses(root)
		if err != nil {
			return fmt.Errorf("failed to load class names: %w", err)
		}

		labeled, totalBoxes := 0, 0
		perClass := make(map[int]int)
		for _, imgPath := range images {
			w, h, err := dataset.ImageSize(imgPath)
			if err != nil {
				continue
			}
			boxes, err := labelio.Load(labelio.LabelPath(root, imgPath), w, h)
			if err != nil {
				return fmt.Errorf("failed to read labels for %s: %w", imgPath, err)
			}
			if len(boxes) > 0 {
				labeled++
			}
			totalBoxes += len(boxes)
			for _, b := range boxes {
				perClass[b.Class]++
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Images:    %d\n", len(images))
		fmt.Fprintf(out, "Labeled:   %d\n", labeled)
		fmt.Fprintf(out, "Unlabeled: %d\n", len(images)-labeled)
		fmt.Fprintf(out, "Boxes:     %d\n", totalBoxes)

		if len(perClass) > 0 {
			fmt.Fprintln(out, "Per class:")
			ids := make([]int, 0, len(perClass))
			for id := range perClass {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				name := classes[id]
				if name == "" {
					name = fmt.Sprintf("class %d", id)
				}
				fmt.Fprintf(out, "  %-20s %d\n", name, perClass[id])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("root", "r", "", "dataset root directory (required)")
}
