package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/labelio"
	"github.com/yolokit/yolokit/internal/shapes"
)

// shapesCmd represents the shapes command.
var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Run a classical shape finder over every dataset image",
	Long: `Run a classical shape finder over every image in the dataset and write the
found regions as prediction files. Shape finders need no model; they detect
geometric structure (rectangles, triangles, polygons, circles) or a dominant
green region via an excess-green mask.

Examples:
  yolokit shapes --root ./dataset --kind rectangles
  yolokit shapes --root ./dataset --kind circles --class 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			return fmt.Errorf("--root is required")
		}
		kind, _ := cmd.Flags().GetString("kind")
		class, _ := cmd.Flags().GetInt("class")

		params := cfg.ToShapeParams()

		images, err := dataset.DiscoverImages(labelio.ImagesDir(root))
		if err != nil {
			return fmt.Errorf("failed to discover images: %w", err)
		}
		if len(images) == 0 {
			return fmt.Errorf("no images found under %s", labelio.ImagesDir(root))
		}
		if err := os.MkdirAll(labelio.PredictionsDir(root), 0o750); err != nil {
			return fmt.Errorf("failed to create predictions directory: %w", err)
		}

		start := time.Now()
		processed, found := 0, 0

		for _, imgPath := range images {
			img, err := dataset.LoadImage(imgPath)
			if err != nil {
				slog.Warn("Skipping unreadable image", "image", imgPath, "error", err)
				continue
			}

			var cands []shapes.Candidate
			switch kind {
			case "rectangles":
				cands = shapes.FindRectangles(img, params)
			case "triangles":
				cands = shapes.FindTriangles(img, params)
			case "polygons":
				cands = shapes.FindPolygons(img, params)
			case "circles":
				cands = shapes.FindCircles(img, params)
			case "green":
				if rect, ok := shapes.ExcessGreen(img, params.GreenThreshold); ok {
					cands = []shapes.Candidate{{Rect: rect, Vertices: 4, Confidence: 1}}
				}
			default:
				return fmt.Errorf("unknown shape kind %q (rectangles, triangles, polygons, circles, green)", kind)
			}

			b := img.Bounds()
			path := labelio.PredictionPath(root, imgPath)
			if err := labelio.Save(path, shapes.Boxes(cands, class), b.Dx(), b.Dy()); err != nil {
				return fmt.Errorf("failed to write predictions for %s: %w", imgPath, err)
			}

			processed++
			found += len(cands)
			slog.Debug("Shapes found", "image", imgPath, "kind", kind, "count", len(cands))
		}

		slog.Info("Shape search complete",
			"images", processed,
			"kind", kind,
			"found", found,
			"duration", time.Since(start))
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d shape(s) across %d image(s)\n", found, processed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shapesCmd)
	shapesCmd.Flags().StringP("root", "r", "", "dataset root directory (required)")
	shapesCmd.Flags().StringP("kind", "k", "rectangles",
		"shape kind: rectangles, triangles, polygons, circles or green")
	shapesCmd.Flags().IntP("class", "c", 0, "class id assigned to found shapes")
}
