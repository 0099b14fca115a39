package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/detector"
	"github.com/yolokit/yolokit/internal/labelio"
)

// predictCmd represents the predict command.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the detector over every dataset image",
	Long: `Run an ONNX detection model over every image in the dataset and write the
results as prediction files. Predictions live next to the label files and can
be reviewed and promoted to ground truth in the labeling server.

Examples:
  yolokit predict --root ./dataset --model yolov5s.onnx
  yolokit predict --root ./dataset --model yolov5s.onnx --conf-threshold 0.4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			return fmt.Errorf("--root is required")
		}

		modelPath := stringFlag(cmd, "model", cfg.Detector.ModelPath)
		if modelPath == "" {
			return fmt.Errorf("--model is required")
		}

		detCfg := cfg.ToDetectorConfig()
		detCfg.ModelPath = modelPath
		if cmd.Flags().Changed("conf-threshold") {
			detCfg.ConfThreshold, _ = cmd.Flags().GetFloat64("conf-threshold")
		}
		if cmd.Flags().Changed("iou-threshold") {
			detCfg.IoUThreshold, _ = cmd.Flags().GetFloat64("iou-threshold")
		}
		if cmd.Flags().Changed("gpu") {
			detCfg.UseGPU, _ = cmd.Flags().GetBool("gpu")
		}

		det, err := detector.New(detCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize detector: %w", err)
		}
		defer func() { _ = det.Close() }()

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

		ctx := cmd.Context()
		start := time.Now()
		processed, failed, total := 0, 0, 0

		for _, imgPath := range images {
			if err := ctx.Err(); err != nil {
				return err
			}

			img, err := dataset.LoadImage(imgPath)
			if err != nil {
				slog.Warn("Skipping unreadable image", "image", imgPath, "error", err)
				failed++
				continue
			}

			detections, err := det.Detect(context.Background(), img)
			if err != nil {
				slog.Warn("Detection failed", "image", imgPath, "error", err)
				failed++
				continue
			}

			b := img.Bounds()
			path := labelio.PredictionPath(root, imgPath)
			if err := labelio.Save(path, detector.Boxes(detections), b.Dx(), b.Dy()); err != nil {
				return fmt.Errorf("failed to write predictions for %s: %w", imgPath, err)
			}

			processed++
			total += len(detections)
			slog.Debug("Predicted", "image", imgPath, "detections", len(detections))
		}

		slog.Info("Prediction complete",
			"images", processed,
			"failed", failed,
			"detections", total,
			"duration", time.Since(start))
		fmt.Fprintf(cmd.OutOrStdout(), "Predicted %d image(s), %d detection(s), %d failure(s)\n",
			processed, total, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringP("root", "r", "", "dataset root directory (required)")
	predictCmd.Flags().StringP("model", "m", "", "ONNX detection model path (required)")
	predictCmd.Flags().Float64("conf-threshold", 0.25, "minimum detection confidence")
	predictCmd.Flags().Float64("iou-threshold", 0.45, "NMS IoU threshold")
	predictCmd.Flags().Bool("gpu", false, "enable CUDA acceleration")
}
