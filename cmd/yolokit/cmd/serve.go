package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/detector"
	"github.com/yolokit/yolokit/internal/server"
)

// stringFlag returns the flag value when it was set on the command line,
// otherwise the configured fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the labeling HTTP server",
	Long: `Start an HTTP server that provides REST and WebSocket API endpoints for
interactive dataset labeling.

The server provides the following endpoints:
  GET  /state            - Annotation state for the current image
  POST /navigate         - Move between dataset images
  POST /boxes            - Draw a new ground-truth box
  POST /predict          - Run the detector on the current image
  POST /shapes           - Run a classical shape finder
  GET  /ws               - WebSocket for interactive box editing
  GET  /health           - Health check endpoint
  GET  /metrics          - Prometheus metrics

Examples:
  yolokit serve --root ./dataset
  yolokit serve --root ./dataset --model yolov5s.onnx --port 3000
  yolokit serve --root ./dataset --host 0.0.0.0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			return fmt.Errorf("--root is required")
		}

		host := stringFlag(cmd, "host", cfg.Server.Host)
		port := intFlag(cmd, "port", cfg.Server.Port)
		corsOrigin := stringFlag(cmd, "cors-origin", cfg.Server.CORSOrigin)
		timeout := intFlag(cmd, "timeout", cfg.Server.TimeoutSec)
		shutdownTimeout := intFlag(cmd, "shutdown-timeout", cfg.Server.ShutdownTimeout)
		modelPath := stringFlag(cmd, "model", cfg.Detector.ModelPath)

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		session, err := dataset.Open(root)
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}
		session.SetCanvasSize(cfg.Labeling.CanvasWidth, cfg.Labeling.CanvasHeight)
		session.SetAutosave(cfg.Labeling.Autosave)
		session.SetDefaultClass(cfg.Labeling.DefaultClass)

		// The detector is optional; without a model the predict endpoints
		// report service unavailable.
		var det *detector.Detector
		if modelPath != "" {
			detCfg := cfg.ToDetectorConfig()
			detCfg.ModelPath = modelPath
			det, err = detector.New(detCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize detector: %w", err)
			}
		}

		labelServer := server.NewServer(session, det, server.Config{
			Host:         host,
			Port:         port,
			CORSOrigin:   corsOrigin,
			TimeoutSec:   timeout,
			IoUThreshold: cfg.Labeling.IoUThreshold,
			ShapeParams:  cfg.ToShapeParams(),
		})
		defer func() { _ = labelServer.Close() }()

		mux := http.NewServeMux()
		labelServer.SetupRoutes(mux)
		mux.Handle("/metrics", promhttp.Handler())

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(timeout) * time.Second,
			WriteTimeout:      time.Duration(timeout) * time.Second,
		}

		go func() {
			slog.Info("labeling server listening", "host", host, "port", port, "root", root)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("labeling server failed", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		slog.Info("shutting down", "timeout_sec", shutdownTimeout)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
			time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
		}
		if err := labelServer.Close(); err != nil {
			slog.Error("server cleanup failed", "error", err)
		}
		slog.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("root", "r", "", "dataset root directory (required)")
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().StringP("model", "m", "", "ONNX detection model path (optional)")
}
