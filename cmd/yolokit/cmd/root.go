package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yolokit/yolokit/internal/config"
	"github.com/yolokit/yolokit/internal/version"
)

var (
	configLoader *config.Loader
	globalConfig *config.Config
	cfgFile      string
)

var rootCmd = &cobra.Command{
	Use:   "yolokit",
	Short: "Dataset labeling toolkit for YOLO object detection",
	Long: `A toolkit for building and maintaining YOLO object-detection datasets.

This tool provides:
- A labeling server with a REST and WebSocket API for interactive annotation
- Batch prediction over a dataset with an ONNX detection model
- Classical shape finders (rectangles, triangles, polygons, circles) as
  annotation suggestions
- Label file validation and dataset statistics

Examples:
  yolokit serve --root ./dataset
  yolokit predict --root ./dataset --model yolov5s.onnx
  yolokit validate --root ./dataset
  yolokit stats --root ./dataset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wantVersion, _ := cmd.PersistentFlags().GetBool("version"); wantVersion {
			ver, commit, date := version.Info()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "yolokit version %s\n", ver)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", commit)
			_, _ = fmt.Fprintf(out, "Date: %s\n", date)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand exposes the root command so tests can drive it without
// going through os.Exit.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/yolokit, /etc/yolokit)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("version", false, "print version information and exit")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevelFromConfig(globalConfig),
		})
		slog.SetDefault(slog.New(handler))
	}
}

func logLevelFromConfig(cfg *config.Config) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initConfig loads the configuration from file, environment, and defaults.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the effective configuration. It re-unmarshals through
// viper so values bound to CLI flags after the initial load are included.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	var cfg config.Config
	if err := GetConfigLoader().GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying flag overrides: %v\n", err)
		return globalConfig
	}
	return &cfg
}

// GetConfigLoader returns the process-wide configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}
