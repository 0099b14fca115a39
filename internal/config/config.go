// Package config holds the application configuration and its loading from
// files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/yolokit/yolokit/internal/detector"
	"github.com/yolokit/yolokit/internal/shapes"
	"github.com/yolokit/yolokit/internal/store"
)

// Config represents the complete configuration for the labeling toolkit.
// It covers all commands (predict, shapes, validate, stats, serve) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Annotation behavior
	Labeling LabelingConfig `mapstructure:"labeling" yaml:"labeling" json:"labeling"`

	// Object detection model
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Shape finder tuning
	Shapes ShapesConfig `mapstructure:"shapes" yaml:"shapes" json:"shapes"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// LabelingConfig contains annotation workflow settings.
type LabelingConfig struct {
	// IoUThreshold marks predictions overlapping ground truth above this
	// value as matched.
	IoUThreshold float64 `mapstructure:"iou_threshold" yaml:"iou_threshold" json:"iou_threshold"`
	// DefaultClass is assigned to boxes drawn without an explicit class.
	DefaultClass int `mapstructure:"default_class" yaml:"default_class" json:"default_class"`
	// Autosave writes the label file after every ground-truth mutation.
	Autosave bool `mapstructure:"autosave" yaml:"autosave" json:"autosave"`
	// Canvas size reported to the view transform before a client connects.
	CanvasWidth  int `mapstructure:"canvas_width" yaml:"canvas_width" json:"canvas_width"`
	CanvasHeight int `mapstructure:"canvas_height" yaml:"canvas_height" json:"canvas_height"`
}

// DetectorConfig contains object detection settings.
type DetectorConfig struct {
	ModelPath     string  `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	LibraryPath   string  `mapstructure:"library_path" yaml:"library_path" json:"library_path"`
	InputSize     int     `mapstructure:"input_size" yaml:"input_size" json:"input_size"`
	ConfThreshold float64 `mapstructure:"conf_threshold" yaml:"conf_threshold" json:"conf_threshold"`
	IoUThreshold  float64 `mapstructure:"iou_threshold" yaml:"iou_threshold" json:"iou_threshold"`
	NumThreads    int     `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
	UseGPU        bool    `mapstructure:"use_gpu" yaml:"use_gpu" json:"use_gpu"`
	GPUDeviceID   int     `mapstructure:"gpu_device_id" yaml:"gpu_device_id" json:"gpu_device_id"`
}

// ShapesConfig contains shape finder settings.
type ShapesConfig struct {
	CannyLow       int     `mapstructure:"canny_low" yaml:"canny_low" json:"canny_low"`
	CannyHigh      int     `mapstructure:"canny_high" yaml:"canny_high" json:"canny_high"`
	ApproxEps      float64 `mapstructure:"approx_eps" yaml:"approx_eps" json:"approx_eps"`
	MinArea        int     `mapstructure:"min_area" yaml:"min_area" json:"min_area"`
	PolyN          int     `mapstructure:"poly_n" yaml:"poly_n" json:"poly_n"`
	MinRadius      int     `mapstructure:"min_radius" yaml:"min_radius" json:"min_radius"`
	MaxRadius      int     `mapstructure:"max_radius" yaml:"max_radius" json:"max_radius"`
	MinDist        int     `mapstructure:"min_dist" yaml:"min_dist" json:"min_dist"`
	GreenThreshold int     `mapstructure:"green_threshold" yaml:"green_threshold" json:"green_threshold"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Labeling: LabelingConfig{
			IoUThreshold: store.DefaultIoUThreshold,
			DefaultClass: 0,
			Autosave:     false,
			CanvasWidth:  1200,
			CanvasHeight: 800,
		},
		Detector: defaultDetectorConfig(),
		Shapes:   defaultShapesConfig(),
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

func defaultDetectorConfig() DetectorConfig {
	cfg := detector.DefaultConfig()
	return DetectorConfig{
		InputSize:     cfg.InputSize,
		ConfThreshold: cfg.ConfThreshold,
		IoUThreshold:  cfg.IoUThreshold,
		NumThreads:    cfg.NumThreads,
	}
}

func defaultShapesConfig() ShapesConfig {
	p := shapes.DefaultParams()
	return ShapesConfig{
		CannyLow:       p.CannyLow,
		CannyHigh:      p.CannyHigh,
		ApproxEps:      p.ApproxEps,
		MinArea:        p.MinArea,
		PolyN:          p.PolyN,
		MinRadius:      p.MinRadius,
		MaxRadius:      p.MaxRadius,
		MinDist:        p.MinDist,
		GreenThreshold: p.GreenThreshold,
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if err := validateThreshold(c.Labeling.IoUThreshold, "labeling.iou_threshold"); err != nil {
		return err
	}
	if err := validateThreshold(c.Detector.ConfThreshold, "detector.conf_threshold"); err != nil {
		return err
	}
	if err := validateThreshold(c.Detector.IoUThreshold, "detector.iou_threshold"); err != nil {
		return err
	}
	if c.Labeling.DefaultClass < 0 {
		return fmt.Errorf("invalid default class: %d (must not be negative)", c.Labeling.DefaultClass)
	}
	if c.Labeling.CanvasWidth <= 0 || c.Labeling.CanvasHeight <= 0 {
		return fmt.Errorf("invalid canvas size: %dx%d (must be positive)",
			c.Labeling.CanvasWidth, c.Labeling.CanvasHeight)
	}

	if c.Detector.InputSize <= 0 {
		return fmt.Errorf("invalid detector input size: %d (must be positive)", c.Detector.InputSize)
	}

	if c.Shapes.CannyLow <= 0 || c.Shapes.CannyHigh <= c.Shapes.CannyLow {
		return fmt.Errorf("invalid canny thresholds: low=%d high=%d (need 0 < low < high)",
			c.Shapes.CannyLow, c.Shapes.CannyHigh)
	}
	if c.Shapes.MinRadius <= 0 || c.Shapes.MaxRadius < c.Shapes.MinRadius {
		return fmt.Errorf("invalid circle radius range: %d-%d", c.Shapes.MinRadius, c.Shapes.MaxRadius)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}

	return nil
}

// ToDetectorConfig converts to detector.Config.
func (c *Config) ToDetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.ModelPath = c.Detector.ModelPath
	cfg.LibraryPath = c.Detector.LibraryPath
	cfg.InputSize = c.Detector.InputSize
	cfg.ConfThreshold = c.Detector.ConfThreshold
	cfg.IoUThreshold = c.Detector.IoUThreshold
	cfg.NumThreads = c.Detector.NumThreads
	cfg.UseGPU = c.Detector.UseGPU
	cfg.GPUDeviceID = c.Detector.GPUDeviceID
	return cfg
}

// ToShapeParams converts to shapes.Params.
func (c *Config) ToShapeParams() shapes.Params {
	return shapes.Params{
		CannyLow:       c.Shapes.CannyLow,
		CannyHigh:      c.Shapes.CannyHigh,
		ApproxEps:      c.Shapes.ApproxEps,
		MinArea:        c.Shapes.MinArea,
		PolyN:          c.Shapes.PolyN,
		MinRadius:      c.Shapes.MinRadius,
		MaxRadius:      c.Shapes.MaxRadius,
		MinDist:        c.Shapes.MinDist,
		GreenThreshold: c.Shapes.GreenThreshold,
	}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
