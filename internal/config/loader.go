package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name of the config file, without extension.
	ConfigFileName = "yolokit"

	// EnvPrefix namespaces the environment variables read by the loader.
	EnvPrefix = "YOLOKIT"
)

// Loader resolves configuration from a YAML file, environment variables,
// and built-in defaults, in that order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader backed by the global viper instance, so values
// bound to CLI flags participate in resolution.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load resolves the configuration from the search paths and validates it.
// A missing config file is not an error; defaults and env vars apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.finish()
}

// LoadWithFile resolves the configuration from an explicit file path, which
// must exist. An empty path falls back to the search-path behavior of Load.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.finish()
}

// finish unmarshals the resolved values and validates the result.
func (l *Loader) finish() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file that was read.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper exposes the underlying viper instance.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/yolokit")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "yolokit"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "yolokit"))
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults registers a default for every configuration key.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("labeling.iou_threshold", defaults.Labeling.IoUThreshold)
	l.v.SetDefault("labeling.default_class", defaults.Labeling.DefaultClass)
	l.v.SetDefault("labeling.autosave", defaults.Labeling.Autosave)
	l.v.SetDefault("labeling.canvas_width", defaults.Labeling.CanvasWidth)
	l.v.SetDefault("labeling.canvas_height", defaults.Labeling.CanvasHeight)

	l.v.SetDefault("detector.input_size", defaults.Detector.InputSize)
	l.v.SetDefault("detector.conf_threshold", defaults.Detector.ConfThreshold)
	l.v.SetDefault("detector.iou_threshold", defaults.Detector.IoUThreshold)
	l.v.SetDefault("detector.num_threads", defaults.Detector.NumThreads)
	l.v.SetDefault("detector.use_gpu", defaults.Detector.UseGPU)
	l.v.SetDefault("detector.gpu_device_id", defaults.Detector.GPUDeviceID)

	l.v.SetDefault("shapes.canny_low", defaults.Shapes.CannyLow)
	l.v.SetDefault("shapes.canny_high", defaults.Shapes.CannyHigh)
	l.v.SetDefault("shapes.approx_eps", defaults.Shapes.ApproxEps)
	l.v.SetDefault("shapes.min_area", defaults.Shapes.MinArea)
	l.v.SetDefault("shapes.poly_n", defaults.Shapes.PolyN)
	l.v.SetDefault("shapes.min_radius", defaults.Shapes.MinRadius)
	l.v.SetDefault("shapes.max_radius", defaults.Shapes.MaxRadius)
	l.v.SetDefault("shapes.min_dist", defaults.Shapes.MinDist)
	l.v.SetDefault("shapes.green_threshold", defaults.Shapes.GreenThreshold)

	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}

// GetConfigSearchPaths lists the directories searched for a config file.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home, filepath.Join(home, ".config", "yolokit"))
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "yolokit"))
	}
	return append(paths, "/etc/yolokit")
}

// WriteConfigToFile writes the resolved configuration to filename.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile writes a config file holding the defaults.
func GenerateDefaultConfigFile(filename string) error {
	loader := &Loader{v: viper.New()}
	loader.setDefaults()

	if filename == "" {
		filename = "yolokit.yaml"
	}
	return loader.WriteConfigToFile(filename)
}
