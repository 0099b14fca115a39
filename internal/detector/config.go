// Package detector runs a YOLO object-detection model through ONNX Runtime
// and turns its raw output into annotation boxes in original image
// coordinates.
package detector

import (
	"errors"
	"fmt"
	"os"
)

// Config holds configuration for the object detector.
type Config struct {
	ModelPath     string  // Path to the ONNX detection model
	LibraryPath   string  // Optional path to the ONNX Runtime shared library
	InputSize     int     // Square model input size in pixels (default: 640)
	ConfThreshold float64 // Minimum detection confidence (default: 0.25)
	IoUThreshold  float64 // IoU threshold for NMS (default: 0.45)
	NumThreads    int     // Number of CPU threads (default: 0 for auto)
	UseGPU        bool    // Enable CUDA acceleration when available
	GPUDeviceID   int     // CUDA device ID (default: 0)
}

// DefaultConfig returns a default detector configuration.
func DefaultConfig() Config {
	return Config{
		InputSize:     640,
		ConfThreshold: 0.25,
		IoUThreshold:  0.45,
		NumThreads:    0,
	}
}

// validateConfig validates the detector configuration.
func validateConfig(config Config) error {
	if config.ModelPath == "" {
		return errors.New("model path cannot be empty")
	}
	if config.InputSize <= 0 {
		return fmt.Errorf("input size must be positive, got %d", config.InputSize)
	}
	if config.ConfThreshold < 0 || config.ConfThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0, 1], got %g", config.ConfThreshold)
	}
	if config.IoUThreshold <= 0 || config.IoUThreshold > 1 {
		return fmt.Errorf("IoU threshold must be in (0, 1], got %g", config.IoUThreshold)
	}
	return nil
}

// validateModelFile checks if the model file exists.
func validateModelFile(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}
