package detector

import (
	"fmt"
	"log/slog"

	"github.com/yalue/onnxruntime_go"

	"github.com/yolokit/yolokit/internal/onnx"
)

// setupONNXEnvironment initializes the ONNX Runtime environment once per
// process. The shared library path must be set before initialization; when no
// explicit path is configured, the standard locations are searched.
func setupONNXEnvironment(config Config) error {
	if onnxruntime_go.IsInitialized() {
		return nil
	}
	if config.LibraryPath != "" {
		onnxruntime_go.SetSharedLibraryPath(config.LibraryPath)
	} else if err := onnx.SetLibraryPath(config.UseGPU); err != nil {
		slog.Debug("no ONNX Runtime library found in standard locations, relying on default loader", "error", err)
	}
	if err := onnxruntime_go.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}
	return nil
}

// validateModelInfo gets and validates model input/output information.
func validateModelInfo(modelPath string) (onnxruntime_go.InputOutputInfo, onnxruntime_go.InputOutputInfo, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("failed to get model input/output info: %w", err)
	}

	if len(inputs) != 1 {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	if len(outputs) != 1 {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("expected 1 output, got %d", len(outputs))
	}
	return inputs[0], outputs[0], nil
}

// createSession creates the ONNX session with the given configuration.
func createSession(modelPath string, inputInfo, outputInfo onnxruntime_go.InputOutputInfo,
	config Config,
) (*onnxruntime_go.DynamicAdvancedSession, error) {
	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			fmt.Printf("Failed to destroy session options: %v", err)
		}
	}()

	if config.NumThreads > 0 {
		if err = sessionOptions.SetIntraOpNumThreads(config.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	if config.UseGPU {
		gpuCfg := onnx.DefaultGPUConfig()
		gpuCfg.UseGPU = true
		gpuCfg.DeviceID = config.GPUDeviceID
		if err := onnx.ConfigureSessionForGPU(sessionOptions, gpuCfg); err != nil {
			// Fall back to CPU execution rather than failing the session.
			slog.Warn("GPU acceleration unavailable, falling back to CPU", "error", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(modelPath,
		[]string{inputInfo.Name}, []string{outputInfo.Name}, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return session, nil
}
