// Package onnx locates the ONNX Runtime shared library and configures
// execution providers for detector sessions.
package onnx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/yalue/onnxruntime_go"
)

// GPUConfig selects and tunes the CUDA execution provider.
type GPUConfig struct {
	UseGPU      bool
	DeviceID    int
	GPUMemLimit uint64 // bytes, 0 means unlimited
}

// DefaultGPUConfig returns a CPU-only configuration.
func DefaultGPUConfig() GPUConfig {
	return GPUConfig{}
}

// Validate reports whether the configuration can be applied.
func (c GPUConfig) Validate() error {
	if c.UseGPU && c.DeviceID < 0 {
		return fmt.Errorf("device ID must be non-negative, got %d", c.DeviceID)
	}
	return nil
}

// ConfigureSessionForGPU appends the CUDA execution provider to the session
// options. Callers that want CPU fallback should treat the returned error as
// non-fatal and proceed without the provider.
func ConfigureSessionForGPU(opts *onnxruntime_go.SessionOptions, cfg GPUConfig) error {
	if !cfg.UseGPU {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cuda, err := onnxruntime_go.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("CUDA provider unavailable: %w", err)
	}
	defer func() { _ = cuda.Destroy() }()

	settings := map[string]string{"device_id": strconv.Itoa(cfg.DeviceID)}
	if cfg.GPUMemLimit > 0 {
		settings["gpu_mem_limit"] = strconv.FormatUint(cfg.GPUMemLimit, 10)
	}
	if err := cuda.Update(settings); err != nil {
		return fmt.Errorf("updating CUDA provider options: %w", err)
	}
	if err := opts.AppendExecutionProviderCUDA(cuda); err != nil {
		return fmt.Errorf("appending CUDA execution provider: %w", err)
	}
	return nil
}

// platformLibraryName returns the runtime library filename for the host OS.
func platformLibraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return "libonnxruntime.so", nil
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "windows":
		return "onnxruntime.dll", nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// moduleRoot walks up from the working directory to the directory holding
// go.mod, which is where a local onnxruntime/ tree would live.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find module root")
		}
		dir = parent
	}
}

// libraryCandidates lists shared-library locations in priority order. GPU
// builds come first when requested.
func libraryCandidates(useGPU bool) []string {
	var paths []string
	if useGPU {
		paths = append(paths, "/opt/onnxruntime/gpu/lib/libonnxruntime.so")
	}
	paths = append(paths,
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	)

	root, err := moduleRoot()
	if err != nil {
		return paths
	}
	name, err := platformLibraryName()
	if err != nil {
		return paths
	}
	if useGPU {
		paths = append(paths, filepath.Join(root, "onnxruntime", "gpu", "lib", name))
	}
	return append(paths, filepath.Join(root, "onnxruntime", "lib", name))
}

// SetLibraryPath points onnxruntime_go at the first runtime library found
// among the candidate locations.
func SetLibraryPath(useGPU bool) error {
	candidates := libraryCandidates(useGPU)
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			onnxruntime_go.SetSharedLibraryPath(path)
			return nil
		}
	}
	return fmt.Errorf("ONNX Runtime library not found; tried %d locations ending with %s",
		len(candidates), candidates[len(candidates)-1])
}
