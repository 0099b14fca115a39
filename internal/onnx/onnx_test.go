package onnx

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGPUConfig(t *testing.T) {
	cfg := DefaultGPUConfig()
	assert.False(t, cfg.UseGPU)
	assert.Equal(t, 0, cfg.DeviceID)
	assert.Equal(t, uint64(0), cfg.GPUMemLimit)
}

func TestGPUConfigValidate(t *testing.T) {
	// Device ID is not checked when the GPU is disabled.
	assert.NoError(t, GPUConfig{UseGPU: false, DeviceID: -5}.Validate())
	assert.NoError(t, GPUConfig{UseGPU: true, DeviceID: 1}.Validate())

	err := GPUConfig{UseGPU: true, DeviceID: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device ID")
}

func TestLibraryCandidatesOrder(t *testing.T) {
	gpu := libraryCandidates(true)
	cpu := libraryCandidates(false)

	assert.Contains(t, gpu[0], "gpu")
	assert.NotContains(t, cpu[0], "gpu")
	assert.Greater(t, len(gpu), len(cpu))
	for _, p := range append(gpu, cpu...) {
		assert.Contains(t, p, "onnxruntime")
	}
}

func TestPlatformLibraryName(t *testing.T) {
	name, err := platformLibraryName()
	require.NoError(t, err)

	switch runtime.GOOS {
	case "linux":
		assert.Equal(t, "libonnxruntime.so", name)
	case "darwin":
		assert.Equal(t, "libonnxruntime.dylib", name)
	case "windows":
		assert.Equal(t, "onnxruntime.dll", name)
	}
}

func TestModuleRoot(t *testing.T) {
	root, err := moduleRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}
