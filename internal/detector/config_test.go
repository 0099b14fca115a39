package detector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 640, cfg.InputSize)
	assert.InDelta(t, 0.25, cfg.ConfThreshold, 1e-9)
	assert.InDelta(t, 0.45, cfg.IoUThreshold, 1e-9)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing model path", func(c *Config) { c.ModelPath = "" }, "model path"},
		{"zero input size", func(c *Config) { c.InputSize = 0 }, "input size"},
		{"confidence above one", func(c *Config) { c.ConfThreshold = 1.5 }, "confidence"},
		{"zero IoU threshold", func(c *Config) { c.IoUThreshold = 0 }, "IoU"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ModelPath = "model.onnx"
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	cfg := DefaultConfig()
	cfg.ModelPath = "model.onnx"
	require.NoError(t, validateConfig(cfg))
}

func TestValidateModelFile(t *testing.T) {
	require.Error(t, validateModelFile(filepath.Join(t.TempDir(), "missing.onnx")))
}

func TestNewRejectsMissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")
	_, err := New(cfg)
	require.Error(t, err)
}
