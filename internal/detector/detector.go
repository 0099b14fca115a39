package detector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/yalue/onnxruntime_go"

	"github.com/yolokit/yolokit/internal/box"
	"github.com/yolokit/yolokit/internal/mempool"
)

// Detector performs object detection using ONNX Runtime. It is safe for
// concurrent use; inference calls are serialized on the session.
type Detector struct {
	config     Config
	session    *onnxruntime_go.DynamicAdvancedSession
	inputInfo  onnxruntime_go.InputOutputInfo
	outputInfo onnxruntime_go.InputOutputInfo
	mu         sync.Mutex
}

// New creates a detector for the configured model.
func New(config Config) (*Detector, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if err := validateModelFile(config.ModelPath); err != nil {
		return nil, err
	}

	slog.Debug("initializing detector",
		"model_path", config.ModelPath,
		"input_size", config.InputSize,
		"conf_threshold", config.ConfThreshold)

	if err := setupONNXEnvironment(config); err != nil {
		return nil, err
	}

	inputInfo, outputInfo, err := validateModelInfo(config.ModelPath)
	if err != nil {
		return nil, err
	}

	session, err := createSession(config.ModelPath, inputInfo, outputInfo, config)
	if err != nil {
		return nil, err
	}

	return &Detector{
		config:     config,
		session:    session,
		inputInfo:  inputInfo,
		outputInfo: outputInfo,
	}, nil
}

// Config returns a copy of the detector's configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Close releases the ONNX session. The runtime environment stays alive for
// the rest of the process.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		if err := d.session.Destroy(); err != nil {
			slog.Warn("failed to destroy detector session", "error", err)
		}
		d.session = nil
	}
	return nil
}

// Detect runs the model on an image and returns NMS-filtered detections in
// original image coordinates.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	data, lb, err := preprocess(img, d.config.InputSize)
	if err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}
	defer mempool.PutFloat32(data)

	raw, rows, attrs, err := d.runInference(data)
	if err != nil {
		return nil, err
	}

	detections, err := decodePredictions(raw, rows, attrs, lb, d.config.ConfThreshold)
	if err != nil {
		return nil, err
	}
	detections = NonMaxSuppression(detections, d.config.IoUThreshold)

	slog.Debug("detection complete",
		"detections", len(detections),
		"duration", time.Since(start))
	return detections, nil
}

// runInference executes the session and returns the flattened output with
// its row and attribute counts.
func (d *Detector) runInference(data []float32) ([]float32, int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, 0, 0, errors.New("detector session is closed")
	}

	size := int64(d.config.InputSize)
	inputTensor, err := onnxruntime_go.NewTensor(
		onnxruntime_go.NewShape(1, 3, size, size), data)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	outputs := []onnxruntime_go.Value{nil}
	if err := d.session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return nil, 0, 0, fmt.Errorf("inference failed: %w", err)
	}
	outputTensor := outputs[0]
	defer func() {
		if err := outputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
		}
	}()

	floatTensor, ok := outputTensor.(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, 0, 0, fmt.Errorf("expected float32 tensor, got %T", outputTensor)
	}

	shape := outputTensor.GetShape()
	// Output is [1, rows, attrs] for the YOLO row format.
	if len(shape) != 3 || shape[0] != 1 {
		return nil, 0, 0, fmt.Errorf("unexpected output shape %v", shape)
	}

	out := floatTensor.GetData()
	copied := make([]float32, len(out))
	copy(copied, out)
	return copied, int(shape[1]), int(shape[2]), nil
}

// Boxes converts detections into annotation boxes carrying their class ids.
func Boxes(detections []Detection) []*box.Box {
	out := make([]*box.Box, len(detections))
	for i, d := range detections {
		out[i] = box.New(d.Class, d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2)
	}
	return out
}
