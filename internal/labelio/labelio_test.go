package labelio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolokit/yolokit/internal/box"
)

func TestLoadMissingFile(t *testing.T) {
	boxes, err := Load(filepath.Join(t.TempDir(), "nope.txt"), 100, 100)
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	content := "0 0.5 0.5 0.2 0.2\n" +
		"garbage\n" +
		"1 0.5\n" +
		"not a number 0.1 0.1 0.1 0.1\n" +
		"\n" +
		"2 0.25 0.25 0.1 0.1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	boxes, err := Load(path, 100, 100)
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, 0, boxes[0].Class)
	assert.Equal(t, 2, boxes[1].Class)
}

func TestLoadFloatClassID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("3.0 0.5 0.5 0.2 0.2\n"), 0o600))

	boxes, err := Load(path, 100, 100)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, 3, boxes[0].Class)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	const imgW, imgH = 640, 480
	dir := t.TempDir()
	path := filepath.Join(dir, "labels", "frame.txt")

	in := []*box.Box{
		box.New(0, 10, 20, 110, 220),
		box.New(1, 0, 0, 640, 480),
		box.New(5, 300.5, 200.25, 310.75, 215.5),
	}
	require.NoError(t, Save(path, in, imgW, imgH))

	out, err := Load(path, imgW, imgH)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Class, out[i].Class)
		assert.InDelta(t, in[i].X1, out[i].X1, 1.0)
		assert.InDelta(t, in[i].Y1, out[i].Y1, 1.0)
		assert.InDelta(t, in[i].X2, out[i].X2, 1.0)
		assert.InDelta(t, in[i].Y2, out[i].Y2, 1.0)
	}
}

func TestSaveClampsOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.txt")
	// Dragged slightly past the border; normalized values must stay in [0,1].
	in := []*box.Box{box.New(0, -5, -5, 105, 105)}
	require.NoError(t, Save(path, in, 100, 100))

	data, err := os.ReadFile(path) //nolint:gosec // test-owned path
	require.NoError(t, err)
	assert.Equal(t, "0 0.500000 0.500000 1.000000 1.000000\n", string(data))
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.txt")
	require.NoError(t, Save(path, []*box.Box{box.New(0, 0, 0, 50, 50)}, 100, 100))
	require.NoError(t, Save(path, nil, 100, 100))

	data, err := os.ReadFile(path) //nolint:gosec // test-owned path
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestPaths(t *testing.T) {
	root := filepath.Join("data", "set1")
	img := filepath.Join(root, "images", "frame_0001.jpg")
	assert.Equal(t, filepath.Join(root, "labels", "frame_0001.txt"), LabelPath(root, img))
	assert.Equal(t, filepath.Join(root, "predictions", "frame_0001.txt"), PredictionPath(root, img))

	// Extension is replaced, not appended.
	assert.Equal(t, filepath.Join(root, "labels", "x.txt"), LabelPath(root, "x.jpeg"))
}
