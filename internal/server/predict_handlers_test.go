package server

import (
	"encoding/json"
	"image/color"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/shapes"
	"github.com/yolokit/yolokit/internal/store"
	"github.com/yolokit/yolokit/internal/testutil"
)

// newSceneServer opens a one-image dataset whose image contains a single
// dark rectangle on a white background.
func newSceneServer(t *testing.T) *Server {
	t.Helper()
	scene := testutil.SolidRectScene(testutil.SmallSize, 60, 50, 120, 80)
	root := testutil.MakeDatasetRoot(t, testutil.ImageFixture{
		Name:  "scene.png",
		Scene: scene,
	})

	session, err := dataset.Open(root)
	require.NoError(t, err)

	return NewServer(session, nil, Config{
		CORSOrigin:   "*",
		TimeoutSec:   5,
		IoUThreshold: store.DefaultIoUThreshold,
		ShapeParams:  shapes.DefaultParams(),
	})
}

func TestServer_ShapesHandlerRectangles(t *testing.T) {
	server := newSceneServer(t)

	w := postJSON(t, server.shapesHandler, "/shapes", ShapesRequest{Kind: "rectangles", Class: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var response ShapesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.Equal(t, 1, response.Found)
	require.Len(t, response.State.Extras, 1)

	found := response.State.Extras[0]
	assert.Equal(t, 1, found.Class)
	assert.InDelta(t, 60, found.X1, 4)
	assert.InDelta(t, 50, found.Y1, 4)
	assert.InDelta(t, 180, found.X2, 4)
	assert.InDelta(t, 130, found.Y2, 4)
}

func TestServer_ShapesHandlerUnknownKind(t *testing.T) {
	server := newSceneServer(t)

	w := postJSON(t, server.shapesHandler, "/shapes", ShapesRequest{Kind: "stars"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ShapesHandlerGreen(t *testing.T) {
	scene := &testutil.SceneConfig{
		Size:       testutil.SmallSize,
		Background: color.White,
		Rects: []testutil.SceneRect{
			{X: 100, Y: 80, W: 60, H: 40, Color: color.RGBA{0, 200, 0, 255}},
		},
	}
	root := testutil.MakeDatasetRoot(t, testutil.ImageFixture{Name: "green.png", Scene: scene})

	session, err := dataset.Open(root)
	require.NoError(t, err)
	server := NewServer(session, nil, Config{
		CORSOrigin:   "*",
		TimeoutSec:   5,
		IoUThreshold: store.DefaultIoUThreshold,
		ShapeParams:  shapes.DefaultParams(),
	})

	w := postJSON(t, server.shapesHandler, "/shapes", ShapesRequest{Kind: "green", Class: 0})
	require.Equal(t, http.StatusOK, w.Code)

	var response ShapesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Found)
	require.Len(t, response.State.Extras, 1)

	found := response.State.Extras[0]
	assert.InDelta(t, 100, found.X1, 3)
	assert.InDelta(t, 80, found.Y1, 3)
	assert.InDelta(t, 160, found.X2, 3)
	assert.InDelta(t, 120, found.Y2, 3)
}
