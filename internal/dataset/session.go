// Package dataset ties a labeled image folder to the annotation store and the
// view transform, replacing the ad-hoc shared application state of a GUI
// labeler with one explicit owned structure.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/yolokit/yolokit/internal/labelio"
	"github.com/yolokit/yolokit/internal/store"
	"github.com/yolokit/yolokit/internal/view"
)

// Default canvas dimensions used until a front-end reports its real size.
const (
	DefaultCanvasWidth  = 1200
	DefaultCanvasHeight = 800
)

// ErrNoImage is returned by operations that need a current image when the
// session has none loaded.
var ErrNoImage = errors.New("no image loaded")

// Session owns one open dataset folder: the ordered image list, the current
// image, the annotation store and the view transform. All mutation goes
// through Session methods, which serialize access with a single mutex so the
// three collections are never mutated concurrently.
type Session struct {
	mu sync.Mutex

	root    string
	images  []string
	index   int
	imgW    int
	imgH    int
	imageOK bool

	store   *store.Store
	view    *view.Transform
	classes map[int]string

	canvasW, canvasH int

	autosave     bool
	defaultClass int
}

// Open loads a dataset folder. The root must contain images/ and labels/
// sub-directories; predictions/ is created if absent. Every label file is
// read into the ground-truth set up front; unreadable images or label files
// degrade to empty annotation sets with a warning.
func Open(root string) (*Session, error) {
	imagesDir := labelio.ImagesDir(root)
	labelsDir := labelio.LabelsDir(root)
	for _, dir := range []string{imagesDir, labelsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("dataset root must contain images/ and labels/ directories: missing %s", dir)
		}
	}
	if err := os.MkdirAll(labelio.PredictionsDir(root), 0o750); err != nil {
		return nil, fmt.Errorf("create predictions directory: %w", err)
	}

	images, err := DiscoverImages(imagesDir)
	if err != nil {
		return nil, err
	}
	classes, err := LoadClasses(root)
	if err != nil {
		return nil, err
	}

	s := &Session{
		root:    root,
		images:  images,
		index:   -1,
		store:   store.New(),
		view:    view.NewTransform(),
		classes: classes,
		canvasW: DefaultCanvasWidth,
		canvasH: DefaultCanvasHeight,
	}
	s.loadAllLabels()

	if len(images) > 0 {
		if err := s.Seek(0); err != nil {
			slog.Warn("first image unreadable", "path", images[0], "error", err)
		}
	}
	return s, nil
}

// loadAllLabels fills the ground-truth set for every discovered image.
func (s *Session) loadAllLabels() {
	for _, img := range s.images {
		w, h, err := ImageSize(img)
		if err != nil {
			slog.Warn("skipping labels for unreadable image", "path", img, "error", err)
			continue
		}
		boxes, err := labelio.Load(labelio.LabelPath(s.root, img), w, h)
		if err != nil {
			slog.Warn("treating unreadable label file as empty", "image", img, "error", err)
			continue
		}
		for _, b := range boxes {
			s.store.Add(img, b, store.GroundTruth)
		}
	}
}

// Root returns the dataset root directory.
func (s *Session) Root() string { return s.root }

// Len returns the number of discovered images.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Images returns a copy of the ordered image list.
func (s *Session) Images() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// Index returns the current image index, or -1 when nothing is loaded.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the current image path. ok is false when the session has no
// images or the current image failed to load.
func (s *Session) Current() (path string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() (string, bool) {
	if s.index < 0 || s.index >= len(s.images) {
		return "", false
	}
	return s.images[s.index], s.imageOK
}

// Dims returns the pixel dimensions of the current image.
func (s *Session) Dims() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imgW, s.imgH
}

// SetCanvasSize records the display canvas size and refits the view.
func (s *Session) SetCanvasSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvasW, s.canvasH = w, h
	if s.imageOK {
		s.view.FitToWindow(w, h, s.imgW, s.imgH)
	}
}

// SetAutosave enables writing the label file after every ground-truth
// mutation.
func (s *Session) SetAutosave(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave = on
}

// SetDefaultClass sets the class assigned to boxes drawn without one.
// Negative ids are ignored.
func (s *Session) SetDefaultClass(class int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if class >= 0 {
		s.defaultClass = class
	}
}

// Seek switches to the image at index i, clamping i into range, and resets
// the view to fit-to-window. An unreadable image leaves the current image
// unset but keeps navigation usable.
func (s *Session) Seek(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return ErrNoImage
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.images) {
		i = len(s.images) - 1
	}
	s.index = i
	s.imageOK = false
	s.imgW, s.imgH = 0, 0

	w, h, err := ImageSize(s.images[i])
	if err != nil {
		return fmt.Errorf("load image %s: %w", s.images[i], err)
	}
	s.imgW, s.imgH = w, h
	s.imageOK = true
	s.view.FitToWindow(s.canvasW, s.canvasH, w, h)
	return nil
}

// Next advances to the following image.
func (s *Session) Next() error { return s.Seek(s.Index() + 1) }

// Prev goes back to the previous image.
func (s *Session) Prev() error { return s.Seek(s.Index() - 1) }

// View returns the view transform for the current image. The transform is
// owned by the session's goroutine discipline; callers must not retain it
// across image switches.
func (s *Session) View() *view.Transform { return s.view }

// Store exposes the underlying annotation store for read paths and tests.
// Mutations should go through Session methods so they stay serialized.
func (s *Session) Store() *store.Store { return s.store }

// ClassName resolves a class id through the optional classes.yaml table,
// falling back to the numeric id.
func (s *Session) ClassName(id int) string {
	if name, ok := s.classes[id]; ok {
		return name
	}
	return fmt.Sprintf("%d", id)
}

// Classes returns a copy of the class-name table.
func (s *Session) Classes() map[int]string {
	out := make(map[int]string, len(s.classes))
	for k, v := range s.classes {
		out[k] = v
	}
	return out
}
