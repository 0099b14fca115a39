package dataset

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/yolokit/yolokit/internal/box"
	"github.com/yolokit/yolokit/internal/geom"
	"github.com/yolokit/yolokit/internal/labelio"
	"github.com/yolokit/yolokit/internal/store"
)

// BoxView is a value snapshot of one stored box, addressed by its index
// within its set so front-ends never hold raw pointers across the API.
type BoxView struct {
	Index      int     `json:"index"`
	Class      int     `json:"class"`
	ClassName  string  `json:"class_name"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Alpha      float64 `json:"alpha"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Snapshot is a consistent view of every collection for the current image,
// including the computed unmatched-prediction indices.
type Snapshot struct {
	Image       string    `json:"image"`
	ImageIndex  int       `json:"image_index"`
	ImageCount  int       `json:"image_count"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	GroundTruth []BoxView `json:"ground_truth"`
	Predictions []BoxView `json:"predictions"`
	Extras      []BoxView `json:"extras"`
	Unmatched   []int     `json:"unmatched_predictions"`
}

func (s *Session) boxViews(imageID string, set store.Set) []BoxView {
	boxes := s.store.Boxes(imageID, set)
	out := make([]BoxView, len(boxes))
	for i, b := range boxes {
		out[i] = BoxView{
			Index: i, Class: b.Class, ClassName: s.ClassName(b.Class),
			X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2, Alpha: b.Alpha,
		}
	}
	return out
}

// Snapshot captures the current image's annotation state. The unmatched view
// is recomputed from the live GT and prediction sets on every call.
func (s *Session) Snapshot(iouThreshold float64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return Snapshot{}, ErrNoImage
	}

	snap := Snapshot{
		Image:       img,
		ImageIndex:  s.index,
		ImageCount:  len(s.images),
		Width:       s.imgW,
		Height:      s.imgH,
		GroundTruth: s.boxViews(img, store.GroundTruth),
		Predictions: s.boxViews(img, store.Predictions),
		Extras:      s.boxViews(img, store.Extras),
	}

	unmatched := s.store.UnmatchedPredictions(img, iouThreshold)
	preds := s.store.Boxes(img, store.Predictions)
	for _, u := range unmatched {
		for i, p := range preds {
			if p == u {
				snap.Unmatched = append(snap.Unmatched, i)
				break
			}
		}
	}
	return snap, nil
}

// boxAt resolves a (set, index) reference for the current image. A stale
// index resolves to nil, which every edit operation treats as a no-op.
func (s *Session) boxAt(imageID string, set store.Set, idx int) *box.Box {
	boxes := s.store.Boxes(imageID, set)
	if idx < 0 || idx >= len(boxes) {
		return nil
	}
	return boxes[idx]
}

// autosaveLocked persists the ground-truth set when autosave is enabled.
// Failures are logged, not surfaced; the in-memory edit already happened.
func (s *Session) autosaveLocked(img string) {
	if !s.autosave {
		return
	}
	boxes := s.store.Boxes(img, store.GroundTruth)
	if err := labelio.Save(labelio.LabelPath(s.root, img), boxes, s.imgW, s.imgH); err != nil {
		slog.Warn("autosave failed", "image", img, "error", err)
	}
}

// AddBox appends a new ground-truth box drawn in image space. Corners are
// ordered and the box is clamped into the image before insertion. A negative
// class selects the session's configured default class.
func (s *Session) AddBox(class int, x1, y1, x2, y2 float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return ErrNoImage
	}
	if class < 0 {
		class = s.defaultClass
	}
	r := geom.NewRect(x1, y1, x2, y2)
	b := box.New(class, r.X1, r.Y1, r.X2, r.Y2)
	store.ClampToImage(b, s.imgW, s.imgH)
	s.store.Add(img, b, store.GroundTruth)
	s.autosaveLocked(img)
	return nil
}

// AddExtras appends candidate boxes from a shape finder to the extra set.
func (s *Session) AddExtras(boxes []*box.Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return ErrNoImage
	}
	for _, b := range boxes {
		store.ClampToImage(b, s.imgW, s.imgH)
		s.store.Add(img, b, store.Extras)
	}
	return nil
}

// DeleteBox removes the referenced box. Stale references are no-ops.
func (s *Session) DeleteBox(set store.Set, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return
	}
	if b := s.boxAt(img, set, idx); b != nil {
		s.store.Remove(img, b, set)
		if set == store.GroundTruth {
			s.autosaveLocked(img)
		}
	}
}

// PromoteBox validates the referenced prediction or extra into ground truth.
func (s *Session) PromoteBox(set store.Set, idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return false
	}
	b := s.boxAt(img, set, idx)
	if b == nil {
		return false
	}
	promoted := s.store.Promote(img, b)
	if promoted {
		s.autosaveLocked(img)
	}
	return promoted
}

// PromoteAllPredictions validates every prediction for the current image and
// returns the number moved.
func (s *Session) PromoteAllPredictions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return 0
	}
	n := s.store.PromoteAll(img)
	if n > 0 {
		s.autosaveLocked(img)
	}
	return n
}

// PromoteUnmatched validates only the predictions unmatched against ground
// truth at the given IoU threshold.
func (s *Session) PromoteUnmatched(iouThreshold float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return 0
	}
	n := s.store.PromoteUnmatched(img, iouThreshold)
	if n > 0 {
		s.autosaveLocked(img)
	}
	return n
}

// MoveBox translates the referenced box, clamping it inside the image.
func (s *Session) MoveBox(set store.Set, idx int, dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return
	}
	if b := s.boxAt(img, set, idx); b != nil {
		store.MoveBy(b, dx, dy, s.imgW, s.imgH)
		if set == store.GroundTruth {
			s.autosaveLocked(img)
		}
	}
}

// ResizeBox drags one corner of the referenced box to an image-space point.
func (s *Session) ResizeBox(set store.Set, idx int, corner store.Corner, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return
	}
	if b := s.boxAt(img, set, idx); b != nil {
		store.ResizeCorner(b, corner, x, y, s.imgW, s.imgH)
		if set == store.GroundTruth {
			s.autosaveLocked(img)
		}
	}
}

// HitTest returns the (set, index) of the topmost box containing the
// image-space point.
func (s *Session) HitTest(x, y float64) (store.Set, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return 0, 0, false
	}
	b := s.store.HitTest(img, x, y)
	if b == nil {
		return 0, 0, false
	}
	for _, set := range []store.Set{store.GroundTruth, store.Predictions, store.Extras} {
		for i, cur := range s.store.Boxes(img, set) {
			if cur == b {
				return set, i, true
			}
		}
	}
	return 0, 0, false
}

// SaveCurrent writes the current image's ground-truth set to its label file.
// Predictions and extras are never persisted here.
func (s *Session) SaveCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return ErrNoImage
	}
	path := labelio.LabelPath(s.root, img)
	boxes := s.store.Boxes(img, store.GroundTruth)
	if err := labelio.Save(path, boxes, s.imgW, s.imgH); err != nil {
		return fmt.Errorf("save annotations for %s: %w", img, err)
	}
	return nil
}

// ClearGroundTruth drops every GT box for the current image and removes its
// label file from disk.
func (s *Session) ClearGroundTruth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok {
		return ErrNoImage
	}
	s.store.Clear(img, store.GroundTruth)
	path := labelio.LabelPath(s.root, img)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove label file: %w", err)
	}
	return nil
}

// DeleteCurrentImage removes the current image together with its label and
// prediction files, drops its annotations and reloads the image list.
func (s *Session) DeleteCurrentImage() error {
	s.mu.Lock()
	img, ok := s.currentLocked()
	if !ok {
		s.mu.Unlock()
		return ErrNoImage
	}
	if err := os.Remove(img); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete image: %w", err)
	}
	for _, p := range []string{labelio.LabelPath(s.root, img), labelio.PredictionPath(s.root, img)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.mu.Unlock()
			return fmt.Errorf("delete annotation file: %w", err)
		}
	}
	s.store.Drop(img)

	images, err := DiscoverImages(labelio.ImagesDir(s.root))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.images = images
	next := s.index
	if next >= len(images) {
		next = len(images) - 1
	}
	s.index = -1
	s.imageOK = false
	s.mu.Unlock()

	if next >= 0 {
		return s.Seek(next)
	}
	return nil
}

// ApplyPredictions installs detector output for the named image, replacing
// the prediction set and writing the predictions file. The image identity is
// re-validated against the session's current image first: results arriving
// after the user navigated away are discarded and reported as not applied.
func (s *Session) ApplyPredictions(imageID string, preds []*box.Box) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.currentLocked()
	if !ok || img != imageID {
		return false, nil
	}

	if err := labelio.Save(labelio.PredictionPath(s.root, imageID), preds, s.imgW, s.imgH); err != nil {
		return false, fmt.Errorf("write predictions: %w", err)
	}
	s.store.Clear(imageID, store.Predictions)
	for _, b := range preds {
		s.store.Add(imageID, b, store.Predictions)
	}
	return true, nil
}
