// Package store owns the per-image annotation collections and every
// set-transfer operation between them.
package store

import (
	"fmt"

	"github.com/yolokit/yolokit/internal/box"
	"github.com/yolokit/yolokit/internal/geom"
)

// Set identifies one of the three per-image box collections.
type Set int

const (
	// GroundTruth holds the authoritative boxes. Only this set is persisted.
	GroundTruth Set = iota
	// Predictions holds detector proposals awaiting validation.
	Predictions
	// Extras holds shape-finder and manual candidate boxes awaiting
	// validation. Distinct from the computed unmatched-predictions view.
	Extras
)

// DefaultIoUThreshold is the overlap above which a prediction counts as
// matched against a ground-truth box.
const DefaultIoUThreshold = 0.5

func (s Set) String() string {
	switch s {
	case GroundTruth:
		return "ground_truth"
	case Predictions:
		return "predictions"
	case Extras:
		return "extras"
	default:
		return fmt.Sprintf("set(%d)", int(s))
	}
}

// ParseSet maps the wire name of a collection back to its Set.
func ParseSet(name string) (Set, error) {
	switch name {
	case "ground_truth":
		return GroundTruth, nil
	case "predictions":
		return Predictions, nil
	case "extras":
		return Extras, nil
	default:
		return 0, fmt.Errorf("unknown box set %q", name)
	}
}

// Store keeps the three annotation collections for every open image, keyed by
// a stable image identity (the image file path). Boxes are tracked by pointer
// identity: a box belongs to at most one set per image, and promotion moves
// the instance rather than copying it. Store is not safe for concurrent use;
// all mutation must come from a single owning goroutine.
type Store struct {
	sets map[Set]map[string][]*box.Box
}

// New creates an empty store.
func New() *Store {
	return &Store{sets: map[Set]map[string][]*box.Box{
		GroundTruth: {},
		Predictions: {},
		Extras:      {},
	}}
}

// Add appends a box to the given set for the image. No size limit, no dedup.
func (s *Store) Add(imageID string, b *box.Box, set Set) {
	if b == nil {
		return
	}
	s.sets[set][imageID] = append(s.sets[set][imageID], b)
}

// Remove deletes a box from the given set by identity. Removing a box that is
// not present is a no-op, so stale handles from the UI never crash a caller.
func (s *Store) Remove(imageID string, b *box.Box, set Set) {
	boxes := s.sets[set][imageID]
	for i, cur := range boxes {
		if cur == b {
			s.sets[set][imageID] = append(boxes[:i], boxes[i+1:]...)
			return
		}
	}
}

// Delete removes a box from whichever set currently holds it.
func (s *Store) Delete(imageID string, b *box.Box) {
	s.Remove(imageID, b, GroundTruth)
	s.Remove(imageID, b, Predictions)
	s.Remove(imageID, b, Extras)
}

// Promote moves a box from the prediction or extra set into ground truth,
// preserving its identity. A box that is in neither set is left alone.
func (s *Store) Promote(imageID string, b *box.Box) bool {
	for _, set := range []Set{Predictions, Extras} {
		for i, cur := range s.sets[set][imageID] {
			if cur == b {
				boxes := s.sets[set][imageID]
				s.sets[set][imageID] = append(boxes[:i], boxes[i+1:]...)
				s.sets[GroundTruth][imageID] = append(s.sets[GroundTruth][imageID], b)
				return true
			}
		}
	}
	return false
}

// PromoteAll moves every prediction for the image into ground truth and
// returns how many were moved.
func (s *Store) PromoteAll(imageID string) int {
	preds := s.sets[Predictions][imageID]
	if len(preds) == 0 {
		return 0
	}
	s.sets[GroundTruth][imageID] = append(s.sets[GroundTruth][imageID], preds...)
	s.sets[Predictions][imageID] = nil
	return len(preds)
}

// PromoteUnmatched moves only the unmatched predictions (IoU against every GT
// box at most threshold) into ground truth, plus nothing else, and returns
// the count moved.
func (s *Store) PromoteUnmatched(imageID string, threshold float64) int {
	unmatched := s.UnmatchedPredictions(imageID, threshold)
	moved := 0
	for _, b := range unmatched {
		if s.Promote(imageID, b) {
			moved++
		}
	}
	return moved
}

// Boxes returns the boxes of a set in insertion order. The returned slice is
// a copy; the *Box elements are shared.
func (s *Store) Boxes(imageID string, set Set) []*box.Box {
	src := s.sets[set][imageID]
	out := make([]*box.Box, len(src))
	copy(out, src)
	return out
}

// Count returns the number of boxes in the given set for the image.
func (s *Store) Count(imageID string, set Set) int {
	return len(s.sets[set][imageID])
}

// Clear drops every box of one set for the image.
func (s *Store) Clear(imageID string, set Set) {
	delete(s.sets[set], imageID)
}

// Drop removes all three collections for the image, e.g. when the image file
// itself is deleted.
func (s *Store) Drop(imageID string) {
	for set := range s.sets {
		delete(s.sets[set], imageID)
	}
}

// Reset empties the whole store. Used on folder reload.
func (s *Store) Reset() {
	for set := range s.sets {
		s.sets[set] = map[string][]*box.Box{}
	}
}

// Contains reports whether the box is currently a member of the given set.
func (s *Store) Contains(imageID string, b *box.Box, set Set) bool {
	for _, cur := range s.sets[set][imageID] {
		if cur == b {
			return true
		}
	}
	return false
}

// UnmatchedPredictions returns, in prediction insertion order, the
// predictions whose IoU against every ground-truth box is at most threshold.
// This is a computed view over the current GT and prediction state, never a
// stored set, and is recomputed on every call.
func (s *Store) UnmatchedPredictions(imageID string, threshold float64) []*box.Box {
	gt := s.sets[GroundTruth][imageID]
	var out []*box.Box
	for _, p := range s.sets[Predictions][imageID] {
		matched := false
		for _, g := range gt {
			if geom.IoU(p.Rect(), g.Rect()) > threshold {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, p)
		}
	}
	return out
}

// HitTest returns the topmost box containing the image-space point, or nil.
// Ground truth wins over predictions, which win over extras; within a set the
// most recently added box wins. Callers must convert display coordinates to
// image space first (see the view package).
func (s *Store) HitTest(imageID string, x, y float64) *box.Box {
	for _, set := range []Set{GroundTruth, Predictions, Extras} {
		boxes := s.sets[set][imageID]
		for i := len(boxes) - 1; i >= 0; i-- {
			if boxes[i].Contains(x, y) {
				return boxes[i]
			}
		}
	}
	return nil
}
