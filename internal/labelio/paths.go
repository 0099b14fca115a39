package labelio

import (
	"path/filepath"
	"strings"
)

// Standard dataset sub-directories. Labels and predictions sit parallel to
// the images directory and share the image basenames with a .txt extension.
const (
	ImagesDirName      = "images"
	LabelsDirName      = "labels"
	PredictionsDirName = "predictions"
)

// ImagesDir returns the images directory for a dataset root.
func ImagesDir(root string) string { return filepath.Join(root, ImagesDirName) }

// LabelsDir returns the ground-truth labels directory for a dataset root.
func LabelsDir(root string) string { return filepath.Join(root, LabelsDirName) }

// PredictionsDir returns the detector-output directory for a dataset root.
func PredictionsDir(root string) string { return filepath.Join(root, PredictionsDirName) }

// txtName swaps the extension of an image filename for .txt.
func txtName(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

// LabelPath returns the ground-truth label file for an image in the dataset.
func LabelPath(root, imagePath string) string {
	return filepath.Join(LabelsDir(root), txtName(imagePath))
}

// PredictionPath returns the detector-output file for an image in the dataset.
func PredictionPath(root, imagePath string) string {
	return filepath.Join(PredictionsDir(root), txtName(imagePath))
}
