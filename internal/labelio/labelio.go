// Package labelio reads and writes normalized-box annotation files, one .txt
// per image, with `class cx cy w h` lines.
package labelio

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yolokit/yolokit/internal/box"
	"github.com/yolokit/yolokit/internal/geom"
)

// fieldsPerLine is the minimum number of whitespace-separated fields a label
// line must carry: class id plus four normalized values.
const fieldsPerLine = 5

// Load reads the label file at path and denormalizes each line into a box
// using the given image dimensions. A missing file yields an empty set with
// no error; malformed or unparseable lines are skipped. Only a failure to
// read an existing file is returned as an error, and callers are expected to
// degrade it to "no annotations" rather than abort a folder load.
func Load(path string, imgW, imgH int) ([]*box.Box, error) {
	f, err := os.Open(path) //nolint:gosec // G304: label paths are derived from user-selected datasets
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("closing label file", "path", path, "error", cerr)
		}
	}()

	var boxes []*box.Box
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		b, ok := parseLine(scanner.Text(), imgW, imgH)
		if !ok {
			continue
		}
		boxes = append(boxes, b)
	}
	if err := scanner.Err(); err != nil {
		return boxes, fmt.Errorf("read label file: %w", err)
	}
	return boxes, nil
}

// parseLine converts one `class cx cy w h` line into a pixel-space box.
func parseLine(line string, imgW, imgH int) (*box.Box, bool) {
	fields := strings.Fields(line)
	if len(fields) < fieldsPerLine {
		return nil, false
	}
	// Class ids are written as integers but tolerated as floats on read.
	clsf, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, false
	}
	vals := make([]float64, 4)
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	x1, y1, x2, y2 := geom.YoloToPixels(vals[0], vals[1], vals[2], vals[3], imgW, imgH)
	return box.New(int(clsf), x1, y1, x2, y2), true
}

// Save writes the boxes as normalized `class cx cy w h` lines with six
// decimal places, values clamped into [0,1] to absorb floating-point slack
// from interactive edits near the image border. The file is overwritten
// unconditionally.
func Save(path string, boxes []*box.Box, imgW, imgH int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create label directory: %w", err)
	}
	lines := make([]string, 0, len(boxes))
	for _, b := range boxes {
		cx, cy, w, h := b.Normalize(imgW, imgH)
		lines = append(lines, FormatLine(b.Class, cx, cy, w, h))
	}
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("write label file: %w", err)
	}
	return nil
}

// FormatLine renders one annotation line, clamping normalized values to
// [0,1].
func FormatLine(class int, cx, cy, w, h float64) string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f",
		class,
		geom.Clamp01(cx), geom.Clamp01(cy),
		geom.Clamp01(w), geom.Clamp01(h))
}
