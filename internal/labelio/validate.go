package labelio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Issue describes one problem found in a label file.
type Issue struct {
	Line   int    // 1-based line number
	Text   string // the offending line
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s (%q)", i.Line, i.Reason, i.Text)
}

// ValidateFile checks every line of a label file against the normalized
// `class cx cy w h` format and returns the issues found. Loading tolerates
// malformed lines by skipping them; validation surfaces them instead. A
// missing file is not an error and has no issues.
func ValidateFile(path string) ([]Issue, error) {
	f, err := os.Open(path) //nolint:gosec // G304: label paths are derived from user-selected datasets
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var issues []Issue
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if reason, ok := checkLine(line); !ok {
			issues = append(issues, Issue{Line: lineNo, Text: line, Reason: reason})
		}
	}
	if err := scanner.Err(); err != nil {
		return issues, fmt.Errorf("read label file: %w", err)
	}
	return issues, nil
}

// checkLine reports why one label line is invalid, if it is.
func checkLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < fieldsPerLine {
		return fmt.Sprintf("expected %d fields, got %d", fieldsPerLine, len(fields)), false
	}

	class, err := strconv.Atoi(fields[0])
	if err != nil {
		return "class id is not an integer", false
	}
	if class < 0 {
		return "class id is negative", false
	}

	names := [4]string{"cx", "cy", "w", "h"}
	vals := [4]float64{}
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return names[i] + " is not a number", false
		}
		if v < 0 || v > 1 {
			return names[i] + " is outside [0,1]", false
		}
		vals[i] = v
	}
	if vals[2] == 0 || vals[3] == 0 {
		return "box has zero width or height", false
	}
	return "", true
}
