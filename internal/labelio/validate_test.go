package labelio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLabelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateFileClean(t *testing.T) {
	path := writeLabelFile(t, "0 0.500000 0.500000 0.250000 0.250000\n1 0.1 0.1 0.05 0.05\n")

	issues, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateFileMissingIsClean(t *testing.T) {
	issues, err := ValidateFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateFileFindsIssues(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"too few fields", "0 0.5 0.5 0.25", "expected 5 fields"},
		{"non-integer class", "cat 0.5 0.5 0.25 0.25", "class id is not an integer"},
		{"negative class", "-1 0.5 0.5 0.25 0.25", "class id is negative"},
		{"value out of range", "0 1.5 0.5 0.25 0.25", "cx is outside [0,1]"},
		{"value not a number", "0 0.5 abc 0.25 0.25", "cy is not a number"},
		{"zero size box", "0 0.5 0.5 0.000000 0.25", "zero width or height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLabelFile(t, tt.line+"\n")
			issues, err := ValidateFile(path)
			require.NoError(t, err)
			require.Len(t, issues, 1)
			assert.Equal(t, 1, issues[0].Line)
			assert.Contains(t, issues[0].Reason, tt.reason)
		})
	}
}

func TestValidateFileSkipsBlankLines(t *testing.T) {
	path := writeLabelFile(t, "\n0 0.5 0.5 0.25 0.25\n\nbad line here now ok\n")

	issues, err := ValidateFile(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Line)
}
