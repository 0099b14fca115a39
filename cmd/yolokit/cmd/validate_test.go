package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolokit/yolokit/internal/testutil"
)

func TestValidateCommandCleanDataset(t *testing.T) {
	root := testutil.MakeDatasetRoot(t,
		testutil.ImageFixture{
			Name:   "a.png",
			Size:   testutil.SmallSize,
			Labels: []string{testutil.YoloLine(0, 0.5, 0.5, 0.25, 0.25)},
		},
		testutil.ImageFixture{Name: "b.png", Size: testutil.SmallSize},
	)

	output, err := runCommand(t, rootCmd, "validate", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, output, "Checked 2 image(s): 1 labeled, 0 with issues")
}

func TestValidateCommandFindsBrokenLabels(t *testing.T) {
	root := testutil.MakeDatasetRoot(t,
		testutil.ImageFixture{
			Name:   "a.png",
			Size:   testutil.SmallSize,
			Labels: []string{"0 1.5 0.5 0.25 0.25"},
		},
	)

	output, err := runCommand(t, rootCmd, "validate", "--root", root)
	require.Error(t, err)
	assert.Contains(t, output, "cx is outside [0,1]")
	assert.Contains(t, output, "1 with issues")
}

func TestValidateCommandRequiresRoot(t *testing.T) {
	_, err := runCommand(t, rootCmd, "validate", "--root", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--root is required")
}

func TestValidateCommandMissingDataset(t *testing.T) {
	_, err := runCommand(t, rootCmd, "validate", "--root", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
