package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, DirExists(dir))

	// Creating an existing directory is fine.
	require.NoError(t, EnsureDir(dir))
}

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	assert.False(t, FileExists(filepath.Join(tmp, "missing.txt")))

	path := filepath.Join(tmp, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	assert.True(t, FileExists(path))
	assert.False(t, DirExists(path))
	assert.True(t, DirExists(tmp))
}
