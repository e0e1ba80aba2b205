// Package testutil provides shared test helpers: an in-memory
// filesystem, a configurable Pather mock and a manifest fixture that
// exercises every install feature.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/types"
)

// NewFS returns an empty in-memory filesystem
func NewFS() types.FS {
	return filesystem.NewMemory()
}

// WriteFile creates a file with its parent directories through fs
func WriteFile(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
	require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
}

// ReadFile reads a file through fs, failing the test on error
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether path exists in fs
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
