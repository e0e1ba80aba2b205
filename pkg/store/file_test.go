package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/store"
)

func TestFile_PersistsAcrossOpens(t *testing.T) {
	fs := filesystem.NewMemory()
	path := filepath.Join("state", "store.json")

	s, err := store.NewFile(fs, path)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(`Software\Classes\.txt`, "", "OneText.txt"))
	require.NoError(t, s.SetValue(`Software\Classes\.txt\OpenWithProgids`, "OneText.txt", ""))

	// A fresh open against the same FS sees everything
	reopened, err := store.NewFile(fs, path)
	require.NoError(t, err)

	data, ok, err := reopened.Get(`Software\Classes\.txt`, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "OneText.txt", data)

	_, ok, err = reopened.Get(`Software\Classes\.txt\OpenWithProgids`, "OneText.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFile_MissingFileStartsEmpty(t *testing.T) {
	fs := filesystem.NewMemory()

	s, err := store.NewFile(fs, filepath.Join("state", "store.json"))
	require.NoError(t, err)

	_, ok, err := s.Get(`Software\Classes\.txt`, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFile(t *testing.T) {
	fs := filesystem.NewMemory()
	path := filepath.Join("state", "store.json")
	require.NoError(t, fs.MkdirAll("state", 0755))
	require.NoError(t, fs.WriteFile(path, []byte("{not json"), 0644))

	_, err := store.NewFile(fs, path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreRead))
}

func TestFile_DeletePersists(t *testing.T) {
	fs := filesystem.NewMemory()
	path := filepath.Join("state", "store.json")

	s, err := store.NewFile(fs, path)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(`Software\Classes\OneText.txt`, "", "OneText Document"))
	require.NoError(t, s.SetValue(`Software\Classes\OneText.txt\DefaultIcon`, "", "icon"))
	require.NoError(t, s.DeleteKeyTree(`Software\Classes\OneText.txt`))

	reopened, err := store.NewFile(fs, path)
	require.NoError(t, err)
	_, ok, err := reopened.Values(`Software\Classes\OneText.txt`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_NoStrayTempFile(t *testing.T) {
	fs := filesystem.NewMemory()
	path := filepath.Join("state", "store.json")

	s, err := store.NewFile(fs, path)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(`Software\Classes\.txt`, "", "OneText.txt"))

	_, err = fs.Stat(path + ".tmp")
	assert.Error(t, err, "temp file should have been renamed away")
	_, err = fs.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Backends(t *testing.T) {
	// Memory backend needs no paths at all
	s, err := store.Open("memory", "hkcu", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(`Software\Classes\.txt`, "", "x"))

	_, err = store.Open("cloud", "hkcu", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreBackend))
}
