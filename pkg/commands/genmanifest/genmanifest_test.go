package genmanifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/manifest"
	"github.com/codename-B/OneText/pkg/testutil"
)

func TestGenManifestReturnsStarter(t *testing.T) {
	result, err := GenManifest(GenManifestOptions{FileSystem: testutil.NewFS()})
	require.NoError(t, err)

	assert.Equal(t, manifest.DefaultContent(), result.Content)
	assert.Empty(t, result.Path)
	assert.Contains(t, result.Content, "# OneText setup manifest")
}

func TestGenManifestWrites(t *testing.T) {
	fs := testutil.NewFS()

	result, err := GenManifest(GenManifestOptions{
		Write:      true,
		Path:       "/work/manifest.toml",
		FileSystem: fs,
	})
	require.NoError(t, err)

	assert.Equal(t, "/work/manifest.toml", result.Path)
	assert.Equal(t, result.Content, testutil.ReadFile(t, fs, "/work/manifest.toml"))
}

func TestGenManifestNeverOverwrites(t *testing.T) {
	fs := testutil.NewFS()
	testutil.WriteFile(t, fs, "/work/manifest.toml", "app_id = \"mine\"\n")

	result, err := GenManifest(GenManifestOptions{
		Write:      true,
		Path:       "/work/manifest.toml",
		FileSystem: fs,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Path)
	assert.Equal(t, "app_id = \"mine\"\n", testutil.ReadFile(t, fs, "/work/manifest.toml"))
}

func TestGenManifestCustomized(t *testing.T) {
	result, err := GenManifest(GenManifestOptions{
		AppID:      "notepad2",
		AppName:    "Notepad2",
		Publisher:  "Notepad2 Devs",
		Version:    "0.1.0",
		Executable: "notepad2.exe",
		FileSystem: testutil.NewFS(),
	})
	require.NoError(t, err)

	assert.Contains(t, result.Content, `app_id = 'notepad2'`)
	assert.Contains(t, result.Content, `version = '0.1.0'`)

	// The generated document parses and validates like any manifest
	man, err := manifest.Parse([]byte(result.Content), ".toml", nil)
	require.NoError(t, err)
	assert.Equal(t, "notepad2", man.AppID)
	assert.Equal(t, "notepad2.exe", man.Executable)
}

func TestGenManifestRejectsInvalidCustomization(t *testing.T) {
	_, err := GenManifest(GenManifestOptions{
		Version:    "not-a-version",
		FileSystem: testutil.NewFS(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
}
