package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	s, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "", s.InstallRoot)
	assert.False(t, s.Silent)
	assert.Equal(t, config.BackendAuto, s.Store.Backend)
	assert.Equal(t, "hkcu", s.Store.Hive)
	assert.Equal(t, "", s.Journal.Dir)
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, config.ConfigFileName)
	err := os.WriteFile(path, []byte(`
install_root = "/srv/apps"
silent = true

[store]
backend = "file"
`), 0644)
	require.NoError(t, err)

	s, err := config.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/apps", s.InstallRoot)
	assert.True(t, s.Silent)
	assert.Equal(t, config.BackendFile, s.Store.Backend)
	// Untouched keys keep their defaults
	assert.Equal(t, "hkcu", s.Store.Hive)
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"file\"\n"), 0644))

	t.Setenv("ONETEXT_SETUP_STORE__BACKEND", "memory")
	t.Setenv("ONETEXT_SETUP_INSTALL_ROOT", "/from/env")

	s, err := config.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, s.Store.Backend)
	assert.Equal(t, "/from/env", s.InstallRoot)
}

func TestLoadExpandsPathValues(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("ONETEXT_SETUP_INSTALL_ROOT", "~/apps")
	t.Setenv("ONETEXT_SETUP_JOURNAL__DIR", "$HOME/journals")

	s, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "apps"), s.InstallRoot)
	assert.Equal(t, filepath.Join(home, "journals"), s.Journal.Dir)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("ONETEXT_SETUP_STORE__BACKEND", "etcd")

	_, err := config.Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadRejectsUnknownHive(t *testing.T) {
	t.Setenv("ONETEXT_SETUP_STORE__HIVE", "hkcr")

	_, err := config.Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadBadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("store = {"), 0644))

	_, err := config.Load(tmpDir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
