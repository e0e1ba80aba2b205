package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/paths"
	"github.com/codename-B/OneText/pkg/types"
)

func TestNewWithExplicitRoot(t *testing.T) {
	tmpDir := t.TempDir()

	p, err := paths.New(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, p.InstallRoot())
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv(paths.EnvInstallRoot, filepath.Join(tmpDir, "apps"))
	t.Setenv(paths.EnvDataDir, filepath.Join(tmpDir, "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(tmpDir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(tmpDir, "state"))

	p, err := paths.New("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "apps"), p.InstallRoot())
	assert.Equal(t, filepath.Join(tmpDir, "data"), p.DataDir())
	assert.Equal(t, filepath.Join(tmpDir, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmpDir, "state"), p.StateDir())
}

func TestExplicitRootBeatsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(paths.EnvInstallRoot, filepath.Join(tmpDir, "from-env"))

	p, err := paths.New(filepath.Join(tmpDir, "from-flag"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "from-flag"), p.InstallRoot())
}

func TestStateLayout(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(paths.EnvStateDir, tmpDir)
	t.Setenv(paths.EnvDataDir, filepath.Join(tmpDir, "data"))

	p, err := paths.New("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "journals"), p.JournalDir())
	assert.Equal(t, filepath.Join(tmpDir, "store.json"), p.StoreFile())
	assert.Equal(t, filepath.Join(tmpDir, "session.lock"), p.LockPath())
	assert.Equal(t, filepath.Join(tmpDir, "onetext-setup.log"), p.LogFile())
	assert.Equal(t, filepath.Join(tmpDir, "data", "staging"), p.StagingDir())
}

func TestShortcutDirs(t *testing.T) {
	p, err := paths.New(t.TempDir())
	require.NoError(t, err)

	// Both locations must resolve to something usable; the exact path
	// depends on the host's XDG configuration.
	assert.NotEmpty(t, p.ShortcutDir(types.LocationStartMenu))
	assert.NotEmpty(t, p.ShortcutDir(types.LocationDesktop))
	assert.NotEqual(t,
		p.ShortcutDir(types.LocationStartMenu),
		p.ShortcutDir(types.LocationDesktop))
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func(home string) string
	}{
		{
			name: "bare_tilde",
			in:   "~",
			want: func(home string) string { return home },
		},
		{
			name: "tilde_slash",
			in:   "~/apps",
			want: func(home string) string { return filepath.Join(home, "apps") },
		},
		{
			name: "no_tilde",
			in:   "/opt/apps",
			want: func(string) string { return "/opt/apps" },
		},
		{
			name: "tilde_user_untouched",
			in:   "~other/apps",
			want: func(string) string { return "~other/apps" },
		},
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want(home), paths.ExpandHome(tt.in))
		})
	}
}
