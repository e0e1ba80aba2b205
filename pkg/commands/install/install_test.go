package install

import (
	"archive/zip"
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/journal"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/testutil"
	"github.com/codename-B/OneText/pkg/types"
)

type testEnv struct {
	fs       types.FS
	pather   *testutil.MockPaths
	store    *store.Memory
	settings *config.Settings
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := testutil.NewFS()
	testutil.WritePayload(t, fs, "/payload")
	return &testEnv{
		fs:     fs,
		pather: &testutil.MockPaths{},
		store:  store.NewMemory(),
		settings: &config.Settings{
			Store: config.StoreSettings{Backend: config.BackendMemory, Hive: "hkcu"},
		},
	}
}

func (e *testEnv) opts() InstallOptions {
	return InstallOptions{
		Payload:    "/payload",
		Silent:     true,
		Settings:   e.settings,
		FileSystem: e.fs,
		Store:      e.store,
		Pather:     e.pather,
	}
}

func (e *testEnv) journal() *journal.Journal {
	return journal.New(e.fs, e.pather.JournalDir())
}

func TestInstallDeploysEverything(t *testing.T) {
	env := newEnv(t)

	result, err := Install(env.opts())
	require.NoError(t, err)

	// The embedded manifest drives the run: payload has no manifest
	assert.Equal(t, "onetext", result.AppID)
	assert.Equal(t, "1.4.0", result.Version)
	assert.Equal(t, "/test/apps/OneText", result.InstallDir)
	assert.Equal(t, []string{"txtassoc"}, result.SelectedTasks)
	assert.False(t, result.DryRun)

	// Files land under the install dir
	assert.Len(t, result.Files, 4)
	assert.Equal(t, "onetext-binary", testutil.ReadFile(t, env.fs, "/test/apps/OneText/onetext.exe"))
	assert.True(t, testutil.Exists(env.fs, "/test/apps/OneText/assets/themes/dark.json"))

	// The association plan reached the store
	require.Len(t, result.Store, 6)
	for _, op := range result.Store {
		assert.Equal(t, types.StatusApplied, op.Status)
	}
	progid, ok, err := env.store.Get(`Software\Classes\.txt\OpenWithProgids`, "OneText.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", progid)
	friendly, ok, err := env.store.Get(`Software\Classes\OneText.txt`, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Text Document", friendly)

	// Start-menu shortcut only; desktopicon defaults off
	require.Len(t, result.Shortcuts, 1)
	assert.Equal(t, "/test/applications/onetext.desktop", result.Shortcuts[0])
	assert.True(t, testutil.Exists(env.fs, "/test/applications/onetext.desktop"))
	assert.False(t, testutil.Exists(env.fs, "/test/desktop/onetext.desktop"))

	// Every mutation is journaled
	entries, err := env.journal().Entries("onetext")
	require.NoError(t, err)
	var stores, files, dirs, shortcuts int
	for _, e := range entries {
		switch e.Kind {
		case types.EntryStoreOp:
			stores++
		case types.EntryFile:
			files++
		case types.EntryDir:
			dirs++
		case types.EntryShortcut:
			shortcuts++
		}
	}
	assert.Equal(t, 6, stores)
	assert.Equal(t, 4, files)
	assert.Equal(t, 1, shortcuts)
	assert.GreaterOrEqual(t, dirs, 3)

	// The session lock is released
	assert.False(t, testutil.Exists(env.fs, env.pather.LockPath()))
}

func TestInstallDryRunMutatesNothing(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.DryRun = true
	result, err := Install(opts)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Len(t, result.Files, 4)
	for _, f := range result.Files {
		assert.Equal(t, types.FileWouldWrite, f.Action)
	}
	for _, op := range result.Store {
		assert.Equal(t, types.StatusWouldApply, op.Status)
	}
	assert.Len(t, result.Shortcuts, 1)

	assert.False(t, testutil.Exists(env.fs, "/test/apps/OneText"))
	assert.False(t, testutil.Exists(env.fs, "/test/applications/onetext.desktop"))
	assert.Empty(t, env.store.Snapshot())

	installs, err := env.journal().Installs()
	require.NoError(t, err)
	assert.Empty(t, installs)
}

func TestInstallTaskToggles(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.TaskChoices = map[string]bool{"txtassoc": false, "desktopicon": true}
	result, err := Install(opts)
	require.NoError(t, err)

	// No selected association rules means no store plan at all
	assert.Empty(t, result.Store)
	assert.Empty(t, env.store.Snapshot())

	// Both launchers now, desktop included
	assert.Len(t, result.Shortcuts, 2)
	assert.True(t, testutil.Exists(env.fs, "/test/desktop/onetext.desktop"))
}

func TestInstallUnknownTask(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.TaskChoices = map[string]bool{"ghost": true}
	_, err := Install(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTaskUnknown))
	assert.Equal(t, errors.ExitConfiguration, errors.ExitCode(err))
}

func TestInstallTargetDirOverride(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.TargetDir = "/opt/onetext"
	result, err := Install(opts)
	require.NoError(t, err)

	assert.Equal(t, "/opt/onetext", result.InstallDir)
	assert.True(t, testutil.Exists(env.fs, "/opt/onetext/onetext.exe"))
	assert.False(t, testutil.Exists(env.fs, "/test/apps/OneText"))
}

func TestInstallExplicitManifest(t *testing.T) {
	env := newEnv(t)
	testutil.WriteFile(t, env.fs, "/custom.toml", `
app_id = "onetext"
app_name = "OneText"
version = "2.0.0"
executable = "onetext.exe"

[[files]]
source = "onetext.exe"
`)

	opts := env.opts()
	opts.ManifestPath = "/custom.toml"
	result, err := Install(opts)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", result.Version)
	assert.Len(t, result.Files, 1)
	assert.Empty(t, result.Store)
	assert.Empty(t, result.Shortcuts)
}

func TestInstallPayloadManifestWins(t *testing.T) {
	env := newEnv(t)
	testutil.WriteFile(t, env.fs, "/payload/manifest.toml", `
app_id = "onetext"
app_name = "OneText"
version = "3.1.0"
executable = "onetext.exe"

[[files]]
source = "onetext.exe"
`)

	result, err := Install(env.opts())
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
}

func TestInstallRepeatSkipsUnchangedAssets(t *testing.T) {
	env := newEnv(t)

	_, err := Install(env.opts())
	require.NoError(t, err)

	result, err := Install(env.opts())
	require.NoError(t, err)

	byDest := map[string]types.FileResult{}
	for _, f := range result.Files {
		byDest[f.Dest] = f
	}

	// always-policy files redeploy, ifNewerVersion assets skip on the
	// journaled version
	assert.Equal(t, types.FileDeployed, byDest["/test/apps/OneText/onetext.exe"].Action)
	assert.Equal(t, types.FileSkipped, byDest["/test/apps/OneText/assets/fonts.json"].Action)
	assert.Contains(t, byDest["/test/apps/OneText/assets/fonts.json"].Reason, "not older")
}

func TestInstallZipPayload(t *testing.T) {
	env := newEnv(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"onetext.exe":             "zipped-binary",
		"LICENSE.md":              "# License",
		"assets/fonts.json":       "{}",
		"assets/themes/dark.json": "{}",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	testutil.WriteFile(t, env.fs, "/dist/onetext.zip", buf.String())

	opts := env.opts()
	opts.Payload = "/dist/onetext.zip"
	result, err := Install(opts)
	require.NoError(t, err)

	assert.Len(t, result.Files, 4)
	assert.Equal(t, "zipped-binary", testutil.ReadFile(t, env.fs, "/test/apps/OneText/onetext.exe"))
}

func TestInstallShowsLicense(t *testing.T) {
	env := newEnv(t)

	var out bytes.Buffer
	opts := env.opts()
	opts.Silent = false
	opts.Out = &out
	_, err := Install(opts)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "OneText License")
}

func TestInstallSilentSkipsLicense(t *testing.T) {
	env := newEnv(t)

	var out bytes.Buffer
	opts := env.opts()
	opts.Out = &out
	_, err := Install(opts)
	require.NoError(t, err)

	assert.Empty(t, out.String())
}

func TestInstallLaunchesWhenInteractive(t *testing.T) {
	env := newEnv(t)

	var launched []string
	opts := env.opts()
	opts.Silent = false
	opts.Out = &bytes.Buffer{}
	opts.Launch = func(path string, args []string) error {
		launched = append(launched, path)
		return nil
	}
	result, err := Install(opts)
	require.NoError(t, err)

	assert.True(t, result.Launched)
	require.Len(t, launched, 1)
	assert.True(t, strings.HasPrefix(launched[0], "/test/apps/OneText"))
	assert.Contains(t, launched[0], "onetext.exe")
}

func TestInstallSilentNeverLaunches(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.Launch = func(path string, args []string) error {
		t.Fatalf("silent install launched %s", path)
		return nil
	}
	result, err := Install(opts)
	require.NoError(t, err)
	assert.False(t, result.Launched)
}

func TestInstallRefusedWhileLocked(t *testing.T) {
	env := newEnv(t)

	// A live process holds the session lock
	testutil.WriteFile(t, env.fs, env.pather.LockPath(), lockContent())

	_, err := Install(env.opts())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSessionLock))
	assert.Equal(t, errors.ExitPrivilege, errors.ExitCode(err))

	// Nothing mutated
	assert.False(t, testutil.Exists(env.fs, "/test/apps/OneText"))
	assert.Empty(t, env.store.Snapshot())
}

func TestInstallMissingPayload(t *testing.T) {
	env := newEnv(t)

	opts := env.opts()
	opts.Payload = "/nowhere"
	_, err := Install(opts)
	require.Error(t, err)
	assert.Equal(t, errors.ExitDeployment, errors.ExitCode(err))
}

func TestInstallStoreFailureIsPartial(t *testing.T) {
	env := newEnv(t)

	broken := &failingStore{Memory: env.store, failAt: 3}
	opts := env.opts()
	opts.Store = broken
	result, err := Install(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreWrite))
	assert.Equal(t, errors.ExitIntegration, errors.ExitCode(err))

	// Files were already deployed and the applied store ops journaled,
	// so uninstall can reverse the partial run
	require.NotNil(t, result)
	assert.Len(t, result.Files, 4)
	assert.Len(t, result.Store, 3)

	entries, jerr := env.journal().Entries("onetext")
	require.NoError(t, jerr)
	var journaledOps int
	for _, e := range entries {
		if e.Kind == types.EntryStoreOp {
			journaledOps++
		}
	}
	assert.Equal(t, 2, journaledOps)
}

// lockContent renders a session lock held by a live process
func lockContent() string {
	return strconv.Itoa(os.Getppid()) + "\n"
}

// failingStore fails the nth SetValue call
type failingStore struct {
	*store.Memory
	calls  int
	failAt int
}

func (f *failingStore) SetValue(path, name, data string) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.Newf(errors.ErrStoreWrite, "store rejected write to %s", path)
	}
	return f.Memory.SetValue(path, name, data)
}
