// Package install implements the install command: stage the payload,
// deploy files, apply the association plan, create shortcuts, and
// journal every mutation so uninstall can reverse the run exactly.
package install

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/assoc"
	"github.com/codename-B/OneText/pkg/commands/internal/runenv"
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/deploy"
	"github.com/codename-B/OneText/pkg/executor"
	"github.com/codename-B/OneText/pkg/journal"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/manifest"
	"github.com/codename-B/OneText/pkg/privilege"
	"github.com/codename-B/OneText/pkg/shortcuts"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/tasks"
	"github.com/codename-B/OneText/pkg/types"
	"github.com/codename-B/OneText/pkg/ui"
)

// InstallOptions holds options for the install command
type InstallOptions struct {
	// Payload is the install payload, a directory or a zip archive
	Payload string

	// ManifestPath overrides the manifest lookup. Empty falls back to
	// <payload>/manifest.toml, then to the embedded default.
	ManifestPath string

	// TargetDir overrides the manifest's install directory
	TargetDir string

	// TaskChoices overrides task defaults by id
	TaskChoices map[string]bool

	// Silent suppresses the license display and the post-install launch
	Silent bool

	// DryRun plans everything but mutates nothing: no lock, no store
	// writes, no files, no journal
	DryRun bool

	// StoreBackend overrides the configured store backend
	StoreBackend string

	// Format and Out drive the license display. Rendering the result
	// is the caller's business.
	Format ui.Format
	Out    io.Writer

	// Settings overrides config loading, used by tests
	Settings *config.Settings

	// FileSystem is injectable for tests, defaults to the OS
	FileSystem types.FS

	// Store is injectable for tests, defaults to the configured backend
	Store store.Store

	// Pather is injectable for tests
	Pather types.Pather

	// Reporter receives per-file deployment progress
	Reporter deploy.Reporter

	// Launch starts the post-install command, injectable for tests
	Launch func(path string, args []string) error
}

// Install runs one install end to end. The returned result carries
// whatever completed; on error it is partial and the journal already
// holds every mutation that happened, so uninstall can clean up.
func Install(opts InstallOptions) (*types.InstallResult, error) {
	logger := logging.GetLogger("commands.install")
	started := time.Now().UTC()

	env, err := runenv.Resolve(opts.FileSystem, opts.Settings, opts.Pather)
	if err != nil {
		return nil, err
	}
	fs, pather := env.FS, env.Pather
	silent := opts.Silent || env.Settings.Silent

	// The lock is held before the payload is staged so concurrent runs
	// cannot race in the staging area. The probe target is the best
	// guess at this point; the final install dir is re-probed below
	// once the manifest is loaded.
	probeTarget := opts.TargetDir
	if probeTarget == "" {
		probeTarget = pather.InstallRoot()
	}
	if !opts.DryRun {
		priv, err := privilege.Acquire(fs, pather, probeTarget)
		if err != nil {
			return nil, err
		}
		defer priv.Release()
	}

	payloadRoot, err := deploy.Stage(fs, opts.Payload, pather.StagingDir())
	if err != nil {
		return nil, err
	}

	man, err := loadManifest(fs, payloadRoot, opts)
	if err != nil {
		return nil, err
	}

	sel, err := tasks.Resolve(man, opts.TaskChoices)
	if err != nil {
		return nil, err
	}

	installDir := man.InstallDir
	if installDir == "" {
		installDir = filepath.Join(pather.InstallRoot(), man.AppName)
	}
	if !opts.DryRun && installDir != probeTarget {
		if err := privilege.Probe(fs, installDir); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Str("app", man.AppID).
		Str("version", man.Version).
		Str("installDir", installDir).
		Strs("tasks", sel.IDs()).
		Bool("dryRun", opts.DryRun).
		Msg("starting install")

	run := runID()
	result := &types.InstallResult{
		AppID:         man.AppID,
		AppName:       man.AppName,
		Version:       man.Version,
		InstallDir:    installDir,
		Run:           run,
		DryRun:        opts.DryRun,
		StartedAt:     started,
		SelectedTasks: sel.IDs(),
	}

	showLicense(fs, payloadRoot, man, opts, silent, logger)

	st, err := env.OpenStore(opts.StoreBackend, opts.Store)
	if err != nil {
		return result, err
	}

	jr := journal.New(fs, env.JournalDir())
	prior := priorVersions(jr, man.AppID)

	var session *journal.Session
	if !opts.DryRun {
		session, err = jr.Session(man.AppID, run)
		if err != nil {
			return result, err
		}
	}

	var recorder deploy.Recorder
	if session != nil {
		recorder = session
	}
	deployer := deploy.New(fs, recorder, opts.Reporter)
	files, err := deployer.Deploy(deploy.Options{
		PayloadRoot: payloadRoot,
		InstallDir:  installDir,
		Version:     man.Version,
		Entries:     man.Files,
		Prior:       prior,
		DryRun:      opts.DryRun,
	})
	result.Files = files
	if err != nil {
		return result, err
	}

	plan := assoc.BuildPlan(man, sel, installDir)
	engine := executor.New(st, fs, opts.DryRun)
	storeResults, err := engine.Apply(session, plan)
	result.Store = storeResults
	if err != nil {
		return result, err
	}

	var shortcutRec shortcuts.Recorder
	if session != nil {
		shortcutRec = session
	}
	created, err := shortcuts.New(fs, pather).Create(shortcuts.Options{
		Manifest:   man,
		Selection:  sel,
		InstallDir: installDir,
		DryRun:     opts.DryRun,
	}, shortcutRec)
	result.Shortcuts = created
	if err != nil {
		return result, err
	}

	if man.PostInstallRun != nil && !silent && !opts.DryRun {
		launch := opts.Launch
		if launch == nil {
			launch = startDetached
		}
		path := types.ExpandApp(man.PostInstallRun.Path, installDir)
		args := make([]string, len(man.PostInstallRun.Args))
		for i, a := range man.PostInstallRun.Args {
			args[i] = types.ExpandApp(a, installDir)
		}
		if err := launch(path, args); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("post-install launch failed")
		} else {
			result.Launched = true
		}
	}

	logger.Info().
		Str("app", man.AppID).
		Str("version", man.Version).
		Int("files", len(result.Files)).
		Int("storeOps", len(result.Store)).
		Int("shortcuts", len(result.Shortcuts)).
		Bool("dryRun", opts.DryRun).
		Msg("install completed")
	return result, nil
}

// loadManifest resolves the manifest source: explicit path, the
// payload's own manifest, or the embedded default
func loadManifest(fs types.FS, payloadRoot string, opts InstallOptions) (*types.Manifest, error) {
	var overrides map[string]interface{}
	if opts.TargetDir != "" {
		overrides = map[string]interface{}{"install_dir": opts.TargetDir}
	}

	if opts.ManifestPath != "" {
		return manifest.Load(fs, opts.ManifestPath, overrides)
	}

	bundled := filepath.Join(payloadRoot, manifest.DefaultFileName)
	if _, err := fs.Stat(bundled); err == nil {
		return manifest.Load(fs, bundled, overrides)
	}
	return manifest.Default(overrides)
}

// priorVersions collects the deployed-file versions from the previous
// install's journal, keyed by destination path. Feeds ifNewerVersion.
func priorVersions(jr *journal.Journal, installID string) map[string]string {
	entries, err := jr.Entries(installID)
	if err != nil {
		// A corrupt journal must not block a repair install; the
		// deployer falls back to content comparison.
		return nil
	}
	prior := make(map[string]string)
	for _, e := range entries {
		if e.Kind == types.EntryFile {
			prior[e.Path] = e.Version
		}
	}
	return prior
}

func showLicense(fs types.FS, payloadRoot string, man *types.Manifest, opts InstallOptions, silent bool, logger zerolog.Logger) {
	if man.License == "" || silent || opts.DryRun || opts.Format == ui.FormatJSON {
		return
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	path := filepath.Join(payloadRoot, filepath.FromSlash(man.License))
	data, err := fs.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("license file unreadable, skipping display")
		return
	}
	fmt.Fprintln(out, ui.RenderLicense(string(data), opts.Format))
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// startDetached launches the post-install command and lets go of it;
// the installer never waits on the app
func startDetached(path string, args []string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
