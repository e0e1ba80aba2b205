// Package uninstall implements the uninstall command: replay the
// install journal backwards and remove what the install created, then
// retire the journal.
package uninstall

import (
	"sort"
	"strings"
	"time"

	"github.com/codename-B/OneText/pkg/commands/internal/runenv"
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/executor"
	"github.com/codename-B/OneText/pkg/journal"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/privilege"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/types"
)

// UninstallOptions holds options for the uninstall command
type UninstallOptions struct {
	// InstallID names the install to reverse. Empty picks the only
	// recorded install; with several recorded, it must be given.
	InstallID string

	// KeepFiles leaves deployed files and directories on disk and
	// reverses only store entries and shortcuts
	KeepFiles bool

	// DryRun reports what would be reversed without touching anything
	DryRun bool

	// StoreBackend overrides the configured store backend
	StoreBackend string

	// Settings overrides config loading, used by tests
	Settings *config.Settings

	// FileSystem is injectable for tests, defaults to the OS
	FileSystem types.FS

	// Store is injectable for tests, defaults to the configured backend
	Store store.Store

	// Pather is injectable for tests
	Pather types.Pather
}

// Uninstall reverses one recorded install. Reversal is best effort:
// entries that fail stay in the journal for a later retry and are
// reported as warnings, not as a failed run.
func Uninstall(opts UninstallOptions) (*types.UninstallResult, error) {
	logger := logging.GetLogger("commands.uninstall")
	started := time.Now().UTC()

	env, err := runenv.Resolve(opts.FileSystem, opts.Settings, opts.Pather)
	if err != nil {
		return nil, err
	}

	jr := journal.New(env.FS, env.JournalDir())
	installID, err := resolveInstallID(jr, opts.InstallID)
	if err != nil {
		return nil, err
	}

	entries, err := jr.Entries(installID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Newf(errors.ErrNotInstalled, "no install journal for %q", installID)
	}

	logger.Debug().
		Str("install", installID).
		Int("entries", len(entries)).
		Bool("keepFiles", opts.KeepFiles).
		Bool("dryRun", opts.DryRun).
		Msg("starting uninstall")

	if !opts.DryRun {
		priv, err := privilege.Acquire(env.FS, env.Pather, env.Pather.StateDir())
		if err != nil {
			return nil, err
		}
		defer priv.Release()
	}

	st, err := env.OpenStore(opts.StoreBackend, opts.Store)
	if err != nil {
		return nil, err
	}

	engine := executor.New(st, env.FS, opts.DryRun)
	reversed, failures := engine.Reverse(entries, executor.ReverseOptions{KeepFiles: opts.KeepFiles})

	result := &types.UninstallResult{
		InstallID: installID,
		DryRun:    opts.DryRun,
		StartedAt: started,
		Reversed:  reversed,
		KeptFiles: opts.KeepFiles,
		Failures:  failures,
	}

	if !opts.DryRun {
		if len(failures) > 0 {
			keep := make([]types.JournalEntry, len(failures))
			for i, f := range failures {
				keep[i] = f.Entry
			}
			// Failures arrive in reversal order; the journal keeps
			// recorded order so a retry still reverses newest first
			sort.Slice(keep, func(a, b int) bool { return keep[a].Seq < keep[b].Seq })
			if err := jr.Rewrite(installID, keep); err != nil {
				return result, err
			}
		} else if err := jr.Clear(installID); err != nil {
			return result, err
		}
	}

	logger.Info().
		Str("install", installID).
		Int("reversed", reversed).
		Int("failed", len(failures)).
		Bool("dryRun", opts.DryRun).
		Msg("uninstall completed")
	return result, nil
}

// resolveInstallID picks the journal to reverse. An explicit id wins;
// otherwise exactly one recorded install must exist.
func resolveInstallID(jr *journal.Journal, id string) (string, error) {
	if id != "" {
		return id, nil
	}

	installs, err := jr.Installs()
	if err != nil {
		return "", err
	}
	switch len(installs) {
	case 0:
		return "", errors.New(errors.ErrNotInstalled, "no installs recorded")
	case 1:
		return installs[0], nil
	}
	return "", errors.Newf(errors.ErrInvalidInput,
		"several installs recorded (%s); name the one to uninstall", strings.Join(installs, ", "))
}
