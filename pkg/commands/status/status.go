// Package status implements the status command: summarize what the
// journals say is installed.
package status

import (
	"github.com/codename-B/OneText/pkg/commands/internal/runenv"
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/journal"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

// StatusOptions holds options for the status command
type StatusOptions struct {
	// InstallID restricts the report to one install. Empty reports all.
	InstallID string

	// Settings overrides config loading, used by tests
	Settings *config.Settings

	// FileSystem is injectable for tests, defaults to the OS
	FileSystem types.FS

	// Pather is injectable for tests
	Pather types.Pather
}

// Status reads the journals and summarizes each recorded install. The
// report is computed purely from journal entries; nothing else is
// consulted and nothing mutates.
func Status(opts StatusOptions) ([]types.InstallStatus, error) {
	logger := logging.GetLogger("commands.status")

	env, err := runenv.Resolve(opts.FileSystem, opts.Settings, opts.Pather)
	if err != nil {
		return nil, err
	}

	jr := journal.New(env.FS, env.JournalDir())

	var ids []string
	if opts.InstallID != "" {
		exists, err := jr.Exists(opts.InstallID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.Newf(errors.ErrNotInstalled, "no install journal for %q", opts.InstallID)
		}
		ids = []string{opts.InstallID}
	} else {
		ids, err = jr.Installs()
		if err != nil {
			return nil, err
		}
	}

	report := make([]types.InstallStatus, 0, len(ids))
	for _, id := range ids {
		entries, err := jr.Entries(id)
		if err != nil {
			return nil, err
		}
		report = append(report, summarize(id, entries))
	}

	logger.Debug().Int("installs", len(report)).Msg("status computed")
	return report, nil
}

// summarize folds one journal into its status line. The last entry
// wins for run and timestamp; the last file entry wins for version.
func summarize(id string, entries []types.JournalEntry) types.InstallStatus {
	st := types.InstallStatus{InstallID: id, Entries: len(entries)}
	for _, e := range entries {
		switch e.Kind {
		case types.EntryStoreOp:
			st.StoreOps++
		case types.EntryFile:
			st.Files++
			if e.Version != "" {
				st.Version = e.Version
			}
		case types.EntryDir:
			st.Dirs++
		case types.EntryShortcut:
			st.Shortcuts++
		}
		st.LastRun = e.Run
		st.LastAt = e.At
	}
	return st
}
