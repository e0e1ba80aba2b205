// Package executor is the transaction engine: it applies the planned
// store operations during install and reverses whole journals during
// uninstall.
//
// Apply is fail-fast. Each operation reads the prior value, writes the
// new data, then commits a journal entry; the first failure aborts the
// remaining plan while everything already applied stays applied, with
// the journal as the only rollback path. Reverse is the opposite
// temperament: best-effort, walking the journal backwards and
// attempting every entry no matter what failed before it.
package executor

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/journal"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/shortcuts"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/types"
)

// Executor runs plans against one store and filesystem
type Executor struct {
	store  store.Store
	fs     types.FS
	dryRun bool
	logger zerolog.Logger
}

// New creates an Executor. With dryRun set, Apply reports would-apply
// without touching the store and Reverse only counts.
func New(st store.Store, fs types.FS, dryRun bool) *Executor {
	return &Executor{
		store:  st,
		fs:     fs,
		dryRun: dryRun,
		logger: logging.GetLogger("executor"),
	}
}

// Apply runs the plan in order, journaling each applied operation
// through session. It returns the per-op results up to and including
// the first failure.
func (e *Executor) Apply(session *journal.Session, plan []types.StoreOp) ([]types.OpResult, error) {
	results := make([]types.OpResult, 0, len(plan))
	for _, op := range plan {
		result, err := e.applyOne(session, op)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (e *Executor) applyOne(session *journal.Session, op types.StoreOp) (types.OpResult, error) {
	result := types.OpResult{Op: op}

	prior, priorPresent, err := e.store.Get(op.Path, op.ValueName)
	if err != nil {
		result.Status = types.StatusFailed
		result.Message = err.Error()
		return result, err
	}

	if e.dryRun {
		result.Status = types.StatusWouldApply
		return result, nil
	}

	if op.Rollback == types.RollbackDeleteKey {
		if _, existed, verr := e.store.Values(op.Path); verr == nil && existed {
			e.logger.Warn().Str("path", op.Path).
				Msg("key existed before this install; uninstall will remove it entirely")
		}
	}

	if err := e.store.SetValue(op.Path, op.ValueName, op.Data); err != nil {
		result.Status = types.StatusFailed
		result.Message = err.Error()
		return result, err
	}

	if session != nil {
		if err := session.RecordStoreOp(op, priorPresent, prior); err != nil {
			result.Status = types.StatusFailed
			result.Message = err.Error()
			return result, err
		}
	}

	e.logger.Debug().Str("op", op.String()).Msg("applied store op")
	result.Status = types.StatusApplied
	return result, nil
}

// ReverseOptions tunes journal reversal
type ReverseOptions struct {
	// KeepFiles leaves deployed files and created directories in
	// place, reversing only store operations and shortcuts
	KeepFiles bool
}

// Reverse undoes journaled entries in reverse recorded order. It
// returns how many entries were reversed and the entries that failed;
// a failure never stops the remaining entries from being attempted.
func (e *Executor) Reverse(entries []types.JournalEntry, opts ReverseOptions) (int, []types.ReversalFailure) {
	reversed := 0
	var failures []types.ReversalFailure

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if opts.KeepFiles && (entry.Kind == types.EntryFile || entry.Kind == types.EntryDir) {
			reversed++
			continue
		}
		if e.dryRun {
			reversed++
			continue
		}

		if err := e.reverseOne(entry); err != nil {
			e.logger.Warn().Err(err).Int("seq", entry.Seq).Msg("failed to reverse entry")
			failures = append(failures, types.ReversalFailure{Entry: entry, Cause: err.Error()})
			continue
		}
		reversed++
	}
	return reversed, failures
}

func (e *Executor) reverseOne(entry types.JournalEntry) error {
	switch entry.Kind {
	case types.EntryStoreOp:
		if entry.Op == nil {
			return fmt.Errorf("journal entry %d has no operation", entry.Seq)
		}
		return e.reverseStoreOp(*entry.Op)

	case types.EntryFile:
		if err := e.fs.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil

	case types.EntryDir:
		return e.removeDirIfEmpty(entry.Path)

	case types.EntryShortcut:
		return shortcuts.Remove(e.fs, entry.Path)
	}
	return fmt.Errorf("unknown journal entry kind %q", entry.Kind)
}

func (e *Executor) reverseStoreOp(op types.StoreOp) error {
	switch op.Rollback {
	case types.RollbackDeleteKey:
		return e.store.DeleteKeyTree(op.Path)

	case types.RollbackDeleteValue:
		current, ok, err := e.store.Get(op.Path, op.ValueName)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		// A later install may have overwritten the value; deleting it
		// then would unregister someone else
		if current != op.Data {
			e.logger.Info().Str("op", op.String()).
				Msg("value changed since install; leaving in place")
			return nil
		}
		return e.store.DeleteValue(op.Path, op.ValueName)

	case types.RollbackNone:
		return nil
	}
	return fmt.Errorf("unknown rollback policy %q", op.Rollback)
}

// removeDirIfEmpty deletes a journaled directory only when nothing is
// left inside it. User files dropped into the install dir survive
// uninstall.
func (e *Executor) removeDirIfEmpty(path string) error {
	dirEntries, err := e.fs.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(dirEntries) > 0 {
		e.logger.Debug().Str("path", path).Msg("directory not empty; leaving in place")
		return nil
	}
	return e.fs.Remove(path)
}
