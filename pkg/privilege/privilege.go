// Package privilege acquires the single-session context every
// mutating run holds: a write check on the target scope and an
// exclusive lock in the state dir. Both happen before anything mutates,
// so a refused session leaves no trace.
package privilege

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

// Session is the held privilege context. Release it when the run ends;
// an unreleased lock from a crashed run is detected as stale by PID.
type Session struct {
	fs       types.FS
	lockPath string
	logger   zerolog.Logger
}

// Acquire verifies the target scope is writable and takes the session
// lock. targetDir may not exist yet; the probe runs against its closest
// existing ancestor so nothing is created outside the journaled run.
func Acquire(fs types.FS, pather types.Pather, targetDir string) (*Session, error) {
	logger := logging.GetLogger("privilege")

	if err := probeWrite(fs, targetDir); err != nil {
		return nil, err
	}

	stateDir := pather.StateDir()
	if err := fs.MkdirAll(stateDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPrivilege, "state dir %s is not writable", stateDir)
	}

	lockPath := pather.LockPath()
	if err := takeLock(fs, lockPath, logger); err != nil {
		return nil, err
	}

	logger.Debug().Str("lock", lockPath).Str("target", targetDir).Msg("session acquired")
	return &Session{fs: fs, lockPath: lockPath, logger: logger}, nil
}

// Release drops the session lock. Safe to call once the run is done in
// any state; failures only log, since the lock is stale-detected anyway.
func (s *Session) Release() {
	if err := s.fs.Remove(s.lockPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("lock", s.lockPath).Msg("failed to remove session lock")
		return
	}
	s.logger.Debug().Str("lock", s.lockPath).Msg("session released")
}

// Probe re-checks that dir is writable. Acquire already probes the
// scope it is given; install calls this again when the manifest
// resolves the final install dir to somewhere else.
func Probe(fs types.FS, dir string) error {
	return probeWrite(fs, dir)
}

// probeWrite proves files can be created under dir by writing and
// removing a probe file in its closest existing ancestor
func probeWrite(fs types.FS, dir string) error {
	ancestor := dir
	for {
		if _, err := fs.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}

	probe := filepath.Join(ancestor, ".onetext-setup-probe")
	if err := fs.WriteFile(probe, []byte{}, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPrivilege, "target scope %s is not writable", ancestor)
	}
	if err := fs.Remove(probe); err != nil {
		return errors.Wrapf(err, errors.ErrPrivilege, "failed to remove probe file %s", probe)
	}
	return nil
}

// takeLock claims the lock file, clearing a stale one whose recorded
// process is gone
func takeLock(fs types.FS, lockPath string, logger zerolog.Logger) error {
	data, err := fs.ReadFile(lockPath)
	if err == nil {
		pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && pid != os.Getpid() && processAlive(pid) {
			return errors.Newf(errors.ErrSessionLock,
				"another setup session (pid %d) holds the lock; retry after it finishes", pid)
		}
		logger.Warn().Str("lock", lockPath).Msg("clearing stale session lock")
		if err := fs.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrSessionLock, "failed to clear stale lock %s", lockPath)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrSessionLock, "failed to read lock %s", lockPath)
	}

	if err := fs.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSessionLock, "failed to write lock %s", lockPath)
	}
	return nil
}
