// Package journal persists the record of every mutation an install run
// performs, one file per install identifier. Uninstall replays that
// record in reverse, so entries are written durably as the mutations
// happen, never buffered until the end of the run.
//
// The format is one JSON object per line. Each write lands in a
// temporary file that is renamed over the journal, so an interrupted
// run leaves the last fully recorded entry intact.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

// FileExt is the suffix of per-install journal files
const FileExt = ".journal"

// Journal locates and manages per-install journal files under a single
// directory, usually Pather.JournalDir()
type Journal struct {
	fs     types.FS
	dir    string
	logger zerolog.Logger
}

// New creates a Journal rooted at dir
func New(fs types.FS, dir string) *Journal {
	return &Journal{
		fs:     fs,
		dir:    dir,
		logger: logging.GetLogger("journal"),
	}
}

func (j *Journal) path(installID string) string {
	return filepath.Join(j.dir, installID+FileExt)
}

// Exists reports whether installID has a journal on disk
func (j *Journal) Exists(installID string) (bool, error) {
	_, err := j.fs.Stat(j.path(installID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrJournalRead, "failed to stat journal for %s", installID)
	}
	return true, nil
}

// Installs lists the install identifiers that currently have journals
func (j *Journal) Installs() ([]string, error) {
	infos, err := j.fs.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrJournalRead, "failed to list journal dir %s", j.dir)
	}

	var ids []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, FileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, FileExt))
	}
	return ids, nil
}

// Entries reads installID's journal in recorded order. A missing
// journal yields an empty slice, not an error; callers that need to
// distinguish use Exists.
func (j *Journal) Entries(installID string) ([]types.JournalEntry, error) {
	raw, err := j.fs.ReadFile(j.path(installID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrJournalRead, "failed to read journal for %s", installID)
	}
	return decode(installID, raw)
}

// Clear removes installID's journal after a fully successful reversal
func (j *Journal) Clear(installID string) error {
	if err := j.fs.Remove(j.path(installID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrJournalWrite, "failed to remove journal for %s", installID)
	}
	j.logger.Debug().Str("install", installID).Msg("journal cleared")
	return nil
}

// Rewrite replaces installID's journal with exactly the given entries.
// Uninstall uses it to keep only the entries whose reversal failed, so
// a later attempt retries just those.
func (j *Journal) Rewrite(installID string, entries []types.JournalEntry) error {
	if len(entries) == 0 {
		return j.Clear(installID)
	}

	var buf []byte
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, errors.ErrJournalWrite, "failed to encode journal entry")
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return j.write(installID, buf)
}

// Session opens a recording session for one install run. Entries from
// an earlier interrupted run stay in place; new entries append after
// them with sequence numbers continuing past the highest recorded.
func (j *Journal) Session(installID, run string) (*Session, error) {
	raw, err := j.fs.ReadFile(j.path(installID))
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrJournalRead, "failed to read journal for %s", installID)
	}

	seq := 0
	if len(raw) > 0 {
		entries, err := decode(installID, raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Seq > seq {
				seq = entry.Seq
			}
		}
	}

	j.logger.Debug().
		Str("install", installID).
		Str("run", run).
		Int("priorSeq", seq).
		Msg("journal session opened")

	return &Session{
		journal:   j,
		installID: installID,
		run:       run,
		seq:       seq,
		lines:     raw,
	}, nil
}

// write lands data in a temp file and renames it into place
func (j *Journal) write(installID string, data []byte) error {
	if err := j.fs.MkdirAll(j.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrJournalWrite, "failed to create journal dir %s", j.dir)
	}

	path := j.path(installID)
	tmp := path + ".tmp"
	if err := j.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrJournalWrite, "failed to write journal for %s", installID)
	}
	if err := j.fs.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, errors.ErrJournalWrite, "failed to replace journal for %s", installID)
	}
	return nil
}

func decode(installID string, raw []byte) ([]types.JournalEntry, error) {
	var entries []types.JournalEntry
	for i, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry types.JournalEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, errors.Wrapf(err, errors.ErrJournalRead,
				"corrupt journal for %s at line %d", installID, i+1)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Session records the mutations of one install run. Each Record call
// persists before returning.
type Session struct {
	journal   *Journal
	installID string
	run       string
	seq       int
	lines     []byte
}

// RecordStoreOp journals one applied store write together with the
// value it displaced
func (s *Session) RecordStoreOp(op types.StoreOp, priorPresent bool, prior string) error {
	return s.record(types.JournalEntry{
		Kind:         types.EntryStoreOp,
		Op:           &op,
		PriorPresent: priorPresent,
		Prior:        prior,
	})
}

// RecordFile journals one deployed file and the manifest version that
// deployed it
func (s *Session) RecordFile(path, version string) error {
	return s.record(types.JournalEntry{
		Kind:    types.EntryFile,
		Path:    path,
		Version: version,
	})
}

// RecordDir journals one directory this run created
func (s *Session) RecordDir(path string) error {
	return s.record(types.JournalEntry{
		Kind: types.EntryDir,
		Path: path,
	})
}

// RecordShortcut journals one created launcher file
func (s *Session) RecordShortcut(path string) error {
	return s.record(types.JournalEntry{
		Kind: types.EntryShortcut,
		Path: path,
	})
}

func (s *Session) record(entry types.JournalEntry) error {
	entry.Seq = s.seq + 1
	entry.Run = s.run
	entry.At = time.Now().UTC()

	line, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, errors.ErrJournalWrite, "failed to encode journal entry")
	}

	buf := make([]byte, 0, len(s.lines)+len(line)+1)
	buf = append(buf, s.lines...)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if err := s.journal.write(s.installID, buf); err != nil {
		return err
	}
	s.lines = buf
	s.seq = entry.Seq
	return nil
}
