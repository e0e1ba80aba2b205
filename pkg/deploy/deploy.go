// Package deploy copies the payload into the install directory.
//
// Copies are atomic per file (temp file in the destination directory,
// renamed into place) and every effect is journaled as it lands: each
// written file, and each directory level this run created. The first
// I/O failure aborts the run; already-deployed files stay in place and
// their journal entries keep a later uninstall able to remove them.
package deploy

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/internal/hashutil"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

// Recorder journals deployment effects as they land. The install
// command passes the journal session; dry runs pass nil.
type Recorder interface {
	RecordFile(path, version string) error
	RecordDir(path string) error
}

// Reporter receives per-file progress for the UI layer
type Reporter interface {
	Begin(total int)
	File(result types.FileResult)
	End()
}

// Options carries the resolved inputs of one deployment run
type Options struct {
	// PayloadRoot is the directory the manifest's source paths are
	// relative to, after any archive extraction
	PayloadRoot string

	// InstallDir is the absolute destination directory
	InstallDir string

	// Version is the manifest version, journaled with each file
	Version string

	Entries []types.FileEntry

	// Prior maps destination paths to the version that deployed them,
	// read from the previous install's journal. Feeds the
	// ifNewerVersion policy.
	Prior map[string]string

	DryRun bool
}

// Deployer walks the manifest's file entries against the injected FS
type Deployer struct {
	fs       types.FS
	recorder Recorder
	reporter Reporter
	logger   zerolog.Logger
}

// New creates a Deployer. recorder and reporter may be nil.
func New(fs types.FS, recorder Recorder, reporter Reporter) *Deployer {
	return &Deployer{
		fs:       fs,
		recorder: recorder,
		reporter: reporter,
		logger:   logging.GetLogger("deploy"),
	}
}

// target is one resolved source to destination pair
type target struct {
	source string
	dest   string
	policy types.OverwritePolicy
}

// Deploy resolves the entries and copies them in order. It returns the
// per-file outcomes up to and including the first failure.
func (d *Deployer) Deploy(opts Options) ([]types.FileResult, error) {
	targets, err := d.resolve(opts)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("files", len(targets)).
		Str("installDir", opts.InstallDir).
		Bool("dryRun", opts.DryRun).
		Msg("deploying payload")

	if d.reporter != nil {
		d.reporter.Begin(len(targets))
		defer d.reporter.End()
	}

	results := make([]types.FileResult, 0, len(targets))
	for _, tgt := range targets {
		result, err := d.deployOne(opts, tgt)
		if d.reporter != nil {
			d.reporter.File(result)
		}
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// resolve expands the manifest entries into concrete file pairs.
// Recursive entries expand in ReadDir order, so the plan is stable
// across runs.
func (d *Deployer) resolve(opts Options) ([]target, error) {
	var targets []target
	for _, entry := range opts.Entries {
		src := filepath.Join(opts.PayloadRoot, filepath.FromSlash(entry.Source))
		destRel := entry.Dest
		if destRel == "" {
			destRel = entry.Source
		}
		dest := filepath.Join(opts.InstallDir, filepath.FromSlash(destRel))
		policy := entry.Policy
		if policy == "" {
			policy = types.OverwriteAlways
		}

		info, err := d.fs.Stat(src)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPayloadMissing, "payload entry %s not found", entry.Source)
		}

		if entry.Recurse {
			if !info.IsDir() {
				return nil, errors.Newf(errors.ErrPayloadMissing,
					"payload entry %s is marked recurse but is not a directory", entry.Source)
			}
			sub, err := d.walk(src, dest, policy)
			if err != nil {
				return nil, err
			}
			targets = append(targets, sub...)
			continue
		}

		if info.IsDir() {
			return nil, errors.Newf(errors.ErrPayloadMissing,
				"payload entry %s is a directory; mark it recurse", entry.Source)
		}
		targets = append(targets, target{source: src, dest: dest, policy: policy})
	}
	return targets, nil
}

func (d *Deployer) walk(srcDir, destDir string, policy types.OverwritePolicy) ([]target, error) {
	dirEntries, err := d.fs.ReadDir(srcDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPayloadMissing, "failed to read payload dir %s", srcDir)
	}

	var targets []target
	for _, e := range dirEntries {
		src := filepath.Join(srcDir, e.Name())
		dest := filepath.Join(destDir, e.Name())
		if e.IsDir() {
			sub, err := d.walk(src, dest, policy)
			if err != nil {
				return nil, err
			}
			targets = append(targets, sub...)
			continue
		}
		targets = append(targets, target{source: src, dest: dest, policy: policy})
	}
	return targets, nil
}

func (d *Deployer) deployOne(opts Options, tgt target) (types.FileResult, error) {
	result := types.FileResult{Source: tgt.source, Dest: tgt.dest}

	skip, reason, err := d.shouldSkip(opts, tgt)
	if err != nil {
		result.Action = types.FileSkipped
		result.Reason = err.Error()
		return result, err
	}
	if skip {
		result.Action = types.FileSkipped
		result.Reason = reason
		d.logger.Debug().Str("dest", tgt.dest).Str("reason", reason).Msg("skipping file")
		return result, nil
	}

	if opts.DryRun {
		result.Action = types.FileWouldWrite
		return result, nil
	}

	if err := d.ensureDir(filepath.Dir(tgt.dest)); err != nil {
		return result, err
	}
	if err := d.copy(tgt); err != nil {
		return result, err
	}
	if d.recorder != nil {
		if err := d.recorder.RecordFile(tgt.dest, opts.Version); err != nil {
			return result, err
		}
	}

	result.Action = types.FileDeployed
	d.logger.Debug().Str("dest", tgt.dest).Msg("deployed file")
	return result, nil
}

// shouldSkip implements the ifNewerVersion policy. The journaled
// version from the previous run decides when available; otherwise an
// identical destination is left alone and anything else is deployed,
// since repair installs must be able to restore modified files.
func (d *Deployer) shouldSkip(opts Options, tgt target) (bool, string, error) {
	if tgt.policy != types.OverwriteIfNewer {
		return false, "", nil
	}

	if _, err := d.fs.Stat(tgt.dest); err != nil {
		if os.IsNotExist(err) {
			return false, "", nil
		}
		return false, "", errors.Wrapf(err, errors.ErrFileCopy, "failed to stat %s", tgt.dest)
	}

	if prior, ok := opts.Prior[tgt.dest]; ok {
		if notNewer, comparable := versionNotNewer(opts.Version, prior); comparable {
			if notNewer {
				return true, fmt.Sprintf("destination version %s is not older", prior), nil
			}
			return false, "", nil
		}
	}

	srcSum, err := hashutil.Checksum(d.fs, tgt.source)
	if err != nil {
		return false, "", errors.Wrapf(err, errors.ErrPayloadMissing, "failed to read payload %s", tgt.source)
	}
	destSum, err := hashutil.Checksum(d.fs, tgt.dest)
	if err != nil {
		return false, "", errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", tgt.dest)
	}
	if srcSum == destSum {
		return true, "destination is identical", nil
	}
	return false, "", nil
}

// versionNotNewer reports whether incoming is not strictly newer than
// prior, plus whether both parsed as versions at all
func versionNotNewer(incoming, prior string) (bool, bool) {
	in, err := goversion.NewVersion(incoming)
	if err != nil {
		return false, false
	}
	pr, err := goversion.NewVersion(prior)
	if err != nil {
		return false, false
	}
	return in.LessThanOrEqual(pr), true
}

// ensureDir creates dir with any missing ancestors, journaling each
// level this run created. Recording goes shallowest first, so reversal,
// which walks the journal backwards, removes child dirs before parents.
func (d *Deployer) ensureDir(dir string) error {
	var created []string
	cur := dir
	for {
		_, err := d.fs.Stat(cur)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to stat %s", cur)
		}
		created = append(created, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	if len(created) == 0 {
		return nil
	}

	if err := d.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
	}
	if d.recorder != nil {
		for i := len(created) - 1; i >= 0; i-- {
			if err := d.recorder.RecordDir(created[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Deployer) copy(tgt target) error {
	data, err := d.fs.ReadFile(tgt.source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPayloadMissing, "failed to read payload %s", tgt.source)
	}

	perm := iofs.FileMode(0644)
	if info, err := d.fs.Stat(tgt.source); err == nil && info.Mode()&0111 != 0 {
		perm = 0755
	}

	tmp := tgt.dest + ".tmp"
	if err := d.fs.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", tmp)
	}
	if err := d.fs.Rename(tmp, tgt.dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to replace %s", tgt.dest)
	}
	return nil
}
