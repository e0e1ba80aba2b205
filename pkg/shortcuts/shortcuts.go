// Package shortcuts writes and removes launcher files.
//
// Launchers are freedesktop desktop entries named <AppID>.desktop,
// placed in the start-menu or desktop directory resolved through
// Pather. Creation is idempotent (an existing launcher is overwritten)
// and journaled; removal of a missing launcher is a no-op. The shared
// launcher directories themselves are never journaled or removed.
package shortcuts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/tasks"
	"github.com/codename-B/OneText/pkg/types"
)

// FileExt is the launcher file suffix
const FileExt = ".desktop"

// Recorder journals created launcher files
type Recorder interface {
	RecordShortcut(path string) error
}

// Options carries the resolved inputs for shortcut creation
type Options struct {
	Manifest   *types.Manifest
	Selection  tasks.Selection
	InstallDir string
	DryRun     bool
}

// Generator writes launcher files through the injected FS
type Generator struct {
	fs     types.FS
	pather types.Pather
	logger zerolog.Logger
}

// New creates a Generator
func New(fs types.FS, pather types.Pather) *Generator {
	return &Generator{
		fs:     fs,
		pather: pather,
		logger: logging.GetLogger("shortcuts"),
	}
}

// Create writes a launcher for every selected shortcut entry and
// returns the paths, created or (under dry run) merely planned. An
// entry whose gating task is deselected contributes nothing.
func (g *Generator) Create(opts Options, rec Recorder) ([]string, error) {
	var paths []string
	for _, entry := range opts.Manifest.Shortcuts {
		if !opts.Selection.Selected(entry.GatingTask) {
			g.logger.Debug().Str("name", entry.Name).Str("task", entry.GatingTask).
				Msg("shortcut gated off")
			continue
		}

		dir := g.pather.ShortcutDir(entry.Location)
		path := filepath.Join(dir, opts.Manifest.AppID+FileExt)
		paths = append(paths, path)

		if opts.DryRun {
			continue
		}

		content := Render(opts.Manifest, entry, opts.InstallDir)
		if err := g.fs.MkdirAll(dir, 0755); err != nil {
			return paths, errors.Wrapf(err, errors.ErrShortcutWrite, "failed to create %s", dir)
		}
		if err := g.fs.WriteFile(path, []byte(content), 0644); err != nil {
			return paths, errors.Wrapf(err, errors.ErrShortcutWrite, "failed to write %s", path)
		}
		if rec != nil {
			if err := rec.RecordShortcut(path); err != nil {
				return paths, err
			}
		}
		g.logger.Debug().Str("path", path).Msg("created shortcut")
	}
	return paths, nil
}

// Remove deletes a launcher file. A missing file is a no-op, so repair
// and repeated uninstalls stay quiet.
func Remove(fs types.FS, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrShortcutWrite, "failed to remove %s", path)
	}
	return nil
}

// Render produces the desktop-entry content for one shortcut. An
// explicit target is a full command line and goes in verbatim after
// expansion; the derived default is a bare path and gets quoted when
// needed.
func Render(man *types.Manifest, entry types.ShortcutEntry, installDir string) string {
	target := entry.Target
	if target == "" {
		target = quoteExec(filepath.Join(installDir, filepath.FromSlash(man.Executable)))
	} else {
		target = types.ExpandApp(target, installDir)
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", entry.Name)
	if man.Publisher != "" {
		fmt.Fprintf(&b, "Comment=%s by %s\n", man.AppName, man.Publisher)
	} else {
		fmt.Fprintf(&b, "Comment=%s\n", man.AppName)
	}
	fmt.Fprintf(&b, "Exec=%s %%F\n", target)
	if entry.Icon != "" {
		fmt.Fprintf(&b, "Icon=%s\n", types.ExpandApp(entry.Icon, installDir))
	}
	b.WriteString("Terminal=false\n")

	if mimes := mimeTypes(man); len(mimes) > 0 {
		fmt.Fprintf(&b, "MimeType=%s;\n", strings.Join(mimes, ";"))
	}
	return b.String()
}

// mimeTypes collects the distinct mime types the manifest associates,
// in declaration order
func mimeTypes(man *types.Manifest) []string {
	var mimes []string
	seen := make(map[string]bool)
	for _, rule := range man.Associations {
		if rule.MimeType == "" || seen[rule.MimeType] {
			continue
		}
		seen[rule.MimeType] = true
		mimes = append(mimes, rule.MimeType)
	}
	return mimes
}

// quoteExec quotes an Exec target containing spaces, per the
// desktop-entry exec syntax
func quoteExec(path string) string {
	if strings.ContainsAny(path, " \t") {
		return `"` + path + `"`
	}
	return path
}
