// Package genmanifest implements the genmanifest command: emit a
// starter manifest for a new application.
package genmanifest

import (
	toml "github.com/pelletier/go-toml/v2"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/manifest"
	"github.com/codename-B/OneText/pkg/types"
)

// GenManifestOptions holds options for the genmanifest command
type GenManifestOptions struct {
	// AppID, AppName, Publisher, Version and Executable customize the
	// generated manifest. All empty emits the commented starter
	// verbatim; any set field switches to a generated document.
	AppID      string
	AppName    string
	Publisher  string
	Version    string
	Executable string

	// Write writes the manifest to Path instead of only returning it
	Write bool

	// Path is the output file, default manifest.toml
	Path string

	// FileSystem is injectable for tests, defaults to the OS
	FileSystem types.FS
}

// GenManifest produces starter manifest content and optionally writes
// it. An existing file is never overwritten; the content still comes
// back so the caller can show it.
func GenManifest(opts GenManifestOptions) (*types.GenManifestResult, error) {
	logger := logging.GetLogger("commands.genmanifest")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	content, err := render(opts)
	if err != nil {
		return nil, err
	}
	result := &types.GenManifestResult{Content: content}

	if !opts.Write {
		logger.Debug().Msg("returning manifest content without writing")
		return result, nil
	}

	path := opts.Path
	if path == "" {
		path = manifest.DefaultFileName
	}
	if _, err := fs.Stat(path); err == nil {
		logger.Warn().Str("path", path).Msg("manifest already exists, not overwriting")
		return result, nil
	}

	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileCopy, "failed to write manifest %s", path)
	}
	result.Path = path
	logger.Info().Str("path", path).Msg("manifest written")
	return result, nil
}

// render picks between the commented starter and a customized
// generated document
func render(opts GenManifestOptions) (string, error) {
	if opts.AppID == "" && opts.AppName == "" && opts.Publisher == "" &&
		opts.Version == "" && opts.Executable == "" {
		return manifest.DefaultContent(), nil
	}

	man, err := manifest.Default(nil)
	if err != nil {
		return "", err
	}
	if opts.AppID != "" {
		man.AppID = opts.AppID
	}
	if opts.AppName != "" {
		man.AppName = opts.AppName
	}
	if opts.Publisher != "" {
		man.Publisher = opts.Publisher
	}
	if opts.Version != "" {
		man.Version = opts.Version
	}
	if opts.Executable != "" {
		man.Executable = opts.Executable
	}

	// The customized document must hold to the same rules as a loaded
	// manifest, so bad flag values fail here, not at install time
	if err := manifest.Validate(man); err != nil {
		return "", err
	}

	data, err := toml.Marshal(man)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal manifest")
	}
	return string(data), nil
}
