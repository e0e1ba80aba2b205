// Package manifest loads and validates the declarative install
// manifest. A manifest is TOML or YAML, parsed through koanf and
// validated before anything downstream sees it; the rest of the run
// treats the result as immutable.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/types"
)

// DefaultFileName is the manifest file looked up in the payload root
// when no explicit --manifest path is given
const DefaultFileName = "manifest.toml"

// Load reads, parses and validates a manifest file. overrides lets
// callers layer CLI flags on top of the file's values using koanf keys
// (for example "install_dir").
func Load(fs types.FS, path string, overrides map[string]interface{}) (*types.Manifest, error) {
	logger := logging.GetLogger("manifest")

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path)
	}

	man, err := Parse(data, filepath.Ext(path), overrides)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Str("app", man.AppID).
		Str("version", man.Version).
		Msg("manifest loaded")
	return man, nil
}

// Default parses the embedded starter manifest. Used when the payload
// carries no manifest of its own.
func Default(overrides map[string]interface{}) (*types.Manifest, error) {
	return Parse(defaultManifest, ".toml", overrides)
}

// Parse decodes manifest bytes in the format implied by ext and
// validates the result
func Parse(data []byte, ext string, overrides map[string]interface{}) (*types.Manifest, error) {
	parser, err := parserFor(ext)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse manifest")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to apply manifest overrides")
		}
	}

	var man types.Manifest
	if err := k.Unmarshal("", &man); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to unmarshal manifest")
	}

	if err := Validate(&man); err != nil {
		return nil, err
	}
	return &man, nil
}

func parserFor(ext string) (koanf.Parser, error) {
	switch strings.ToLower(ext) {
	case ".toml", "":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrManifestParse, "unsupported manifest format %q", ext)
}
