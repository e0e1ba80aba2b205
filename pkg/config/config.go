package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/utils"
)

// ConfigFileName is the optional per-user engine config in the XDG
// config dir
const ConfigFileName = "onetext-setup.toml"

// EnvPrefix namespaces environment overrides
const EnvPrefix = "ONETEXT_SETUP_"

// Store backend names accepted by store.backend
const (
	BackendAuto     = "auto"
	BackendRegistry = "registry"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// StoreSettings selects and parameterizes the system store backend
type StoreSettings struct {
	Backend string `koanf:"backend"`
	Hive    string `koanf:"hive"`
}

// JournalSettings overrides where uninstall journals live
type JournalSettings struct {
	Dir string `koanf:"dir"`
}

// Settings holds the engine configuration, layered from embedded
// defaults, the optional config file, and environment overrides
type Settings struct {
	InstallRoot string          `koanf:"install_root"`
	Silent      bool            `koanf:"silent"`
	Store       StoreSettings   `koanf:"store"`
	Journal     JournalSettings `koanf:"journal"`
}

// Load builds the effective Settings. configDir is where the optional
// onetext-setup.toml lives; empty skips the file layer (used by tests
// and by callers that resolve the dir through pkg/paths).
func Load(configDir string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. Optional config file
	if configDir != "" {
		path := filepath.Join(configDir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
		}
	}

	// 3. Environment overrides. Double underscore nests, so
	// ONETEXT_SETUP_STORE__BACKEND becomes store.backend while
	// ONETEXT_SETUP_INSTALL_ROOT stays install_root.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	// Path values from files or the environment never went through a
	// shell, so ~ and $VARs are expanded here.
	settings.InstallRoot = utils.ExpandPath(settings.InstallRoot)
	settings.Journal.Dir = utils.ExpandPath(settings.Journal.Dir)

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	switch s.Store.Backend {
	case BackendAuto, BackendRegistry, BackendFile, BackendMemory:
	default:
		return errors.Newf(errors.ErrConfigParse, "unknown store backend %q", s.Store.Backend)
	}

	switch strings.ToLower(s.Store.Hive) {
	case "hkcu", "hklm":
	default:
		return errors.Newf(errors.ErrConfigParse, "unknown registry hive %q", s.Store.Hive)
	}
	return nil
}
