// Package runenv resolves the execution environment shared by every
// command: effective settings, the path resolver and the filesystem.
// Commands expose these as injectable options; runenv layers the
// injected values over the real defaults.
package runenv

import (
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/paths"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/types"
)

// Env is the resolved execution environment of one command run
type Env struct {
	Settings *config.Settings
	Pather   types.Pather
	FS       types.FS
}

// Resolve fills in whatever the caller did not inject. A nil fs means
// the real OS; nil settings load the config stack; a nil pather is
// built from the settings' install root.
func Resolve(fs types.FS, settings *config.Settings, pather types.Pather) (Env, error) {
	if fs == nil {
		fs = filesystem.NewOS()
	}

	if settings == nil {
		configDir := ""
		if pather != nil {
			configDir = pather.ConfigDir()
		} else if p, err := paths.New(""); err == nil {
			configDir = p.ConfigDir()
		}
		var err error
		settings, err = config.Load(configDir)
		if err != nil {
			return Env{}, err
		}
	}

	if pather == nil {
		var err error
		pather, err = paths.New(settings.InstallRoot)
		if err != nil {
			return Env{}, err
		}
	}
	return Env{Settings: settings, Pather: pather, FS: fs}, nil
}

// JournalDir returns the configured journal dir override, or the
// default location
func (e Env) JournalDir() string {
	if e.Settings.Journal.Dir != "" {
		return e.Settings.Journal.Dir
	}
	return e.Pather.JournalDir()
}

// OpenStore opens the configured store backend. injected short-circuits
// for tests; override takes precedence over the configured backend.
func (e Env) OpenStore(override string, injected store.Store) (store.Store, error) {
	if injected != nil {
		return injected, nil
	}
	backend := e.Settings.Store.Backend
	if override != "" {
		backend = override
	}
	return store.Open(backend, e.Settings.Store.Hive, e.FS, e.Pather)
}
