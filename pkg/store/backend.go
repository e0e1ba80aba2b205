package store

import (
	"runtime"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/registry"
	"github.com/codename-B/OneText/pkg/types"
)

// BackendFactory constructs a store backend from its configuration
type BackendFactory func(hive string, fs types.FS, pather types.Pather) (Store, error)

var backends = registry.New[BackendFactory]()

// RegisterBackend makes a backend constructible by name through Open.
// Backends register themselves from init so platform-specific ones can
// stay behind build tags.
func RegisterBackend(name string, factory BackendFactory) {
	if err := backends.Register(name, factory); err != nil {
		panic(err)
	}
}

// Backends returns the registered backend names, sorted
func Backends() []string {
	return backends.List()
}

// Open selects and constructs a store backend. The auto backend picks
// the registry on Windows and the file store everywhere else, so the
// same manifest drives both without configuration.
func Open(backend, hive string, fs types.FS, pather types.Pather) (Store, error) {
	logger := logging.GetLogger("store.backend")

	if backend == config.BackendAuto {
		if runtime.GOOS == "windows" {
			backend = config.BackendRegistry
		} else {
			backend = config.BackendFile
		}
		logger.Debug().Str("resolved", backend).Msg("auto backend resolved")
	}

	factory, err := backends.Get(backend)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreBackend, "unknown store backend %q", backend)
	}
	return factory(hive, fs, pather)
}
