//go:build !windows

package store

import (
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

func init() {
	RegisterBackend(config.BackendRegistry, func(hive string, _ types.FS, _ types.Pather) (Store, error) {
		return NewRegistry(hive)
	})
}

// NewRegistry is unavailable off Windows. Callers select the file
// backend instead, either explicitly or through the auto default.
func NewRegistry(hive string) (Store, error) {
	return nil, errors.New(errors.ErrStoreBackend,
		"registry backend requires windows; use the file backend")
}
