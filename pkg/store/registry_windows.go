//go:build windows

package store

import (
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

func init() {
	RegisterBackend(config.BackendRegistry, func(hive string, _ types.FS, _ types.Pather) (Store, error) {
		return NewRegistry(hive)
	})
}

// Registry is the Windows backend, writing under HKCU or HKLM. HKLM
// requires an elevated process; the privilege check catches that before
// any mutation.
type Registry struct {
	root registry.Key
}

// NewRegistry opens the registry backend rooted at the given hive
func NewRegistry(hive string) (Store, error) {
	switch strings.ToLower(hive) {
	case "hkcu":
		return &Registry{root: registry.CURRENT_USER}, nil
	case "hklm":
		return &Registry{root: registry.LOCAL_MACHINE}, nil
	}
	return nil, errors.Newf(errors.ErrStoreBackend, "unknown registry hive %q", hive)
}

func (r *Registry) Get(path, name string) (string, bool, error) {
	k, err := registry.OpenKey(r.root, path, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrStoreRead, "failed to open key %s", path)
	}
	defer k.Close()

	data, _, err := k.GetStringValue(name)
	if err != nil {
		if err == registry.ErrNotExist {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrStoreRead, "failed to read %s!%s", path, name)
	}
	return data, true, nil
}

func (r *Registry) SetValue(path, name, data string) error {
	k, _, err := registry.CreateKey(r.root, path, registry.SET_VALUE)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to create key %s", path)
	}
	defer k.Close()

	if err := k.SetStringValue(name, data); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to set %s!%s", path, name)
	}
	return nil
}

func (r *Registry) DeleteValue(path, name string) error {
	k, err := registry.OpenKey(r.root, path, registry.SET_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to open key %s", path)
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil && err != registry.ErrNotExist {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to delete %s!%s", path, name)
	}
	return nil
}

// DeleteKeyTree removes the key and its whole subtree. The registry API
// only deletes empty keys, so children go depth-first.
func (r *Registry) DeleteKeyTree(path string) error {
	k, err := registry.OpenKey(r.root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to open key %s", path)
	}
	subKeys, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to enumerate %s", path)
	}

	for _, sub := range subKeys {
		if err := r.DeleteKeyTree(path + Separator + sub); err != nil {
			return err
		}
	}

	if err := registry.DeleteKey(r.root, path); err != nil && err != registry.ErrNotExist {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to delete key %s", path)
	}
	return nil
}

func (r *Registry) Values(path string) (map[string]string, bool, error) {
	k, err := registry.OpenKey(r.root, path, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrStoreRead, "failed to open key %s", path)
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrStoreRead, "failed to enumerate %s", path)
	}

	values := make(map[string]string, len(names))
	for _, name := range names {
		data, _, err := k.GetStringValue(name)
		if err != nil {
			// Non-string values are outside the engine's model
			continue
		}
		values[name] = data
	}
	return values, true, nil
}
