package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

func init() {
	RegisterBackend(config.BackendFile, func(_ string, fs types.FS, pather types.Pather) (Store, error) {
		return NewFile(fs, pather.StoreFile())
	})
}

// File is the portable durable backend: the whole key tree serialized
// as JSON under the state dir, written through the injected FS. Every
// mutation persists before it returns, so an interrupted run leaves the
// store consistent with the journal written up to that point.
type File struct {
	mem  *Memory
	fs   types.FS
	path string
}

// NewFile opens or creates a file-backed store at path
func NewFile(fs types.FS, path string) (*File, error) {
	f := &File{mem: NewMemory(), fs: fs, path: path}

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read store file %s", path)
	}
	if err := json.Unmarshal(data, &f.mem.keys); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "corrupt store file %s", path)
	}
	return f, nil
}

// save writes the tree to a temporary file and renames it into place,
// so a crash mid-write never truncates the store
func (f *File) save() error {
	data, err := json.MarshalIndent(f.mem.keys, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to encode store")
	}

	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to create store dir %s", dir)
	}

	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to write store file %s", tmp)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to replace store file %s", f.path)
	}
	return nil
}

func (f *File) Get(path, name string) (string, bool, error) {
	return f.mem.Get(path, name)
}

func (f *File) SetValue(path, name, data string) error {
	if err := f.mem.SetValue(path, name, data); err != nil {
		return err
	}
	return f.save()
}

func (f *File) DeleteValue(path, name string) error {
	if err := f.mem.DeleteValue(path, name); err != nil {
		return err
	}
	return f.save()
}

func (f *File) DeleteKeyTree(path string) error {
	if err := f.mem.DeleteKeyTree(path); err != nil {
		return err
	}
	return f.save()
}

func (f *File) Values(path string) (map[string]string, bool, error) {
	return f.mem.Values(path)
}
