package store

import (
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/types"
)

func init() {
	RegisterBackend(config.BackendMemory, func(string, types.FS, types.Pather) (Store, error) {
		return NewMemory(), nil
	})
}

// Memory is the in-memory Store used by tests and dry runs. The engine
// runs one session at a time, so access is not synchronized.
type Memory struct {
	keys map[string]map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{keys: make(map[string]map[string]string)}
}

// ensureKey creates the key and any missing ancestors, matching the
// registry behavior where creating a deep key materializes its parents
func (m *Memory) ensureKey(path string) map[string]string {
	if values, ok := m.keys[path]; ok {
		return values
	}
	for p := parentPath(path); p != ""; p = parentPath(p) {
		if _, ok := m.keys[p]; !ok {
			m.keys[p] = make(map[string]string)
		}
	}
	values := make(map[string]string)
	m.keys[path] = values
	return values
}

func (m *Memory) Get(path, name string) (string, bool, error) {
	values, ok := m.keys[path]
	if !ok {
		return "", false, nil
	}
	data, ok := values[name]
	return data, ok, nil
}

func (m *Memory) SetValue(path, name, data string) error {
	m.ensureKey(path)[name] = data
	return nil
}

func (m *Memory) DeleteValue(path, name string) error {
	if values, ok := m.keys[path]; ok {
		delete(values, name)
	}
	return nil
}

func (m *Memory) DeleteKeyTree(path string) error {
	delete(m.keys, path)
	for p := range m.keys {
		if isDescendant(p, path) {
			delete(m.keys, p)
		}
	}
	return nil
}

func (m *Memory) Values(path string) (map[string]string, bool, error) {
	values, ok := m.keys[path]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string]string, len(values))
	for name, data := range values {
		out[name] = data
	}
	return out, true, nil
}

// Snapshot returns a deep copy of the whole store, letting tests assert
// that two runs left identical state
func (m *Memory) Snapshot() map[string]map[string]string {
	out := make(map[string]map[string]string, len(m.keys))
	for path, values := range m.keys {
		copied := make(map[string]string, len(values))
		for name, data := range values {
			copied[name] = data
		}
		out[path] = copied
	}
	return out
}
