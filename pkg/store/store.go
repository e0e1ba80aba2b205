// Package store abstracts the hierarchical system store that file-type
// associations live in.
//
// Paths are backslash-separated key paths ("Software\Classes\.txt");
// each key holds named string values, with the empty name addressing the
// key's default value. The engine only ever talks to the Store
// interface, so the transaction logic in pkg/executor runs unchanged
// against the Windows registry, the portable file backend, or the
// in-memory fake used by tests and dry runs.
package store

import "strings"

// Separator splits key paths into segments
const Separator = `\`

// Store is the injected system store interface. All deletes are
// idempotent: removing a value or key that is already absent is not an
// error.
type Store interface {
	// Get reads the named value under path. ok reports whether the
	// value exists.
	Get(path, name string) (data string, ok bool, err error)

	// SetValue writes the named value under path, creating the key and
	// any missing ancestors.
	SetValue(path, name, data string) error

	// DeleteValue removes a single named value, leaving the key and
	// its other values in place.
	DeleteValue(path, name string) error

	// DeleteKeyTree removes the key and everything beneath it.
	DeleteKeyTree(path string) error

	// Values returns a copy of the values under path. ok reports
	// whether the key itself exists.
	Values(path string) (values map[string]string, ok bool, err error)
}

// parentPath returns the key path one level up, or "" at a root
func parentPath(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// isDescendant reports whether path sits strictly below ancestor
func isDescendant(path, ancestor string) bool {
	return strings.HasPrefix(path, ancestor+Separator)
}
