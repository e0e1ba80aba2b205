package types

import (
	"io/fs"
)

// FS is the filesystem interface required for setup operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides the directory layout for setup operations
type Pather interface {
	// InstallRoot returns the default parent directory for app installs
	InstallRoot() string

	// DataDir returns the XDG data directory for onetext-setup
	DataDir() string

	// ConfigDir returns the XDG config directory for onetext-setup
	ConfigDir() string

	// StateDir returns the XDG state directory for onetext-setup
	StateDir() string

	// JournalDir returns the directory holding uninstall journals
	JournalDir() string

	// StoreFile returns the path of the file-backed system store
	StoreFile() string

	// StagingDir returns the directory for extracted payload archives
	StagingDir() string

	// LockPath returns the path of the exclusive session lock file
	LockPath() string

	// ShortcutDir returns the directory for the given shortcut location
	ShortcutDir(loc ShortcutLocation) string

	// LogFile returns the path of the engine log file
	LogFile() string
}
