package testutil

import (
	"github.com/codename-B/OneText/pkg/types"
)

// MockPaths is a test implementation of the Pather interface. Zero
// values fall back to stable /test locations, so most tests construct
// it empty.
type MockPaths struct {
	InstallRootPath string
	DataDirPath     string
	ConfigDirPath   string
	StateDirPath    string
	DesktopPath     string
	StartMenuPath   string
}

// InstallRoot returns the mock install root
func (m *MockPaths) InstallRoot() string {
	if m.InstallRootPath == "" {
		return "/test/apps"
	}
	return m.InstallRootPath
}

// DataDir returns the mock data directory
func (m *MockPaths) DataDir() string {
	if m.DataDirPath == "" {
		return "/test/data"
	}
	return m.DataDirPath
}

// ConfigDir returns the mock config directory
func (m *MockPaths) ConfigDir() string {
	if m.ConfigDirPath == "" {
		return "/test/config"
	}
	return m.ConfigDirPath
}

// StateDir returns the mock state directory
func (m *MockPaths) StateDir() string {
	if m.StateDirPath == "" {
		return "/test/state"
	}
	return m.StateDirPath
}

// JournalDir returns the journal directory under the state dir
func (m *MockPaths) JournalDir() string {
	return m.StateDir() + "/journals"
}

// StoreFile returns the file-backed store path under the state dir
func (m *MockPaths) StoreFile() string {
	return m.StateDir() + "/store.json"
}

// StagingDir returns the archive staging directory under the state dir
func (m *MockPaths) StagingDir() string {
	return m.StateDir() + "/staging"
}

// LockPath returns the session lock path under the state dir
func (m *MockPaths) LockPath() string {
	return m.StateDir() + "/session.lock"
}

// ShortcutDir returns the mock launcher directory for a location
func (m *MockPaths) ShortcutDir(loc types.ShortcutLocation) string {
	if loc == types.LocationDesktop {
		if m.DesktopPath == "" {
			return "/test/desktop"
		}
		return m.DesktopPath
	}
	if m.StartMenuPath == "" {
		return "/test/applications"
	}
	return m.StartMenuPath
}

// LogFile returns the log path under the state dir
func (m *MockPaths) LogFile() string {
	return m.StateDir() + "/onetext-setup.log"
}
