// Package paths provides centralized path handling for onetext-setup.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

// Environment variable names
const (
	// EnvInstallRoot overrides the default parent directory for installs
	EnvInstallRoot = "ONETEXT_SETUP_INSTALL_ROOT"

	// EnvDataDir overrides the XDG data directory for onetext-setup
	EnvDataDir = "ONETEXT_SETUP_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for onetext-setup
	EnvConfigDir = "ONETEXT_SETUP_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for onetext-setup
	EnvStateDir = "ONETEXT_SETUP_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Internal layout under the state and data directories.
// IMPORTANT: these names define where journals and the file-backed store
// live. Installs written by one version of the tool must remain locatable
// by later versions, so they are not user-configurable.
const (
	// SetupDirName is the directory name for onetext-setup files
	SetupDirName = "onetext-setup"

	// JournalsDir is the state subdirectory holding uninstall journals
	JournalsDir = "journals"

	// StagingDir is the data subdirectory for extracted payload archives
	StagingDir = "staging"

	// StoreFileName is the file-backed system store
	StoreFileName = "store.json"

	// LockFileName is the exclusive session lock
	LockFileName = "session.lock"

	// LogFileName is the engine log file
	LogFileName = "onetext-setup.log"
)

// paths implements types.Pather
type paths struct {
	installRoot string
	xdgData     string
	xdgConfig   string
	xdgState    string
}

// New creates a Pather. installRoot overrides the default parent
// directory for installs; empty picks the platform default
// (%LOCALAPPDATA%\Programs on Windows, ~/.local/opt elsewhere),
// unless ONETEXT_SETUP_INSTALL_ROOT is set.
func New(installRoot string) (types.Pather, error) {
	p := &paths{}

	if installRoot == "" {
		installRoot = os.Getenv(EnvInstallRoot)
	}
	if installRoot == "" {
		installRoot = defaultInstallRoot()
	}
	installRoot = expandHome(installRoot)

	absRoot, err := filepath.Abs(installRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve install root %q", installRoot)
	}
	p.installRoot = absRoot

	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, SetupDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, SetupDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, SetupDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", SetupDirName)
	}
}

// defaultInstallRoot returns the per-user application directory for the
// host platform
func defaultInstallRoot() string {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "Programs")
		}
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "opt")
	}
	return filepath.Join(homeDir, ".local", "opt")
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// InstallRoot returns the default parent directory for app installs
func (p *paths) InstallRoot() string {
	return p.installRoot
}

// DataDir returns the XDG data directory for onetext-setup
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for onetext-setup
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for onetext-setup
func (p *paths) StateDir() string {
	return p.xdgState
}

// JournalDir returns the directory holding uninstall journals
func (p *paths) JournalDir() string {
	return filepath.Join(p.xdgState, JournalsDir)
}

// StoreFile returns the path of the file-backed system store
func (p *paths) StoreFile() string {
	return filepath.Join(p.xdgState, StoreFileName)
}

// StagingDir returns the directory for extracted payload archives
func (p *paths) StagingDir() string {
	return filepath.Join(p.xdgData, StagingDir)
}

// LockPath returns the path of the exclusive session lock file
func (p *paths) LockPath() string {
	return filepath.Join(p.xdgState, LockFileName)
}

// ShortcutDir returns the launcher directory for the given location.
// Start menu entries follow the freedesktop applications directory;
// desktop entries go to the user's desktop folder.
func (p *paths) ShortcutDir(loc types.ShortcutLocation) string {
	switch loc {
	case types.LocationDesktop:
		if xdg.UserDirs.Desktop != "" {
			return xdg.UserDirs.Desktop
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "Desktop")
	default:
		return filepath.Join(xdg.DataHome, "applications")
	}
}

// LogFile returns the path of the engine log file
func (p *paths) LogFile() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}
