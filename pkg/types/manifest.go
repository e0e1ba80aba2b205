package types

import "strings"

// OverwritePolicy controls what the deployer does when the destination
// file already exists
type OverwritePolicy string

const (
	// OverwriteAlways replaces the destination unconditionally
	OverwriteAlways OverwritePolicy = "always"

	// OverwriteIfNewer replaces the destination only when the payload
	// carries a strictly newer version than the one already deployed
	OverwriteIfNewer OverwritePolicy = "ifNewerVersion"
)

// ShortcutLocation names a launcher directory resolved through Pather
type ShortcutLocation string

const (
	LocationStartMenu ShortcutLocation = "startMenu"
	LocationDesktop   ShortcutLocation = "desktop"
)

// Manifest is the declarative description of one install. It is loaded
// once, validated, and treated as immutable for the rest of the run.
type Manifest struct {
	// AppID is the stable identifier of the install. It names the
	// journal, the launcher files and the Applications registration.
	AppID string `koanf:"app_id" toml:"app_id" json:"appId"`

	// AppName is the human-readable product name
	AppName string `koanf:"app_name" toml:"app_name" json:"appName"`

	// Publisher is shown in status output and launcher metadata
	Publisher string `koanf:"publisher" toml:"publisher" json:"publisher"`

	// Version is the payload version, semver
	Version string `koanf:"version" toml:"version" json:"version"`

	// InstallDir is the target directory. Empty means
	// <install root>/<AppName>. CLI flags may override it.
	InstallDir string `koanf:"install_dir" toml:"install_dir,omitempty" json:"installDir"`

	// Executable is the primary binary, relative to InstallDir
	Executable string `koanf:"executable" toml:"executable" json:"executable"`

	// License is a payload-relative markdown file shown before an
	// interactive install. Empty skips the license step.
	License string `koanf:"license" toml:"license,omitempty" json:"license"`

	Files        []FileEntry       `koanf:"files" toml:"files" json:"files"`
	Tasks        []Task            `koanf:"tasks" toml:"tasks,omitempty" json:"tasks"`
	Associations []AssociationRule `koanf:"associations" toml:"associations,omitempty" json:"associations"`
	Shortcuts    []ShortcutEntry   `koanf:"shortcuts" toml:"shortcuts,omitempty" json:"shortcuts"`

	// PostInstallRun is launched after a successful interactive
	// install. Nil means nothing to launch.
	PostInstallRun *Command `koanf:"post_install_run" toml:"post_install_run,omitempty" json:"postInstallRun,omitempty"`
}

// FileEntry maps one payload path to a destination inside the install dir
type FileEntry struct {
	// Source is relative to the payload root
	Source string `koanf:"source" toml:"source" json:"source"`

	// Dest is relative to the install dir. Empty means same as Source.
	Dest string `koanf:"dest" toml:"dest,omitempty" json:"dest"`

	Policy OverwritePolicy `koanf:"policy" toml:"policy,omitempty" json:"policy"`

	// Recurse deploys the whole subtree rooted at Source
	Recurse bool `koanf:"recurse" toml:"recurse,omitempty" json:"recurse,omitempty"`
}

// Task is a named optional unit of work the user can toggle
type Task struct {
	ID              string `koanf:"id" toml:"id" json:"id"`
	Description     string `koanf:"description" toml:"description" json:"description"`
	DefaultSelected bool   `koanf:"default" toml:"default" json:"default"`
}

// AssociationRule declares one file-extension registration
type AssociationRule struct {
	// Extension includes the leading dot, lowercase
	Extension string `koanf:"extension" toml:"extension" json:"extension"`

	// ProgID is the identity key the app owns for this extension,
	// conventionally <AppName>.<ext-without-dot>
	ProgID string `koanf:"prog_id" toml:"prog_id,omitempty" json:"progId"`

	// FriendlyName is the default value of the ProgID key
	FriendlyName string `koanf:"friendly_name" toml:"friendly_name" json:"friendlyName"`

	// IconRef is an {app}-expandable icon reference
	IconRef string `koanf:"icon" toml:"icon,omitempty" json:"icon"`

	// OpenCommand is an {app}-expandable command template. When empty
	// the plan builder derives `"<install dir>\<exe>" "%1"`.
	OpenCommand string `koanf:"open_command" toml:"open_command,omitempty" json:"openCommand"`

	// MimeType feeds the shared-mime-info export, optional
	MimeType string `koanf:"mime_type" toml:"mime_type,omitempty" json:"mimeType,omitempty"`

	// GatingTask skips this rule unless the named task is selected.
	// Empty means unconditional.
	GatingTask string `koanf:"task" toml:"task,omitempty" json:"task,omitempty"`
}

// ShortcutEntry declares one launcher file
type ShortcutEntry struct {
	Name     string           `koanf:"name" toml:"name" json:"name"`
	Location ShortcutLocation `koanf:"location" toml:"location" json:"location"`

	// Target is an {app}-expandable path to launch. Empty means the
	// manifest executable.
	Target string `koanf:"target" toml:"target,omitempty" json:"target"`

	// Icon is an {app}-expandable icon reference
	Icon string `koanf:"icon" toml:"icon,omitempty" json:"icon"`

	// GatingTask skips this entry unless the named task is selected
	GatingTask string `koanf:"task" toml:"task,omitempty" json:"task,omitempty"`
}

// Command is a program plus arguments, {app}-expandable
type Command struct {
	Path string   `koanf:"path" toml:"path" json:"path"`
	Args []string `koanf:"args" toml:"args,omitempty" json:"args,omitempty"`
}

// TaskByID returns the declared task with the given id
func (m *Manifest) TaskByID(id string) (Task, bool) {
	for _, t := range m.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ExeName returns the basename of the manifest executable
func (m *Manifest) ExeName() string {
	exe := m.Executable
	for i := len(exe) - 1; i >= 0; i-- {
		if exe[i] == '/' || exe[i] == '\\' {
			return exe[i+1:]
		}
	}
	return exe
}

// ExpandApp substitutes the {app} placeholder with the resolved install
// directory. Manifest templates (icon refs, open commands, shortcut
// targets, the post-install command) carry the placeholder so the same
// manifest works with any target directory override.
func ExpandApp(s, installDir string) string {
	return strings.ReplaceAll(s, "{app}", installDir)
}

// AppPath joins the install dir and a relative path using the store's
// backslash convention. Association data describes paths the way the
// hierarchical store spells them, independent of the host separator.
func AppPath(installDir string, rel ...string) string {
	parts := append([]string{installDir}, rel...)
	return strings.Join(parts, `\`)
}
