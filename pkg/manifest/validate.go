package manifest

import (
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

// appIDPattern keeps AppID safe to use as a file name: it names the
// journal, the launcher files and the Applications registration
var appIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

var taskIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks a parsed manifest for structural problems. Everything
// downstream assumes a validated manifest, so this is the single gate.
func Validate(man *types.Manifest) error {
	if err := validateIdentity(man); err != nil {
		return err
	}
	if err := validateFiles(man); err != nil {
		return err
	}
	if err := validateTasks(man); err != nil {
		return err
	}
	if err := validateAssociations(man); err != nil {
		return err
	}
	if err := validateShortcuts(man); err != nil {
		return err
	}
	if man.PostInstallRun != nil && man.PostInstallRun.Path == "" {
		return invalid("post_install_run.path is empty")
	}
	return nil
}

func validateIdentity(man *types.Manifest) error {
	if man.AppID == "" {
		return invalid("app_id is required")
	}
	if !appIDPattern.MatchString(man.AppID) {
		return invalidf("app_id %q may only contain letters, digits, dots, dashes and underscores", man.AppID)
	}
	if man.AppName == "" {
		return invalid("app_name is required")
	}
	if man.Version == "" {
		return invalid("version is required")
	}
	if _, err := goversion.NewVersion(man.Version); err != nil {
		return invalidf("version %q is not a valid version string", man.Version)
	}
	if man.Executable == "" {
		return invalid("executable is required")
	}
	if err := relativePath("executable", man.Executable); err != nil {
		return err
	}
	if strings.Contains(man.InstallDir, "{app}") {
		return invalid("install_dir cannot reference {app}; it is what {app} expands to")
	}
	if man.License != "" {
		if err := relativePath("license", man.License); err != nil {
			return err
		}
	}
	return nil
}

func validateFiles(man *types.Manifest) error {
	if len(man.Files) == 0 {
		return invalid("at least one [[files]] entry is required")
	}
	for i, f := range man.Files {
		if f.Source == "" {
			return invalidf("files[%d]: source is required", i)
		}
		if err := relativePath(fmt.Sprintf("files[%d].source", i), f.Source); err != nil {
			return err
		}
		if f.Dest != "" {
			if err := relativePath(fmt.Sprintf("files[%d].dest", i), f.Dest); err != nil {
				return err
			}
		}
		switch f.Policy {
		case "", types.OverwriteAlways, types.OverwriteIfNewer:
		default:
			return invalidf("files[%d]: unknown policy %q", i, f.Policy)
		}
	}
	return nil
}

func validateTasks(man *types.Manifest) error {
	seen := make(map[string]bool, len(man.Tasks))
	for i, t := range man.Tasks {
		if t.ID == "" {
			return invalidf("tasks[%d]: id is required", i)
		}
		if !taskIDPattern.MatchString(t.ID) {
			return invalidf("tasks[%d]: id %q may only contain lowercase letters, digits, dashes and underscores", i, t.ID)
		}
		if seen[t.ID] {
			return invalidf("task id %q is declared twice", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func validateAssociations(man *types.Manifest) error {
	seen := make(map[string]bool, len(man.Associations))
	for i, a := range man.Associations {
		if a.Extension == "" {
			return invalidf("associations[%d]: extension is required", i)
		}
		if !strings.HasPrefix(a.Extension, ".") || len(a.Extension) < 2 {
			return invalidf("associations[%d]: extension %q must start with a dot", i, a.Extension)
		}
		if strings.ContainsAny(a.Extension, `\/`) || a.Extension != strings.ToLower(a.Extension) {
			return invalidf("associations[%d]: extension %q must be lowercase with no separators", i, a.Extension)
		}
		if seen[a.Extension] {
			return invalidf("extension %q is declared twice", a.Extension)
		}
		seen[a.Extension] = true

		if a.FriendlyName == "" {
			return invalidf("associations[%d]: friendly_name is required", i)
		}
		if a.MimeType != "" && !strings.Contains(a.MimeType, "/") {
			return invalidf("associations[%d]: mime_type %q is not type/subtype", i, a.MimeType)
		}
		if err := gatingTask(man, fmt.Sprintf("associations[%d]", i), a.GatingTask); err != nil {
			return err
		}
	}
	return nil
}

func validateShortcuts(man *types.Manifest) error {
	seen := make(map[string]bool, len(man.Shortcuts))
	for i, s := range man.Shortcuts {
		if s.Name == "" {
			return invalidf("shortcuts[%d]: name is required", i)
		}
		switch s.Location {
		case types.LocationStartMenu, types.LocationDesktop:
		default:
			return invalidf("shortcuts[%d]: unknown location %q", i, s.Location)
		}
		key := s.Name + "@" + string(s.Location)
		if seen[key] {
			return invalidf("shortcut %q at %s is declared twice", s.Name, s.Location)
		}
		seen[key] = true

		if err := gatingTask(man, fmt.Sprintf("shortcuts[%d]", i), s.GatingTask); err != nil {
			return err
		}
	}
	return nil
}

func gatingTask(man *types.Manifest, where, taskID string) error {
	if taskID == "" {
		return nil
	}
	if _, ok := man.TaskByID(taskID); !ok {
		return invalidf("%s: gating task %q is not declared", where, taskID)
	}
	return nil
}

// relativePath rejects payload and install-dir paths that could reach
// outside their root
func relativePath(field, p string) error {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return invalidf("%s: %q must be relative", field, p)
	}
	if len(p) >= 2 && p[1] == ':' {
		return invalidf("%s: %q must not carry a drive letter", field, p)
	}
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return invalidf("%s: %q must not contain ..", field, p)
		}
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.ErrManifestInvalid, msg)
}

func invalidf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrManifestInvalid, format, args...)
}
