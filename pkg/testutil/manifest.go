package testutil

import (
	"path/filepath"
	"testing"

	"github.com/codename-B/OneText/pkg/types"
)

// SampleManifest returns a manifest covering every install feature:
// plain and recursive file entries, both overwrite policies, gated and
// ungated tasks, an association rule, both shortcut locations and a
// post-install command.
func SampleManifest() *types.Manifest {
	return &types.Manifest{
		AppID:      "onetext",
		AppName:    "OneText",
		Publisher:  "OneText Project",
		Version:    "1.4.0",
		Executable: "onetext.exe",
		License:    "LICENSE.md",
		Files: []types.FileEntry{
			{Source: "onetext.exe", Policy: types.OverwriteAlways},
			{Source: "assets", Recurse: true, Policy: types.OverwriteIfNewer},
		},
		Tasks: []types.Task{
			{ID: "txtassoc", Description: "Associate .txt files with OneText", DefaultSelected: true},
			{ID: "desktopicon", Description: "Create a desktop shortcut", DefaultSelected: false},
		},
		Associations: []types.AssociationRule{
			{
				Extension:    ".txt",
				ProgID:       "OneText.txt",
				FriendlyName: "Text Document",
				MimeType:     "text/plain",
				GatingTask:   "txtassoc",
			},
		},
		Shortcuts: []types.ShortcutEntry{
			{Name: "OneText", Location: types.LocationStartMenu},
			{Name: "OneText", Location: types.LocationDesktop, GatingTask: "desktopicon"},
		},
		PostInstallRun: &types.Command{Path: `{app}\onetext.exe`},
	}
}

// WritePayload materializes the files SampleManifest deploys under root
func WritePayload(t *testing.T, fs types.FS, root string) {
	t.Helper()
	WriteFile(t, fs, filepath.Join(root, "onetext.exe"), "onetext-binary")
	WriteFile(t, fs, filepath.Join(root, "LICENSE.md"), "# OneText License\n\nUse freely.")
	WriteFile(t, fs, filepath.Join(root, "assets", "fonts.json"), `{"mono":"Berkeley Mono"}`)
	WriteFile(t, fs, filepath.Join(root, "assets", "themes", "dark.json"), `{"background":"#101010"}`)
}
