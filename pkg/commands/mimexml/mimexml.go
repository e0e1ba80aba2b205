// Package mimexml implements the mimexml command: export the selected
// association rules as a shared-mime-info XML document.
package mimexml

import (
	"github.com/codename-B/OneText/pkg/assoc"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/manifest"
	"github.com/codename-B/OneText/pkg/tasks"
	"github.com/codename-B/OneText/pkg/types"
)

// MimeXMLOptions holds options for the mimexml command
type MimeXMLOptions struct {
	// ManifestPath names the manifest to export. Empty uses the
	// embedded default.
	ManifestPath string

	// TaskChoices overrides task defaults by id, mirroring install;
	// deselected rules are left out of the document
	TaskChoices map[string]bool

	// FileSystem is injectable for tests, defaults to the OS
	FileSystem types.FS
}

// MimeXML renders the manifest's typed association rules as a
// shared-mime-info document for desktop database registration
func MimeXML(opts MimeXMLOptions) (string, error) {
	logger := logging.GetLogger("commands.mimexml")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	var man *types.Manifest
	var err error
	if opts.ManifestPath != "" {
		man, err = manifest.Load(fs, opts.ManifestPath, nil)
	} else {
		man, err = manifest.Default(nil)
	}
	if err != nil {
		return "", err
	}

	sel, err := tasks.Resolve(man, opts.TaskChoices)
	if err != nil {
		return "", err
	}

	doc, err := assoc.MimeXML(man, sel)
	if err != nil {
		return "", err
	}

	logger.Debug().Str("app", man.AppID).Msg("mime xml rendered")
	return doc, nil
}
