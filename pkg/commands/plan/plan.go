// Package plan implements the plan command: resolve the full install
// pipeline and report what it would do, touching nothing.
package plan

import (
	"github.com/codename-B/OneText/pkg/commands/install"
	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/types"
)

// PlanOptions holds options for the plan command. It mirrors the
// install options that affect planning; the mutation-only knobs have
// no equivalent here.
type PlanOptions struct {
	// Payload is the install payload, a directory or a zip archive
	Payload string

	// ManifestPath overrides the manifest lookup
	ManifestPath string

	// TargetDir overrides the manifest's install directory
	TargetDir string

	// TaskChoices overrides task defaults by id
	TaskChoices map[string]bool

	// StoreBackend overrides the configured store backend
	StoreBackend string

	// Settings overrides config loading, used by tests
	Settings *config.Settings

	// FileSystem, Store and Pather are injectable for tests
	FileSystem types.FS
	Store      store.Store
	Pather     types.Pather
}

// Plan resolves manifest, selection, deployment and the store plan the
// way install would, with every mutation suppressed. It is exactly an
// install dry run; sharing the pipeline keeps the two from drifting.
func Plan(opts PlanOptions) (*types.InstallResult, error) {
	return install.Install(install.InstallOptions{
		Payload:      opts.Payload,
		ManifestPath: opts.ManifestPath,
		TargetDir:    opts.TargetDir,
		TaskChoices:  opts.TaskChoices,
		StoreBackend: opts.StoreBackend,
		DryRun:       true,
		Silent:       true,
		Settings:     opts.Settings,
		FileSystem:   opts.FileSystem,
		Store:        opts.Store,
		Pather:       opts.Pather,
	})
}
