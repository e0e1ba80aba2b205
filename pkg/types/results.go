package types

import "time"

// FileAction is what the deployer did with one file entry
type FileAction string

const (
	FileDeployed   FileAction = "deployed"
	FileSkipped    FileAction = "skipped"
	FileWouldWrite FileAction = "would-deploy"
)

// FileResult reports one deployed (or skipped) destination path
type FileResult struct {
	Source string     `json:"source"`
	Dest   string     `json:"dest"`
	Action FileAction `json:"action"`
	Reason string     `json:"reason,omitempty"`
}

// InstallResult is the full outcome of one install run
type InstallResult struct {
	AppID      string    `json:"appId"`
	AppName    string    `json:"appName"`
	Version    string    `json:"version"`
	InstallDir string    `json:"installDir"`
	Run        string    `json:"run"`
	DryRun     bool      `json:"dryRun"`
	StartedAt  time.Time `json:"startedAt"`

	// SelectedTasks are the task ids that were on for this run
	SelectedTasks []string `json:"selectedTasks"`

	Files     []FileResult `json:"files"`
	Store     []OpResult   `json:"store"`
	Shortcuts []string     `json:"shortcuts"`

	// Launched reports whether the post-install command was started
	Launched bool `json:"launched"`
}

// ReversalFailure is one journal entry that could not be reversed.
// Uninstall collects these and keeps going.
type ReversalFailure struct {
	Entry JournalEntry `json:"entry"`
	Cause string       `json:"cause"`
}

// UninstallResult is the full outcome of one uninstall run
type UninstallResult struct {
	InstallID string    `json:"installId"`
	DryRun    bool      `json:"dryRun"`
	StartedAt time.Time `json:"startedAt"`

	// Reversed counts entries whose reversal completed, including
	// guard-skipped value deletions
	Reversed int `json:"reversed"`

	// KeptFiles is true when file removal was disabled by flag
	KeptFiles bool `json:"keptFiles"`

	Failures []ReversalFailure `json:"failures,omitempty"`
}

// Partial reports whether some entries failed to reverse
func (r *UninstallResult) Partial() bool {
	return len(r.Failures) > 0
}

// GenManifestResult is the outcome of generating a starter manifest
type GenManifestResult struct {
	Content string `json:"content"`

	// Path is set when the content was written to disk
	Path string `json:"path,omitempty"`
}

// InstallStatus summarizes one install's journal for status output
type InstallStatus struct {
	InstallID string    `json:"installId"`
	Entries   int       `json:"entries"`
	StoreOps  int       `json:"storeOps"`
	Files     int       `json:"files"`
	Dirs      int       `json:"dirs"`
	Shortcuts int       `json:"shortcuts"`
	Version   string    `json:"version,omitempty"`
	LastRun   string    `json:"lastRun,omitempty"`
	LastAt    time.Time `json:"lastAt"`
}
