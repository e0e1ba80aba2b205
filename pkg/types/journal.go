package types

import "time"

// EntryKind discriminates what a journal entry records and therefore how
// uninstall reverses it
type EntryKind string

const (
	// EntryStoreOp reverses per the op's rollback policy
	EntryStoreOp EntryKind = "storeOp"

	// EntryFile removes the deployed file
	EntryFile EntryKind = "file"

	// EntryDir removes the created directory if it is empty by the
	// time its entry is reached
	EntryDir EntryKind = "dir"

	// EntryShortcut removes the launcher file
	EntryShortcut EntryKind = "shortcut"
)

// JournalEntry is one recorded mutation. Entries are self-contained:
// reversal needs nothing beyond the journal itself, so uninstall works
// even when the original manifest is gone or has changed.
type JournalEntry struct {
	// Seq is the 1-based position within the journal, continuing past
	// entries left by an earlier interrupted run
	Seq int `json:"seq"`

	// Run identifies the install run that recorded this entry
	Run string `json:"run"`

	Kind EntryKind `json:"kind"`

	// Op is set for EntryStoreOp
	Op *StoreOp `json:"op,omitempty"`

	// PriorPresent and Prior capture the store value that existed
	// before this install wrote over it
	PriorPresent bool   `json:"priorPresent,omitempty"`
	Prior        string `json:"prior,omitempty"`

	// Path is set for file, dir and shortcut entries
	Path string `json:"path,omitempty"`

	// Version is the manifest version that deployed a file entry,
	// consumed by the ifNewerVersion policy on the next install
	Version string `json:"version,omitempty"`

	At time.Time `json:"at"`
}
