package types

import "fmt"

// RollbackPolicy declares, per store operation, what uninstall does to it
type RollbackPolicy string

const (
	// RollbackDeleteKey removes the whole key subtree on uninstall.
	// Authored only on keys the app owns outright.
	RollbackDeleteKey RollbackPolicy = "deleteWholeKeyOnUninstall"

	// RollbackDeleteValue removes the single value on uninstall, and
	// only if it still equals the data this install wrote
	RollbackDeleteValue RollbackPolicy = "deleteValueOnUninstall"

	// RollbackNone leaves the entry in place on uninstall. Used for
	// children of a subtree that RollbackDeleteKey already covers.
	RollbackNone RollbackPolicy = "leaveInPlaceOnUninstall"
)

// ValidRollbackPolicy reports whether p is one of the declared policies
func ValidRollbackPolicy(p RollbackPolicy) bool {
	switch p {
	case RollbackDeleteKey, RollbackDeleteValue, RollbackNone:
		return true
	}
	return false
}

// StoreOp is one planned write against the hierarchical system store.
// The plan builder produces these in their final execution order; nothing
// downstream reorders them.
type StoreOp struct {
	// Path is the backslash-separated key path
	Path string `json:"path"`

	// ValueName is the value under Path. Empty names the key's
	// default value.
	ValueName string `json:"valueName"`

	// Data is the string payload to write
	Data string `json:"data"`

	Rollback RollbackPolicy `json:"rollback"`

	// Task is the gating task that produced this op, empty when
	// unconditional. Informational only.
	Task string `json:"task,omitempty"`
}

// String renders the op the way plan output shows it
func (o StoreOp) String() string {
	name := o.ValueName
	if name == "" {
		name = "(default)"
	}
	return fmt.Sprintf("%s!%s = %q", o.Path, name, o.Data)
}

// OpStatus is the outcome of applying or reversing one operation
type OpStatus string

const (
	// StatusApplied means the write reached the store
	StatusApplied OpStatus = "applied"

	// StatusWouldApply is the dry-run stand-in for StatusApplied
	StatusWouldApply OpStatus = "would-apply"

	// StatusFailed means the store rejected the operation
	StatusFailed OpStatus = "failed"
)

// OpResult pairs an operation with what happened to it
type OpResult struct {
	Op      StoreOp  `json:"op"`
	Status  OpStatus `json:"status"`
	Message string   `json:"message,omitempty"`
}
