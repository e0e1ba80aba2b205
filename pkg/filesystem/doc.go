// Package filesystem provides filesystem implementations for onetext-setup.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed one used by
// tests to run every disk-touching component against an in-memory tree.
package filesystem
