// Package types defines the core model shared across onetext-setup: the
// install manifest, the store operation plan, journal entries, and the
// filesystem and path interfaces that components receive by injection.
//
// Everything here is plain data. Behavior lives in the packages that
// consume these types (manifest loading in pkg/manifest, plan building in
// pkg/assoc, application in pkg/executor, and so on).
package types
