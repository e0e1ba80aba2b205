// Package config loads the engine settings for onetext-setup.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. <config dir>/onetext-setup.toml, if present
//  3. ONETEXT_SETUP_* environment variables
//
// Settings cover the engine itself (install root, store backend, journal
// location); the description of what to install lives in the manifest,
// loaded by pkg/manifest.
package config
