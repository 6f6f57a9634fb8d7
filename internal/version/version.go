// Package version provides centralized version information for the xdrsync CLI.
// All versions follow semantic versioning (semver) conventions.

package version

// XdrsyncVersion holds the current xdrsync CLI version.
// Format: major.minor.patch[-prerelease][+build]
const XdrsyncVersion = "0.1.0-dev"
