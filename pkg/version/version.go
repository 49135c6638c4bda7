// Package version reports the kioskradar build version.
package version

import "runtime/debug"

// Injected via ldflags at release build time.
//
//nolint:gochecknoglobals // intentionally global for ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

// Version returns the release version, falling back to the module version
// recorded in build info when no release version was injected.
func Version() string {
	if version != "dev" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return version
}

// BuildID returns the build identifier injected at build time.
func BuildID() string {
	return buildID
}

// Full returns the version with the build ID appended.
func Full() string {
	return Version() + " (build: " + buildID + ")"
}
