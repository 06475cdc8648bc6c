// Package version reports the ranak build version.
package version

import "runtime/debug"

// version is set at link time with
// -ldflags "-X github.com/ranaklabs/ranak/internal/version.version=v1.2.3".
var version string

// Get returns the linked version, falling back to the module build info.
func Get() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(unknown version)"
}
