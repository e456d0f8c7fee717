// Package version carries the build version, set with
// -ldflags "-X github.com/vd09-projects/relctx/internal/version.Version=v1.2.3".
package version

import "runtime/debug"

var Version = "v0.0.0-dev"

// Current prefers the linker-provided version, then the module version
// recorded by go install.
func Current() string {
	if Version != "v0.0.0-dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
