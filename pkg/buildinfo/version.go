// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/godbolt/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/godbolt/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/godbolt/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// When the library is consumed as a dependency the ldflags are not applied;
// [ModuleVersion] then falls back to the version recorded by the Go
// toolchain for this module.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/matzehuels/godbolt"

// Product is the User-Agent product token.
const Product = "godbolt-go"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", ModuleVersion(), Commit, Date)
}

// ModuleVersion returns Version, or the module version from the binary's
// build info when Version was not stamped.
func ModuleVersion() string {
	if Version != "dev" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return Version
	}
	if info.Main.Path == ModulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path == ModulePath && dep.Version != "" {
			return dep.Version
		}
	}
	return Version
}

// UserAgent returns the User-Agent header sent with every request,
// e.g. "godbolt-go/v1.2.3".
func UserAgent() string {
	return Product + "/" + ModuleVersion()
}
