// Package version identifies the running build.
package version

// Version is the service release, overridable at build time:
//
//	go build -ldflags "-X github.com/dgallion1/textprep/internal/version.Version=v1.2.3"
var Version = "0.3.0"
