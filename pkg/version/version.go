// Package version holds the application version string.
package version

// Version is the current application version.
// It can be overridden at build time:
//
//	go build -ldflags "-X github.com/r-imagination/sciencemap/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"
