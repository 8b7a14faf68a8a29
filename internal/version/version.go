// Package version holds the build version, set at link time via
// -ldflags "-X github.com/financeapi-br/backend/internal/version.Version=v1.2.3".
package version

// Version is the application version reported by the version endpoint.
var Version = "dev"
