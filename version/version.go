package version

import "fmt"

var version = "dev"
var commit string
var date string

// GetVersion returns current application version
func GetVersion() string {
	return version
}

// GetDevVersion returns current app version plus commit
func GetDevVersion() string {
	if len(commit) >= 6 {
		return fmt.Sprintf("%v-%v", GetVersion(), commit[:6])
	}
	return GetVersion()
}

// GetFullBuildName returns current app version, commit and build time
func GetFullBuildName() string {
	return fmt.Sprintf("ank-api %v, commit %v, built at %v", GetVersion(), commit, date)
}

// BuildInfo returns version details suitable for structured log fields.
func BuildInfo() map[string]interface{} {
	return map[string]interface{}{
		"version": version,
		"commit":  commit,
		"built":   date,
	}
}
