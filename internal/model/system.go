package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	DbVersion  string          `json:"db_version"`
	Features   map[string]bool `json:"features"`
}

// HealthStatus is the health endpoint's response body.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
