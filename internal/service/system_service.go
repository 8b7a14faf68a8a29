package service

import (
	"database/sql"
	"strconv"

	"github.com/financeapi-br/backend/internal/database"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// VersionInfo reports the build version, schema version and enabled
// features.
func (s *SystemService) VersionInfo() (model.VersionInfo, error) {
	schema, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  "schema-" + strconv.FormatInt(schema, 10),
		Features: map[string]bool{
			"tax_engine":  true,
			"quotes":      true,
			"correlation": true,
			"alerts":      true,
			"analytics":   true,
		},
	}, nil
}
