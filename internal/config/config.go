package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Auth       AuthConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds settings for the external market-data providers.
type MarketDataConfig struct {
	PolygonAPIKey  string
	SupportedADRs  []string
	QuoteDelayMins int
}

// AuthConfig holds API-key authentication and rate-limit settings.
// PlanLimits maps a plan name to its daily request limit; a plan with no
// entry is unlimited.
type AuthConfig struct {
	FernetKey  string
	PlanLimits map[string]int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/finance_api.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			PolygonAPIKey:  getEnv("POLYGON_API_KEY", ""),
			SupportedADRs:  splitList(getEnv("SUPPORTED_ADRS", "VALE,ITUB,PBR,BBD,ABEV,ERJ,SID,GGB,BSBR,UGP")),
			QuoteDelayMins: getEnvInt("QUOTE_DELAY_MINUTES", 15),
		},
		Auth: AuthConfig{
			FernetKey: getEnv("FERNET_KEY", ""),
			PlanLimits: map[string]int{
				"free": getEnvInt("RATE_LIMIT_FREE", 100),
				"pro":  getEnvInt("RATE_LIMIT_PRO", 1000),
				// premium has no entry: unlimited
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// splitList splits a comma-separated env value into trimmed upper-case entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
