package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the property search service.
// It includes the environment, server port, conditions provider settings,
// caching and scan tuning, and database configuration.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the HTTP API server.
// - ProviderType: The type of conditions provider to use (openmeteo, openmeteo-customer).
// - APIKey: The API key for the commercial conditions endpoint (optional).
// - RateLimit: Client-side requests-per-second limit against the provider.
// - CacheTTL: How long fetched conditions stay valid.
// - BatchSize: Properties pulled per store batch during weather filtering.
// - ScanCeiling: Hard cap on properties examined per search request.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string         `yaml:"env"`                 // Env is the current environment: local, dev, prod.
	Port         int            `yaml:"warden.port"`         // Port is the HTTP API server port.
	ProviderType string         `yaml:"provider.type"`       // ProviderType specifies which conditions provider to use.
	APIKey       string         `yaml:"provider.api_key"`    // The API key for the commercial endpoint.
	RateLimit    int            `yaml:"provider.rate_limit"` // Requests per second against the provider.
	CacheTTL     time.Duration  `yaml:"weather.cache_ttl"`   // TTL for cached conditions.
	BatchSize    int            `yaml:"search.batch_size"`   // Store batch size for weather filtering.
	ScanCeiling  int            `yaml:"search.scan_ceiling"` // Cap on properties scanned per request.
	Database     PostgresConfig `yaml:"postgres"`            // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("WARDEN_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("WARDEN_PROVIDER_RATE_LIMIT", "10"))
	if err != nil {
		panic("failed to parse provider rate limit from configuration, must be an integer type")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("WARDEN_CACHE_TTL", "5m"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	batchSize, err := strconv.Atoi(setDefaultEnv("WARDEN_BATCH_SIZE", "100"))
	if err != nil {
		panic("failed to parse batch size from configuration, must be an integer type")
	}

	scanCeiling, err := strconv.Atoi(setDefaultEnv("WARDEN_SCAN_CEILING", "1000"))
	if err != nil {
		panic("failed to parse scan ceiling from configuration, must be an integer type")
	}

	return &Config{
		Env:          setDefaultEnv("WARDEN_ENV", "production"),
		Port:         port,
		ProviderType: setDefaultEnv("WARDEN_PROVIDER_TYPE", "openmeteo"),
		APIKey:       os.Getenv("WARDEN_PROVIDER_KEY"),
		RateLimit:    rateLimit,
		CacheTTL:     cacheTTL,
		BatchSize:    batchSize,
		ScanCeiling:  scanCeiling,
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
