package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Engine    EngineConfig
	Data      DataConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// EngineConfig holds the matching engine tuning knobs. All thresholds are
// on a 0–1 scale regardless of which matcher implementation is selected.
type EngineConfig struct {
	// Matcher selects the similarity implementation: "tokenset" (token-set
	// ratio) or "editratio" (plain edit-distance ratio).
	Matcher string
	// LinkThreshold gates ingredient-to-catalog linking.
	LinkThreshold float64
	// CorroborationThreshold gates lab/product-name confirmation against
	// equivalence registry rows. Intentionally looser than LinkThreshold.
	CorroborationThreshold float64
	// GenericRatioThreshold gates the generic-vs-brand similarity check.
	GenericRatioThreshold float64
	// StopWords overrides the normalizer stop-word list when non-empty.
	StopWords []string
}

// DataConfig holds paths to the reference data files consumed by the ETL
type DataConfig struct {
	InventoryPath   string
	MasterPath      string
	EquivalencePath string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "farmacia_vallenar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Engine: EngineConfig{
			Matcher:                getEnv("ENGINE_MATCHER", "tokenset"),
			LinkThreshold:          getEnvAsFloat("ENGINE_LINK_THRESHOLD", 0.85),
			CorroborationThreshold: getEnvAsFloat("ENGINE_CORROBORATION_THRESHOLD", 0.6),
			GenericRatioThreshold:  getEnvAsFloat("ENGINE_GENERIC_RATIO_THRESHOLD", 0.6),
			StopWords:              getEnvAsList("ENGINE_STOP_WORDS"),
		},
		Data: DataConfig{
			InventoryPath:   getEnv("DATA_INVENTORY_PATH", "data/inventario.csv"),
			MasterPath:      getEnv("DATA_MASTER_PATH", "data/maestro_cenabast.csv"),
			EquivalencePath: getEnv("DATA_EQUIVALENCE_PATH", "data/registros_isp.csv"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "farmacia-vallenar"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
