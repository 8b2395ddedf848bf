package config

import (
	"os"
	"strconv"
)

// Config holds process-level configuration read from the environment.
type Config struct {
	ServerAddress string
	Environment string
	LogLevel string

	// CatalogueStore selects the constraint-catalogue repository backend:
	// "memory" or "dynamodb".
	CatalogueStore string
	CataloguePath string // YAML file watched by infrastructure/config.CatalogueWatcher

	AWSRegion string
	DynamoDBTable string

	EnableMetrics bool
	EnableTracing bool
	OTLPEndpoint string
}

// New creates a new configuration from environment variables.
func New() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		CatalogueStore: getEnv("CATALOGUE_STORE", "memory"),
		CataloguePath: getEnv("CATALOGUE_PATH", "catalogue.yaml"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", "depconstraints-catalogues"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}
}

// IsDevelopment reports whether the process is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
