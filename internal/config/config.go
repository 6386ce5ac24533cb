package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	DatabaseURL string
	AuthJWKSURL string
	TablePrefix string
	// Provider API keys (one per vendor, resolved at call time)
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAIAPIKey  string
	XAIAPIKey       string
	ThesysAPIKey    string
	DefaultProvider string
	// Optional YAML override for the tier→model catalog
	ModelCatalogPath string
	// Optional directory for timestamped log files
	LogDir string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		TablePrefix: getTablePrefix(env),
		// Provider keys: a missing key fails at call time, not startup
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GoogleAIAPIKey:  getEnv("GOOGLE_AI_API_KEY", ""),
		XAIAPIKey:       getEnv("XAI_API_KEY", ""),
		ThesysAPIKey:    getEnv("THESYS_API_KEY", ""),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", "grok"),

		ModelCatalogPath: getEnv("MODEL_CATALOG_PATH", ""),
		LogDir:           getEnv("LOG_DIR", ""),

		// Debug defaults to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
