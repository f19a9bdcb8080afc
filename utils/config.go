package utils

import (
	"errors"
	"time"
)

type Config struct {
	Env      string
	LogLevel string
	GinPort  string

	DBDriver string // mysql, sqlite or mongo
	DSN      string
	MongoURI string
	MongoDB  string

	Secret   string
	TokenTTL time.Duration

	CORSOrigins        []string
	RateLimitPerMinute int

	ImageAPIURL  string
	ImageAPIKey  string
	ImageModel   string
	ImageTimeout time.Duration
	LLMAPIURL    string
	LLMAPIKey    string
	LLMModel     string

	NodeID int64

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads the process environment. Call LoadEnv first to pick up a .env file.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		GinPort:  getEnv("GIN_PORT", "8080"),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DSN:      getEnv("DB", ""),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "fashion_studio"),

		Secret:   getEnv("SECRET", ""),
		TokenTTL: getEnvDuration("TOKEN_TTL", 7*24*time.Hour),

		CORSOrigins:        getEnvList("CORS_ORIGINS"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		ImageAPIURL:  getEnv("IMAGE_API_URL", "https://api.openai.com/v1/images/generations"),
		ImageAPIKey:  getEnv("IMAGE_API_KEY", ""),
		ImageModel:   getEnv("IMAGE_MODEL", "gpt-image-1"),
		ImageTimeout: getEnvDuration("IMAGE_TIMEOUT", 90*time.Second),
		LLMAPIURL:    getEnv("LLM_API_URL", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),

		NodeID: int64(getEnvInt("NODE_ID", 1)),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.Secret == "" {
		return cfg, errors.New("SECRET must be set")
	}
	switch cfg.DBDriver {
	case "mysql", "sqlite":
		if cfg.DSN == "" {
			return cfg, errors.New("DB must be set for driver " + cfg.DBDriver)
		}
	case "mongo":
	default:
		return cfg, errors.New("unknown DB_DRIVER " + cfg.DBDriver)
	}
	return cfg, nil
}
