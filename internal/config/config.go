package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string
	JWTTTL    time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AssistantRateLimit time.Duration
	AssistantDelay     time.Duration
}

func Load() *Config {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", ""),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTTTL:    24 * time.Hour,

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		AssistantRateLimit: 3 * time.Second,
		AssistantDelay:     time.Second,
	}

	if hours := getEnv("JWT_TTL_HOURS", ""); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil {
			cfg.JWTTTL = time.Duration(h) * time.Hour
		}
	}
	if d := getEnv("ASSISTANT_RATE_LIMIT", ""); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.AssistantRateLimit = parsed
		}
	}
	if d := getEnv("ASSISTANT_DELAY", ""); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.AssistantDelay = parsed
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
