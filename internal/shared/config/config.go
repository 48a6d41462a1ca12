package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	devBackendURL  = "http://127.0.0.1:8000"
	prodBackendURL = "https://findmydreamjobs.onrender.com"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	PublicURL          string
	SessionSecret      string
	SessionTTL         time.Duration
	BackendBaseURL     string
	BackendTimeout     time.Duration
	CORSAllowOrigin    []string
	DatabaseURL        string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	LogLevel           string
	MetricsToken       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(firstEnv("NODE_ENV", "ENV"))
	dbURL := os.Getenv("DATABASE_URL")
	secret := strings.TrimSpace(os.Getenv("NEXTAUTH_SECRET"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && secret == "" {
		log.Printf("NEXTAUTH_SECRET is required in production")
	}

	publicURL := strings.TrimRight(getEnv("NEXTAUTH_URL", "http://localhost:3000"), "/")

	return Config{
		Port:               getEnv("PORT", "3000"),
		Env:                env,
		PublicURL:          publicURL,
		SessionSecret:      secret,
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		BackendBaseURL:     backendBaseURL(env),
		BackendTimeout:     time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 60)) * time.Second,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", publicURL)),
		DatabaseURL:        dbURL,
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", publicURL+"/api/auth/callback/google"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MetricsToken:       strings.TrimSpace(os.Getenv("METRICS_TOKEN")),
	}
}

// IsProduction reports whether the config targets production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// backendBaseURL resolves the one backend origin every call goes through.
func backendBaseURL(env string) string {
	if raw := strings.TrimSpace(firstEnv("NEXT_PUBLIC_API_BASE_URL", "BACKEND_BASE_URL")); raw != "" {
		return strings.TrimRight(raw, "/")
	}
	if env == "production" {
		log.Printf("NEXT_PUBLIC_API_BASE_URL not set; using %s", prodBackendURL)
		return prodBackendURL
	}
	return devBackendURL
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q; using %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
