package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecretKey = "dev-secret-change-me"

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int

	DatabaseURL string

	ObjectStoreType string
	UploadDir       string
	MaxUploadSize   int64
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	AnalysisQueueURL string

	AIAPIKey        string
	AIBaseURL       string
	AIModel         string
	SearchAPIKey    string
	ProviderTimeout time.Duration
	NewsCacheTTL    time.Duration

	RedisURL         string
	ChatHistoryTurns int
	ChatHistoryTTL   time.Duration

	OrphanSweepSchedule string
	OrphanGrace         time.Duration

	SentryDSN string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Existing env wins.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Printf("config: load %s: %v", path, err)
			}
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		if env == "production" {
			log.Printf("SECRET_KEY is required in production")
		}
		secret = devSecretKey
	}

	aiKey := os.Getenv("AI_API_KEY")
	if aiKey == "" {
		aiKey = os.Getenv("GROQ_API_KEY")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		SecretKey:                secret,
		Algorithm:                strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		DatabaseURL: dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:   int64(getEnvInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),

		AnalysisQueueURL: getEnv("ANALYSIS_QUEUE_URL", ""),

		AIAPIKey:        aiKey,
		AIBaseURL:       getEnv("AI_BASE_URL", "https://api.groq.com/openai/v1"),
		AIModel:         getEnv("AI_MODEL", "llama-3.3-70b-versatile"),
		SearchAPIKey:    getEnv("TAVILY_API_KEY", ""),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		NewsCacheTTL:    getEnvDuration("NEWS_CACHE_TTL", time.Hour),

		RedisURL:         getEnv("REDIS_URL", ""),
		ChatHistoryTurns: getEnvInt("CHAT_HISTORY_TURNS", 20),
		ChatHistoryTTL:   getEnvDuration("CHAT_HISTORY_TTL", 24*time.Hour),

		OrphanSweepSchedule: os.Getenv("ORPHAN_SWEEP_SCHEDULE"),
		OrphanGrace:         getEnvDuration("ORPHAN_GRACE", time.Hour),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// TokenTTL returns the configured access token lifetime.
func (c Config) TokenTTL() time.Duration {
	if c.AccessTokenExpireMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "dev", "local", "":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s invalid duration %q, using %s", key, raw, def)
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
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
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
