package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by Config.StoreBackend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrMissingAPIKey is returned by Validate when no generation API key is configured.
var ErrMissingAPIKey = errors.New("config: GEMINI_API_KEY (or API_KEY) is not set")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	Temperature   float32

	RequestTimeout time.Duration
	RateLimitMs    int
	MaxRetries     int

	MinBreakdown       int
	MinRecommendations int

	StoreBackend string
	SQLitePath   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CSVExportPath string
	Debug         bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("API_KEY", "")
	}

	return &Config{
		GeminiAPIKey:  apiKey,
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		Temperature:   getEnvFloat32("GEMINI_TEMPERATURE", 0.7),

		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 0)) * time.Second,
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:     getEnvInt("MAX_RETRIES", 1),

		MinBreakdown:       getEnvInt("MIN_BREAKDOWN", 6),
		MinRecommendations: getEnvInt("MIN_RECOMMENDATIONS", 4),

		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/gbp-auditor.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "auditor"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "auditor123"),
		PostgresDB:       getEnv("POSTGRES_DB", "gbp_auditor"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CSVExportPath: getEnv("CSV_EXPORT_PATH", "./output/audit_history.csv"),
		Debug:         getEnvBool("DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Validate reports configuration that makes outbound generation calls impossible.
// Commands that only touch the store (draft, history) do not need to call it.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat32(key string, fallback float32) float32 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 32)
		if err == nil {
			return float32(f)
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
