package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at process start and injected into every component
// that needs it. Nothing re-reads the environment after Load returns.
type Config struct {
	Port    string
	BaseURL string

	// Database backend selection: both Turso variables present selects the
	// remote libsql backend, otherwise the embedded sqlite file is used.
	// The choice is fixed for the process lifetime.
	TursoDatabaseURL string
	TursoAuthToken   string
	SQLitePath       string

	UploadDir string

	// LLM Configuration
	LLMProvider string // "gemini", "openai", or "none"
	LLMModel    string
	LLMAPIKey   string
	LLMTimeout  time.Duration

	// SMTP configuration. Unset host or username means mock-send mode.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	provider := getEnv("LLM_PROVIDER", "gemini")
	apiKey := ""
	switch provider {
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" && provider != "none" {
		log.Printf("Warning: no API key configured for LLM provider %q", provider)
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		TursoDatabaseURL: os.Getenv("TURSO_DATABASE_URL"),
		TursoAuthToken:   os.Getenv("TURSO_AUTH_TOKEN"),
		SQLitePath:       getEnv("SQLITE_PATH", "data/traqcheck.db"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		LLMProvider: provider,
		LLMModel:    getEnv("LLM_MODEL", "gemini-2.5-flash"),
		LLMAPIKey:   apiKey,
		LLMTimeout:  getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}
}

// UseRemoteDB reports whether the remote backend credentials are set.
func (c *Config) UseRemoteDB() bool {
	return c.TursoDatabaseURL != "" && c.TursoAuthToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
