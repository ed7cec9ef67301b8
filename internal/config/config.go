package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client side.
	APIBaseURL  string
	APITimeout  time.Duration
	SessionFile string
	LogMode     string

	// Local dev server side.
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthHMACSecret  string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CORSOrigins []string
}

// FromEnv builds a Config from environment variables, loading a .env file
// first when one is present in the working directory.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:  envOr("QUIZ_API_BASE_URL", "http://localhost:8080/api/v1"),
		APITimeout:  time.Duration(envInt("QUIZ_API_TIMEOUT_MS", 10000)) * time.Millisecond,
		SessionFile: envOr("QUIZ_SESSION_FILE", defaultSessionFile()),
		LogMode:     envOr("LOG_MODE", "dev"),

		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AccessTokenTTL:  time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTokenTTL: time.Duration(envInt("REFRESH_TOKEN_TTL_MIN", 7*24*60)) * time.Minute,

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".quizdeck", "session.json")
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
