package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBase       string
	APIPrefix     string
	ListenAddr    string
	RedisURL      string
	DatabaseURL   string
	ProvidersFile string
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
	SessionTTL    time.Duration
	HTTPTimeout   time.Duration
	GlobalLimit   int
	ProviderLimit int
	FanoutLimit   int
	SyncWorkers   int
	Email         string
	Password      string
}

func Load() *Config {
	// .env at the repo root when running from cmd/<tool>, then the current dir
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		APIBase:       strings.TrimRight(getEnv("API_BASE", "http://localhost:3000"), "/"),
		APIPrefix:     getEnv("API_PREFIX", "/api"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		RedisURL:      os.Getenv("REDIS_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ProvidersFile: os.Getenv("PROVIDERS_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		CORSOrigins:   getList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SessionTTL:    getDuration("SESSION_TTL", 30*time.Minute),
		HTTPTimeout:   getDuration("HTTP_TIMEOUT", 60*time.Second),
		GlobalLimit:   getInt("GLOBAL_LIMIT", 200),
		ProviderLimit: getInt("PROVIDER_LIMIT", 100),
		FanoutLimit:   getInt("FANOUT_LIMIT", 20),
		SyncWorkers:   getInt("SYNC_WORKERS", 4),
		Email:         os.Getenv("DASH_EMAIL"),
		Password:      os.Getenv("DASH_PASSWORD"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return d
	}
	return n
}

func getDuration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func getList(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}
