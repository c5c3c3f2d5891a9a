package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Port the public API listens on.
	Port string
	// OpsAddr serves health checks and Prometheus metrics.
	OpsAddr string

	// DBPath is the SQLite file holding persisted state.
	DBPath string

	// RefreshInterval controls how often the forecast is refreshed.
	RefreshInterval time.Duration
	// HTTPTimeout bounds individual upstream requests.
	HTTPTimeout time.Duration

	// ForecastBaseURL and GeocodeBaseURL override the public MET and
	// Nominatim endpoints, mainly for tests and mirrors.
	ForecastBaseURL string
	GeocodeBaseURL  string

	// UserAgent identifies this installation to MET and Nominatim, both of
	// which reject anonymous clients.
	UserAgent string

	GeocodeLanguage  string
	GeocodeCacheSize int

	Debug   bool
	LogFile string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OpsAddr = getenvDefault("OPS_ADDR", ":9090")
	cfg.DBPath = getenvDefault("DB_PATH", "snowwatch.db")

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.ForecastBaseURL = os.Getenv("FORECAST_BASE_URL")
	cfg.GeocodeBaseURL = os.Getenv("GEOCODE_BASE_URL")
	cfg.UserAgent = getenvDefault("USER_AGENT", "snowwatch/1.0 (+https://github.com/mjelle/snowwatch)")
	cfg.GeocodeLanguage = getenvDefault("GEOCODE_LANGUAGE", "en")
	cfg.GeocodeCacheSize = getenvInt("GEOCODE_CACHE_SIZE", 128)

	cfg.Debug = getenvBool("DEBUG", false)
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
