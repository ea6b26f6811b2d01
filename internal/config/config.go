package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Debug    bool
		LogLevel string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		Table    string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
		FeedTTL  time.Duration
	}
	NASA struct {
		APIKey  string
		NEOURL  string
		Timeout time.Duration
		Days    int
	}
	Output struct {
		RawPath  string
		CSVPath  string
		XLSXPath string
	}
	Query struct {
		MissDistanceKm float64
		Condition      string
	}
	API struct {
		Enabled     bool
		Port        string
		FrontendURL string
	}
	Workers struct {
		NEOEnabled  bool
		NEOInterval time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")

	// DB
	cfg.DB.Host = os.Getenv("POSTGRES_HOST")
	cfg.DB.Port = getEnv("POSTGRES_PORT", "5432")
	cfg.DB.User = os.Getenv("POSTGRES_USER")
	cfg.DB.Password = os.Getenv("POSTGRES_PASSWORD")
	cfg.DB.DBName = os.Getenv("POSTGRES_DB")
	cfg.DB.SSLMode = getEnv("POSTGRES_SSLMODE", "disable")
	cfg.DB.Table = getEnv("NEO_TABLE", "public.asteroids")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	cfg.Redis.FeedTTL = getEnvAsDuration("REDIS_FEED_TTL", time.Hour)

	// NASA
	cfg.NASA.APIKey = getEnv("NASA_API_KEY", "DEMO_KEY")
	cfg.NASA.NEOURL = getEnv("NASA_NEO_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	cfg.NASA.Timeout = getEnvAsDuration("NASA_HTTP_TIMEOUT", 30*time.Second)
	cfg.NASA.Days = 3

	// Output
	cfg.Output.RawPath = getEnv("NEO_RAW_PATH", "near_earth_objects.txt")
	cfg.Output.CSVPath = getEnv("NEO_CSV_PATH", "near_earth_objects.csv")
	cfg.Output.XLSXPath = getEnv("NEO_XLSX_PATH", "")

	// Query
	cfg.Query.MissDistanceKm = getEnvAsFloat("QUERY_MISS_DISTANCE_KM", 2522035)
	cfg.Query.Condition = getEnv("QUERY_CONDITION", ">=")

	// API
	cfg.API.Enabled = getEnvAsBool("API_ENABLED", false)
	cfg.API.Port = getEnv("PORT", "8080")
	cfg.API.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// Workers
	cfg.Workers.NEOEnabled = getEnvAsBool("WORKER_NEO_ENABLED", false)
	cfg.Workers.NEOInterval = getEnvAsDuration("WORKER_NEO_INTERVAL", 6*time.Hour)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
