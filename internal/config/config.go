package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	LLM    LLMConfig
	Places PlacesConfig
	Cache  CacheConfig

	RedisURL string

	LogLevel string
	LogFile  string
}

type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type PlacesConfig struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	DetailsCacheTTL time.Duration
	SearchRadius    string
	RequestsPerSec  float64
}

type CacheConfig struct {
	ResearchTTL     time.Duration
	ResearchEntries int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		LLM: LLMConfig{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:    getDurationEnv("LLM_TIMEOUT", 60*time.Second),
			MaxRetries: getIntEnv("LLM_MAX_RETRIES", 2),
		},
		Places: PlacesConfig{
			APIKey:          os.Getenv("GOOGLE_MAPS_API_KEY"),
			BaseURL:         getEnv("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
			Timeout:         getDurationEnv("GOOGLE_MAPS_TIMEOUT", 10*time.Second),
			DetailsCacheTTL: getDurationEnv("PLACE_CACHE_TTL", 6*time.Hour),
			SearchRadius:    getEnv("GOOGLE_MAPS_SEARCH_RADIUS", "2000"),
			RequestsPerSec:  getFloatEnv("GOOGLE_MAPS_RPS", 10),
		},
		Cache: CacheConfig{
			ResearchTTL:     getDurationEnv("RESEARCH_CACHE_TTL", 30*time.Minute),
			ResearchEntries: getIntEnv("RESEARCH_CACHE_SIZE", 128),
		},
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error parsing %s, using default %d", key, fallback)
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error parsing %s, using default %f", key, fallback)
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error parsing %s, using default %s", key, fallback)
		return fallback
	}
	return parsed
}
