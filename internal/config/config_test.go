package config_test

import (
	"os"
	"testing"
	"time"

	"tripweaver/internal/config"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("GOOGLE_MAPS_API_KEY", "test-maps-key")
	os.Setenv("OPENAI_MODEL", "gpt-4o")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("GOOGLE_MAPS_API_KEY")
		os.Unsetenv("OPENAI_MODEL")
	}()

	cfg := config.LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("Expected LLM API key 'test-key', got %s", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Expected model 'gpt-4o', got %s", cfg.LLM.Model)
	}
	if cfg.Places.APIKey != "test-maps-key" {
		t.Errorf("Expected places API key 'test-maps-key', got %s", cfg.Places.APIKey)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "OPENAI_MODEL", "OPENAI_BASE_URL", "LLM_TIMEOUT",
		"GOOGLE_MAPS_BASE_URL", "RESEARCH_CACHE_TTL", "RESEARCH_CACHE_SIZE",
		"REDIS_URL", "LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}

	cfg := config.LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Expected default model 'gpt-4o-mini', got %s", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("Expected default LLM timeout 60s, got %v", cfg.LLM.Timeout)
	}
	if cfg.Cache.ResearchTTL != 30*time.Minute {
		t.Errorf("Expected default research cache TTL 30m, got %v", cfg.Cache.ResearchTTL)
	}
	if cfg.Cache.ResearchEntries != 128 {
		t.Errorf("Expected default research cache size 128, got %d", cfg.Cache.ResearchEntries)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Expected default Redis URL, got %s", cfg.RedisURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestDurationEnvAcceptsSecondsAndDurations(t *testing.T) {
	os.Setenv("LLM_TIMEOUT", "90")
	os.Setenv("PLACE_CACHE_TTL", "15m")

	defer func() {
		os.Unsetenv("LLM_TIMEOUT")
		os.Unsetenv("PLACE_CACHE_TTL")
	}()

	cfg := config.LoadConfig()

	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("Expected bare seconds to parse, got %v", cfg.LLM.Timeout)
	}
	if cfg.Places.DetailsCacheTTL != 15*time.Minute {
		t.Errorf("Expected duration string to parse, got %v", cfg.Places.DetailsCacheTTL)
	}
}

func TestRequestsPerSecond(t *testing.T) {
	os.Setenv("GOOGLE_MAPS_RPS", "2.5")
	defer os.Unsetenv("GOOGLE_MAPS_RPS")

	cfg := config.LoadConfig()

	if cfg.Places.RequestsPerSec != 2.5 {
		t.Errorf("Expected 2.5 requests per second, got %f", cfg.Places.RequestsPerSec)
	}
}
