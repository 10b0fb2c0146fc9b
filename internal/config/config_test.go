package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.GraphAPIBaseURL != "https://graph.facebook.com/v21.0" {
		t.Errorf("GraphAPIBaseURL = %s", cfg.GraphAPIBaseURL)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Errorf("GeminiModelID = %s", cfg.GeminiModelID)
	}
	if cfg.GenerationRetryDelay != 10*time.Second {
		t.Errorf("GenerationRetryDelay = %v", cfg.GenerationRetryDelay)
	}
	if cfg.GenerationMaxRetries != 2 {
		t.Errorf("GenerationMaxRetries = %d", cfg.GenerationMaxRetries)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GENERATION_RETRY_DELAY", "250ms")
	t.Setenv("GENERATION_MAX_RETRIES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Port)
	}
	if cfg.GenerationRetryDelay != 250*time.Millisecond {
		t.Errorf("GenerationRetryDelay = %v", cfg.GenerationRetryDelay)
	}
	if cfg.GenerationMaxRetries != 5 {
		t.Errorf("GenerationMaxRetries = %d", cfg.GenerationMaxRetries)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("CAMPAIGN_CACHE_TTL", "not-a-duration")
	cfg := Load()
	if cfg.CampaignCacheTTL != 10*time.Minute {
		t.Errorf("CampaignCacheTTL = %v, want default", cfg.CampaignCacheTTL)
	}
}
