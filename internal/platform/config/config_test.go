package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("unexpected fetch timeout: %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != 5<<20 {
		t.Errorf("unexpected fetch max bytes: %d", cfg.Fetch.MaxBytes)
	}
	if cfg.GitHub.APIBase != defaultGitHubAPIBase {
		t.Errorf("unexpected github api base: %s", cfg.GitHub.APIBase)
	}
	if cfg.Analytics.RenderTopic != defaultRenderTopic {
		t.Errorf("unexpected render topic: %s", cfg.Analytics.RenderTopic)
	}
	if cfg.Analytics.IPSalt != defaultIPSalt {
		t.Errorf("unexpected ip salt: %s", cfg.Analytics.IPSalt)
	}
	if cfg.RateLimits.DefaultPerMinute != 120 {
		t.Errorf("unexpected default rate limit: %d", cfg.RateLimits.DefaultPerMinute)
	}
	if cfg.RateLimits.RenderPerMinute != 300 {
		t.Errorf("unexpected render rate limit: %d", cfg.RateLimits.RenderPerMinute)
	}
	if cfg.Features.EnableAnalytics {
		t.Error("expected analytics disabled by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":                  "9090",
		"API_SERVER_READ_TIMEOUT":          "20s",
		"API_SERVER_IDLE_TIMEOUT":          "2m",
		"API_FIRESTORE_PROJECT_ID":         "gb-prod",
		"API_FIRESTORE_EMULATOR_HOST":      "localhost:8200",
		"API_STORAGE_ASSETS_BUCKET":        "gb-assets-prod",
		"API_ANALYTICS_RENDER_TOPIC":       "render-events-prod",
		"API_ANALYTICS_GA4_MEASUREMENT_ID": "G-TEST123",
		"API_ANALYTICS_GA4_API_SECRET":     "ga4-secret",
		"API_ANALYTICS_IP_SALT":            "pepper",
		"API_FETCH_TIMEOUT":                "3s",
		"API_FETCH_MAX_BYTES":              "1048576",
		"API_FETCH_USER_AGENT":             "test-agent/1.0",
		"API_GITHUB_TOKEN":                 "ghp_test",
		"API_RATELIMIT_DEFAULT_PER_MIN":    "150",
		"API_RATELIMIT_RENDER_PER_MIN":     "600",
		"API_FEATURE_ANALYTICS":            "true",
		"API_FEATURE_ASSET_UPLOADS":        "true",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Firestore.EmulatorHost != "localhost:8200" {
		t.Errorf("unexpected emulator host: %s", cfg.Firestore.EmulatorHost)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("unexpected fetch timeout: %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != 1<<20 {
		t.Errorf("unexpected fetch max bytes: %d", cfg.Fetch.MaxBytes)
	}
	if cfg.Fetch.UserAgent != "test-agent/1.0" {
		t.Errorf("unexpected fetch user agent: %s", cfg.Fetch.UserAgent)
	}
	if cfg.GitHub.Token != "ghp_test" {
		t.Errorf("unexpected github token: %s", cfg.GitHub.Token)
	}
	if cfg.Analytics.MeasurementID != "G-TEST123" {
		t.Errorf("unexpected measurement id: %s", cfg.Analytics.MeasurementID)
	}
	if cfg.Analytics.IPSalt != "pepper" {
		t.Errorf("unexpected ip salt: %s", cfg.Analytics.IPSalt)
	}
	if cfg.RateLimits.RenderPerMinute != 600 {
		t.Errorf("unexpected render rate limit: %d", cfg.RateLimits.RenderPerMinute)
	}
	if !cfg.Features.EnableAnalytics {
		t.Error("expected analytics flag enabled")
	}
	if !cfg.Features.EnableAssetUploads {
		t.Error("expected asset uploads flag enabled")
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=gb-dot\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "gb-dot" {
		t.Errorf("expected firestore project from dotenv, got %s", cfg.Firestore.ProjectID)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	env := map[string]string{
		"API_FEATURE_ANALYTICS": "true",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := verr.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", fields)
	}
}
