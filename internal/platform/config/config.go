package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultRateLimitDefault = 120
	defaultRateLimitRender  = 300
	defaultFetchTimeout     = 5 * time.Second
	defaultFetchMaxBytes    = 5 << 20
	defaultFetchUserAgent   = "git-bubble/1.0 (+https://github.com/git-bubble)"
	defaultGitHubAPIBase    = "https://api.github.com"
	defaultRenderTopic      = "render-events"
	defaultGA4Endpoint      = "https://www.google-analytics.com/mp/collect"
	defaultIPSalt           = "git-bubble"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Firestore  FirestoreConfig
	Storage    StorageConfig
	Analytics  AnalyticsConfig
	Fetch      FetchConfig
	GitHub     GitHubConfig
	RateLimits RateLimitConfig
	Features   FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// StorageConfig lists bucket names used by the application.
type StorageConfig struct {
	AssetsBucket string
}

// AnalyticsConfig controls usage event delivery. IPSalt is mixed into client
// address hashes so the stored hashes cannot be reversed by brute-forcing the
// IPv4 space.
type AnalyticsConfig struct {
	RenderTopic   string
	GA4Endpoint   string
	MeasurementID string
	APISecret     string
	IPSalt        string
}

// FetchConfig bounds outbound requests for remote images and page metadata.
type FetchConfig struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// GitHubConfig holds credentials for the GitHub REST API.
type GitHubConfig struct {
	APIBase string
	Token   string
}

// RateLimitConfig controls request throttling.
type RateLimitConfig struct {
	DefaultPerMinute int
	RenderPerMinute  int
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableUsageLogs    bool
	EnableAnalytics    bool
	EnableAssetUploads bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "API_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "API_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "API_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "API_FIRESTORE_EMULATOR_HOST", ""),
		},
		Storage: StorageConfig{
			AssetsBucket: stringWithDefault(lookup, "API_STORAGE_ASSETS_BUCKET", ""),
		},
		Analytics: AnalyticsConfig{
			RenderTopic:   stringWithDefault(lookup, "API_ANALYTICS_RENDER_TOPIC", defaultRenderTopic),
			GA4Endpoint:   stringWithDefault(lookup, "API_ANALYTICS_GA4_ENDPOINT", defaultGA4Endpoint),
			MeasurementID: stringWithDefault(lookup, "API_ANALYTICS_GA4_MEASUREMENT_ID", ""),
			APISecret:     stringWithDefault(lookup, "API_ANALYTICS_GA4_API_SECRET", ""),
			IPSalt:        stringWithDefault(lookup, "API_ANALYTICS_IP_SALT", defaultIPSalt),
		},
		Fetch: FetchConfig{
			Timeout:   durationWithDefault(lookup, "API_FETCH_TIMEOUT", defaultFetchTimeout),
			MaxBytes:  int64WithDefault(lookup, "API_FETCH_MAX_BYTES", defaultFetchMaxBytes),
			UserAgent: stringWithDefault(lookup, "API_FETCH_USER_AGENT", defaultFetchUserAgent),
		},
		GitHub: GitHubConfig{
			APIBase: stringWithDefault(lookup, "API_GITHUB_API_BASE", defaultGitHubAPIBase),
			Token:   stringWithDefault(lookup, "API_GITHUB_TOKEN", ""),
		},
		RateLimits: RateLimitConfig{
			DefaultPerMinute: intWithDefault(lookup, "API_RATELIMIT_DEFAULT_PER_MIN", defaultRateLimitDefault),
			RenderPerMinute:  intWithDefault(lookup, "API_RATELIMIT_RENDER_PER_MIN", defaultRateLimitRender),
		},
		Features: FeatureFlags{
			EnableUsageLogs:    boolWithDefault(lookup, "API_FEATURE_USAGE_LOGS", true),
			EnableAnalytics:    boolWithDefault(lookup, "API_FEATURE_ANALYTICS", false),
			EnableAssetUploads: boolWithDefault(lookup, "API_FEATURE_ASSET_UPLOADS", false),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Fetch.Timeout <= 0 {
		missing = append(missing, "Fetch.Timeout")
	}
	if cfg.Fetch.MaxBytes <= 0 {
		missing = append(missing, "Fetch.MaxBytes")
	}
	if cfg.Features.EnableAssetUploads && cfg.Storage.AssetsBucket == "" {
		missing = append(missing, "Storage.AssetsBucket")
	}
	if cfg.Features.EnableAnalytics {
		if cfg.Analytics.MeasurementID == "" {
			missing = append(missing, "Analytics.MeasurementID")
		}
		if cfg.Analytics.APISecret == "" {
			missing = append(missing, "Analytics.APISecret")
		}
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func int64WithDefault(lookup func(string) (string, bool), key string, fallback int64) int64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
