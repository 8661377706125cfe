package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/preset"
)

const (
	// EnvPath names the environment variable that points at the config file.
	EnvPath = "BOARDSCAN_CONFIG"
	// DefaultPath is tried when neither --config nor EnvPath is set.
	DefaultPath = "config.yaml"

	defaultPostedWithinDays = 14
	defaultCacheTTL         = 30 * time.Minute
	defaultMinDelay         = 500 * time.Millisecond
	defaultMaxRetries       = 1
	defaultRetryBaseDelay   = 2 * time.Second
	defaultBoardTimeout     = 15 * time.Second
	defaultAggTimeout       = 20 * time.Second
	defaultAggLocation      = "San Jose, CA"
	defaultUserAgent        = "Mozilla/5.0 (compatible; JobFinderBot/1.0; +https://example.com/bot)"
)

// Config is the root configuration for boardscan.
type Config struct {
	Boards           []string `validate:"dive,required"`
	Keywords         []string `validate:"dive,required"`
	TechBoosters     []string `validate:"dive,required"`
	Locations        []string `validate:"dive,required"`
	RemoteOK         bool
	PostedWithinDays int                 `validate:"min=1,max=60"`
	Presets          map[string][]string `validate:"omitempty,dive,keys,required,endkeys,min=1"`
	Aggregator       AggregatorConfig
	Cache            CacheConfig
	HTTP             HTTPConfig
	RateLimit        RateLimitConfig
	Retry            RetryConfig
	Notification     NotificationConfig
}

// AggregatorConfig controls the optional SerpAPI Google Jobs search.
type AggregatorConfig struct {
	Enabled        bool
	APIKey         string // expanded from env var by Load; falls back to the keyring
	Location       string
	KeyringAccount string
}

// CacheConfig selects where provider snapshots are kept between fetches.
type CacheConfig struct {
	Backend       string        `validate:"oneof=memory sqlite redis none"`
	TTL           time.Duration `validate:"gt=0"`
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"min=0"`
}

// HTTPConfig controls outbound requests to the providers.
type HTTPConfig struct {
	UserAgent         string        `validate:"required"`
	BoardTimeout      time.Duration `validate:"gt=0"`
	AggregatorTimeout time.Duration `validate:"gt=0"`
}

// RateLimitConfig controls provider-level rate limiting.
type RateLimitConfig struct {
	MinDelay          time.Duration                  `validate:"min=0"`
	ProviderOverrides map[model.Source]time.Duration // keyed by provider
}

// MinDelayFor returns the configured delay for the given provider, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source model.Source) time.Duration {
	if d, ok := r.ProviderOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls retries of transient provider failures.
type RetryConfig struct {
	MaxRetries int           `validate:"min=0,max=5"`
	BaseDelay  time.Duration `validate:"gt=0"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type" validate:"omitempty,oneof=log slack"` // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"`                               // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Boards           []string            `yaml:"boards"`
	Keywords         []string            `yaml:"keywords"`
	TechBoosters     []string            `yaml:"tech_boosters"`
	Locations        []string            `yaml:"locations"`
	RemoteOK         *bool               `yaml:"remote_ok"`
	PostedWithinDays *int                `yaml:"posted_within_days"`
	Presets          map[string][]string `yaml:"presets"`
	Aggregator       rawAggregatorConfig `yaml:"aggregator"`
	Cache            rawCacheConfig      `yaml:"cache"`
	HTTP             rawHTTPConfig       `yaml:"http"`
	RateLimit        rawRateLimitConfig  `yaml:"rate_limit"`
	Retry            rawRetryConfig      `yaml:"retry"`
	Notification     NotificationConfig  `yaml:"notification"`
}

type rawAggregatorConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	Location       string `yaml:"location"`
	KeyringAccount string `yaml:"keyring_account"`
}

type rawCacheConfig struct {
	Backend       string `yaml:"backend"`
	TTL           string `yaml:"ttl"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type rawHTTPConfig struct {
	UserAgent         string `yaml:"user_agent"`
	BoardTimeout      string `yaml:"board_timeout"`
	AggregatorTimeout string `yaml:"aggregator_timeout"`
}

type rawRateLimitConfig struct {
	MinDelay          string            `yaml:"min_delay"`
	ProviderOverrides map[string]string `yaml:"provider_overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// ResolvePath picks the config file: the --config flag, then $BOARDSCAN_CONFIG,
// then ./config.yaml. explicit is false only for the last fallback.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := strings.TrimSpace(os.Getenv(EnvPath)); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// LoadOrDefault loads path. When the file does not exist and was not asked
// for explicitly, the built-in defaults are returned instead.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return cfg, err
}

// Default returns the configuration used when no config file exists.
func Default() (*Config, error) {
	return fromRaw(rawConfig{})
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (*Config, error) {
	cacheTTL, err := parseDuration("cache.ttl", raw.Cache.TTL, defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	boardTimeout, err := parseDuration("http.board_timeout", raw.HTTP.BoardTimeout, defaultBoardTimeout)
	if err != nil {
		return nil, err
	}
	aggTimeout, err := parseDuration("http.aggregator_timeout", raw.HTTP.AggregatorTimeout, defaultAggTimeout)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, defaultMinDelay)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, defaultRetryBaseDelay)
	if err != nil {
		return nil, err
	}

	overrides := make(map[model.Source]time.Duration)
	for name, value := range raw.RateLimit.ProviderOverrides {
		source, err := ParseSource(name)
		if err != nil {
			return nil, fmt.Errorf("rate_limit.provider_overrides: %w", err)
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.provider_overrides[%q]: %w", name, err)
		}
		overrides[source] = d
	}

	remoteOK := true
	if raw.RemoteOK != nil {
		remoteOK = *raw.RemoteOK
	}
	postedWithin := defaultPostedWithinDays
	if raw.PostedWithinDays != nil {
		postedWithin = *raw.PostedWithinDays
	}
	maxRetries := defaultMaxRetries
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	backend := strings.ToLower(strings.TrimSpace(raw.Cache.Backend))
	if backend == "" {
		backend = "memory"
	}
	sqlitePath := raw.Cache.SQLitePath
	if backend == "sqlite" && sqlitePath == "" {
		sqlitePath = defaultSQLitePath()
	}
	redisAddr := raw.Cache.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	cfg := &Config{
		Boards:           orDefault(trimAll(raw.Boards), preset.DefaultBoards),
		Keywords:         orDefault(trimAll(raw.Keywords), preset.DefaultKeywords),
		TechBoosters:     orDefault(trimAll(raw.TechBoosters), preset.DefaultTechBoosters),
		Locations:        orDefault(trimAll(raw.Locations), preset.DefaultLocations),
		RemoteOK:         remoteOK,
		PostedWithinDays: postedWithin,
		Presets:          raw.Presets,
		Aggregator: AggregatorConfig{
			Enabled:        raw.Aggregator.Enabled,
			APIKey:         strings.TrimSpace(raw.Aggregator.APIKey),
			Location:       orDefaultString(raw.Aggregator.Location, defaultAggLocation),
			KeyringAccount: strings.TrimSpace(raw.Aggregator.KeyringAccount),
		},
		Cache: CacheConfig{
			Backend:       backend,
			TTL:           cacheTTL,
			SQLitePath:    sqlitePath,
			RedisAddr:     redisAddr,
			RedisPassword: raw.Cache.RedisPassword,
			RedisDB:       raw.Cache.RedisDB,
		},
		HTTP: HTTPConfig{
			UserAgent:         orDefaultString(raw.HTTP.UserAgent, defaultUserAgent),
			BoardTimeout:      boardTimeout,
			AggregatorTimeout: aggTimeout,
		},
		RateLimit: RateLimitConfig{
			MinDelay:          minDelay,
			ProviderOverrides: overrides,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		Notification: raw.Notification,
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ScanConfig builds the criteria for one scan. apiKey is the resolved
// aggregator key (config value or keyring).
func (c *Config) ScanConfig(apiKey string) model.ScanConfig {
	return model.ScanConfig{
		Keywords:           append([]string(nil), c.Keywords...),
		TechBoosters:       append([]string(nil), c.TechBoosters...),
		Locations:          append([]string(nil), c.Locations...),
		RemoteOK:           c.RemoteOK,
		RecencyWindowDays:  c.PostedWithinDays,
		BoardURLs:          append([]string(nil), c.Boards...),
		UseAggregator:      c.Aggregator.Enabled,
		AggregatorKey:      apiKey,
		AggregatorLocation: c.Aggregator.Location,
	}
}

// ParseSource maps a provider name from config to a model.Source.
func ParseSource(name string) (model.Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lever":
		return model.SourceLever, nil
	case "greenhouse":
		return model.SourceGreenhouse, nil
	case "serpapi":
		return model.SourceSerpAPI, nil
	}
	return "", fmt.Errorf("unknown provider %q (want lever, greenhouse or serpapi)", name)
}

var structValidator = validator.New()

func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("keywords must not be empty")
	}

	for source, d := range cfg.RateLimit.ProviderOverrides {
		if d < 0 {
			return fmt.Errorf("rate_limit.provider_overrides[%s] must not be negative, got %v", source, d)
		}
	}

	if cfg.Cache.Backend == "sqlite" && cfg.Cache.SQLitePath == "" {
		return fmt.Errorf("cache.sqlite_path is required when cache.backend is \"sqlite\"")
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func defaultSQLitePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".boardscan-cache.db"
	}
	return filepath.Join(dir, "boardscan", "cache.db")
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return append([]string(nil), def...)
	}
	return values
}

func orDefaultString(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
