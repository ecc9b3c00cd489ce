// Package config defines the top-level configuration for the fliphawk
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by FLIPHAWK_* environment variables.
type Config struct {
	Ebay     EbayConfig     `toml:"ebay"`
	Supabase SupabaseConfig `toml:"supabase"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Scanner  ScannerConfig  `toml:"scanner"`
	Fees     FeesConfig     `toml:"fees"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// EbayConfig holds eBay Browse API credentials and endpoints.
type EbayConfig struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	BaseURL        string `toml:"base_url"`
	TokenURL       string `toml:"token_url"`
	Marketplace    string `toml:"marketplace"`
	RequestsPerSec int    `toml:"requests_per_sec"`
	MaxConcurrent  int    `toml:"max_concurrent"`
	PageSize       int    `toml:"page_size"`
}

// SupabaseConfig holds PostgreSQL / Supabase connection parameters.
type SupabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ScannerConfig holds opportunity-detection parameters.
type ScannerConfig struct {
	MinProfit        float64  `toml:"min_profit"`
	MaxListings      int      `toml:"max_listings"`
	MaxOpportunities int      `toml:"max_opportunities"`
	PriceCeiling     float64  `toml:"price_ceiling"`
	RiskPolicy       string   `toml:"risk_policy"`
	ProfitAlertMin   float64  `toml:"profit_alert_min"`
	CacheTTL         duration `toml:"cache_ttl"`
	WatchInterval    duration `toml:"watch_interval"`
	WatchKeywords    []string `toml:"watch_keywords"`
	WatchCategory    string   `toml:"watch_category"`
	WatchSubcategory string   `toml:"watch_subcategory"`
}

// FeesConfig selects a fee policy preset.
type FeesConfig struct {
	Policy string `toml:"policy"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled         bool     `toml:"enabled"`
	Port            int      `toml:"port"`
	APIKey          string   `toml:"api_key"`
	CORSOrigins     []string `toml:"cors_origins"`
	RateLimitPerMin int      `toml:"rate_limit_per_min"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Ebay: EbayConfig{
			BaseURL:        "https://api.ebay.com/buy/browse/v1",
			TokenURL:       "https://api.ebay.com/identity/v1/oauth2/token",
			Marketplace:    "EBAY_US",
			RequestsPerSec: 5,
			MaxConcurrent:  4,
			PageSize:       50,
		},
		Supabase: SupabaseConfig{
			DSN:           "",
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "fliphawk-scans",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Scanner: ScannerConfig{
			MinProfit:        10.0,
			MaxListings:      200,
			MaxOpportunities: 10,
			PriceCeiling:     10_000.0,
			RiskPolicy:       "standard",
			ProfitAlertMin:   50.0,
			CacheTTL:         duration{5 * time.Minute},
			WatchInterval:    duration{15 * time.Minute},
			WatchKeywords:    []string{},
			WatchCategory:    "Tech",
			WatchSubcategory: "Headphones",
		},
		Fees: FeesConfig{
			Policy: "standard",
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerMin: 120,
		},
		Notify: NotifyConfig{
			Events: []string{"opportunity_found", "scan_completed", "error"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve": true,
	"scan":  true,
	"watch": true,
	"full":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validRiskPolicies enumerates the accepted values for Scanner.RiskPolicy.
var validRiskPolicies = map[string]bool{
	"standard": true,
	"strict":   true,
}

// validFeePolicies enumerates the accepted values for Fees.Policy.
var validFeePolicies = map[string]bool{
	"standard":     true,
	"conservative": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, scan, watch, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Ebay — credentials required for every mode that searches.
	if c.Ebay.ClientID == "" || c.Ebay.ClientSecret == "" {
		errs = append(errs, "ebay: client_id and client_secret must both be set")
	}
	if c.Ebay.BaseURL == "" {
		errs = append(errs, "ebay: base_url must not be empty")
	}
	if c.Ebay.TokenURL == "" {
		errs = append(errs, "ebay: token_url must not be empty")
	}
	if c.Ebay.RequestsPerSec < 1 {
		errs = append(errs, "ebay: requests_per_sec must be >= 1")
	}
	if c.Ebay.MaxConcurrent < 1 {
		errs = append(errs, "ebay: max_concurrent must be >= 1")
	}
	if c.Ebay.PageSize < 1 || c.Ebay.PageSize > 200 {
		errs = append(errs, fmt.Sprintf("ebay: page_size must be 1-200, got %d", c.Ebay.PageSize))
	}

	// Supabase
	if strings.TrimSpace(c.Supabase.DSN) == "" {
		if c.Supabase.Host == "" {
			errs = append(errs, "supabase: host must not be empty (or set supabase.dsn)")
		}
		if c.Supabase.Port <= 0 || c.Supabase.Port > 65535 {
			errs = append(errs, fmt.Sprintf("supabase: port must be 1-65535, got %d", c.Supabase.Port))
		}
		if c.Supabase.Database == "" {
			errs = append(errs, "supabase: database must not be empty")
		}
	}
	if c.Supabase.PoolMaxConns < 1 {
		errs = append(errs, "supabase: pool_max_conns must be >= 1")
	}
	if c.Supabase.PoolMinConns < 0 {
		errs = append(errs, "supabase: pool_min_conns must be >= 0")
	}
	if c.Supabase.PoolMinConns > c.Supabase.PoolMaxConns {
		errs = append(errs, "supabase: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3
	if c.S3.Endpoint == "" {
		errs = append(errs, "s3: endpoint must not be empty")
	}
	if c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	// Scanner
	if c.Scanner.MinProfit < 0 {
		errs = append(errs, "scanner: min_profit must be >= 0")
	}
	if c.Scanner.MaxListings < 1 {
		errs = append(errs, "scanner: max_listings must be >= 1")
	}
	if c.Scanner.MaxOpportunities < 1 {
		errs = append(errs, "scanner: max_opportunities must be >= 1")
	}
	if c.Scanner.PriceCeiling <= 0 {
		errs = append(errs, "scanner: price_ceiling must be > 0")
	}
	if !validRiskPolicies[strings.ToLower(c.Scanner.RiskPolicy)] {
		errs = append(errs, fmt.Sprintf("scanner: unknown risk_policy %q (valid: standard, strict)", c.Scanner.RiskPolicy))
	}
	if c.Mode == "watch" && len(c.Scanner.WatchKeywords) == 0 {
		errs = append(errs, "scanner: watch_keywords must not be empty for watch mode")
	}
	if c.Scanner.WatchInterval.Duration < time.Minute {
		errs = append(errs, "scanner: watch_interval must be >= 1m")
	}

	// Fees
	if !validFeePolicies[strings.ToLower(c.Fees.Policy)] {
		errs = append(errs, fmt.Sprintf("fees: unknown policy %q (valid: standard, conservative)", c.Fees.Policy))
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimitPerMin < 0 {
			errs = append(errs, "server: rate_limit_per_min must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
