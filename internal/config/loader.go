package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies FLIPHAWK_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known FLIPHAWK_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Ebay ──
	setStr(&cfg.Ebay.ClientID, "FLIPHAWK_EBAY_CLIENT_ID")
	setStr(&cfg.Ebay.ClientSecret, "FLIPHAWK_EBAY_CLIENT_SECRET")
	setStr(&cfg.Ebay.BaseURL, "FLIPHAWK_EBAY_BASE_URL")
	setStr(&cfg.Ebay.TokenURL, "FLIPHAWK_EBAY_TOKEN_URL")
	setStr(&cfg.Ebay.Marketplace, "FLIPHAWK_EBAY_MARKETPLACE")
	setInt(&cfg.Ebay.RequestsPerSec, "FLIPHAWK_EBAY_REQUESTS_PER_SEC")
	setInt(&cfg.Ebay.MaxConcurrent, "FLIPHAWK_EBAY_MAX_CONCURRENT")
	setInt(&cfg.Ebay.PageSize, "FLIPHAWK_EBAY_PAGE_SIZE")

	// ── Supabase ──
	setStr(&cfg.Supabase.DSN, "FLIPHAWK_SUPABASE_DSN")
	setStr(&cfg.Supabase.DSN, "FLIPHAWK_SUPABASE_URL") // compatibility alias
	setStr(&cfg.Supabase.Host, "FLIPHAWK_SUPABASE_HOST")
	setInt(&cfg.Supabase.Port, "FLIPHAWK_SUPABASE_PORT")
	setStr(&cfg.Supabase.Database, "FLIPHAWK_SUPABASE_DATABASE")
	setStr(&cfg.Supabase.User, "FLIPHAWK_SUPABASE_USER")
	setStr(&cfg.Supabase.Password, "FLIPHAWK_SUPABASE_PASSWORD")
	setStr(&cfg.Supabase.SSLMode, "FLIPHAWK_SUPABASE_SSL_MODE")
	setInt(&cfg.Supabase.PoolMaxConns, "FLIPHAWK_SUPABASE_POOL_MAX_CONNS")
	setInt(&cfg.Supabase.PoolMinConns, "FLIPHAWK_SUPABASE_POOL_MIN_CONNS")
	setBool(&cfg.Supabase.RunMigrations, "FLIPHAWK_SUPABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "FLIPHAWK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "FLIPHAWK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "FLIPHAWK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "FLIPHAWK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "FLIPHAWK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "FLIPHAWK_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "FLIPHAWK_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "FLIPHAWK_S3_REGION")
	setStr(&cfg.S3.Bucket, "FLIPHAWK_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "FLIPHAWK_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "FLIPHAWK_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "FLIPHAWK_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "FLIPHAWK_S3_FORCE_PATH_STYLE")

	// ── Scanner ──
	setFloat64(&cfg.Scanner.MinProfit, "FLIPHAWK_SCANNER_MIN_PROFIT")
	setInt(&cfg.Scanner.MaxListings, "FLIPHAWK_SCANNER_MAX_LISTINGS")
	setInt(&cfg.Scanner.MaxOpportunities, "FLIPHAWK_SCANNER_MAX_OPPORTUNITIES")
	setFloat64(&cfg.Scanner.PriceCeiling, "FLIPHAWK_SCANNER_PRICE_CEILING")
	setStr(&cfg.Scanner.RiskPolicy, "FLIPHAWK_SCANNER_RISK_POLICY")
	setFloat64(&cfg.Scanner.ProfitAlertMin, "FLIPHAWK_SCANNER_PROFIT_ALERT_MIN")
	setDuration(&cfg.Scanner.CacheTTL, "FLIPHAWK_SCANNER_CACHE_TTL")
	setDuration(&cfg.Scanner.WatchInterval, "FLIPHAWK_SCANNER_WATCH_INTERVAL")
	setStringSlice(&cfg.Scanner.WatchKeywords, "FLIPHAWK_SCANNER_WATCH_KEYWORDS")
	setStr(&cfg.Scanner.WatchCategory, "FLIPHAWK_SCANNER_WATCH_CATEGORY")
	setStr(&cfg.Scanner.WatchSubcategory, "FLIPHAWK_SCANNER_WATCH_SUBCATEGORY")

	// ── Fees ──
	setStr(&cfg.Fees.Policy, "FLIPHAWK_FEES_POLICY")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "FLIPHAWK_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "FLIPHAWK_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "FLIPHAWK_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "FLIPHAWK_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimitPerMin, "FLIPHAWK_SERVER_RATE_LIMIT_PER_MIN")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "FLIPHAWK_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "FLIPHAWK_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "FLIPHAWK_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "FLIPHAWK_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "FLIPHAWK_MODE")
	setStr(&cfg.LogLevel, "FLIPHAWK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
