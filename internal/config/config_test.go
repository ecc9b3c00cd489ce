package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Ebay.ClientID = "id"
	cfg.Ebay.ClientSecret = "secret"
	return cfg
}

func TestDefaultsValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with credentials should validate, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad mode", func(c *Config) { c.Mode = "turbo" }, "unknown mode"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "unknown log_level"},
		{"missing ebay creds", func(c *Config) { c.Ebay.ClientID = "" }, "client_id"},
		{"bad page size", func(c *Config) { c.Ebay.PageSize = 500 }, "page_size"},
		{"bad risk policy", func(c *Config) { c.Scanner.RiskPolicy = "yolo" }, "risk_policy"},
		{"bad fee policy", func(c *Config) { c.Fees.Policy = "free" }, "fees"},
		{"negative min profit", func(c *Config) { c.Scanner.MinProfit = -1 }, "min_profit"},
		{"zero price ceiling", func(c *Config) { c.Scanner.PriceCeiling = 0 }, "price_ceiling"},
		{"bad server port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"pool min above max", func(c *Config) { c.Supabase.PoolMinConns = 20 }, "pool_min_conns"},
		{"watch without keywords", func(c *Config) { c.Mode = "watch" }, "watch_keywords"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q, got nil", tt.wantSub)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
mode = "scan"
log_level = "debug"

[ebay]
client_id = "abc"
client_secret = "xyz"

[scanner]
min_profit = 25.0
cache_ttl = "10m"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "scan" {
		t.Errorf("Mode = %q, want scan", cfg.Mode)
	}
	if cfg.Scanner.MinProfit != 25.0 {
		t.Errorf("MinProfit = %v, want 25", cfg.Scanner.MinProfit)
	}
	if cfg.Scanner.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.Scanner.CacheTTL.Duration)
	}
	// Untouched sections keep defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
	if cfg.Ebay.PageSize != 50 {
		t.Errorf("Ebay.PageSize = %d, want default 50", cfg.Ebay.PageSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("mode = \"scan\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FLIPHAWK_MODE", "serve")
	t.Setenv("FLIPHAWK_EBAY_CLIENT_ID", "env-id")
	t.Setenv("FLIPHAWK_SCANNER_MIN_PROFIT", "42.5")
	t.Setenv("FLIPHAWK_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FLIPHAWK_SCANNER_WATCH_INTERVAL", "30m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "serve" {
		t.Errorf("Mode = %q, want serve (env wins over file)", cfg.Mode)
	}
	if cfg.Ebay.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env-id", cfg.Ebay.ClientID)
	}
	if cfg.Scanner.MinProfit != 42.5 {
		t.Errorf("MinProfit = %v, want 42.5", cfg.Scanner.MinProfit)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Scanner.WatchInterval.Duration != 30*time.Minute {
		t.Errorf("WatchInterval = %v, want 30m", cfg.Scanner.WatchInterval.Duration)
	}
}
