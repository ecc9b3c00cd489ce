package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	s3blob "github.com/fliphawk/fliphawk/internal/blob/s3"
	"github.com/fliphawk/fliphawk/internal/cache/redis"
	"github.com/fliphawk/fliphawk/internal/config"
	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/notify"
	"github.com/fliphawk/fliphawk/internal/platform/ebay"
	"github.com/fliphawk/fliphawk/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need. Optional entries are nil when their backing service is not wired for
// the current mode.
type Dependencies struct {
	// Listing source
	Source domain.ListingSource

	// Stores
	Scans domain.ScanStore
	Opps  domain.OpportunityStore

	// Caches
	ResultCache domain.ResultCache
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus

	// Blob storage
	Archiver domain.Archiver

	// Notifications
	Notifier *notify.Notifier

	// Raw clients kept for health checks.
	Postgres *postgres.Client
	Redis    *redis.Client
	S3       *s3blob.Client
}

// needsPostgres returns true for modes that persist scan history.
func needsPostgres(mode string) bool {
	switch strings.ToLower(mode) {
	case "serve", "watch", "full":
		return true
	default:
		return false
	}
}

// needsS3 returns true for modes that archive scan results.
func needsS3(mode string) bool {
	switch strings.ToLower(mode) {
	case "watch", "full":
		return true
	default:
		return false
	}
}

// Wire constructs the concrete dependency implementations and returns them
// with a cleanup function to call on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL (only for modes that persist history) ---
	if needsPostgres(cfg.Mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Supabase.DSN,
			Host:     cfg.Supabase.Host,
			Port:     cfg.Supabase.Port,
			Database: cfg.Supabase.Database,
			User:     cfg.Supabase.User,
			Password: cfg.Supabase.Password,
			SSLMode:  cfg.Supabase.SSLMode,
			MaxConns: cfg.Supabase.PoolMaxConns,
			MinConns: cfg.Supabase.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Supabase.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.Postgres = pgClient
		deps.Scans = postgres.NewScanStore(pool)
		deps.Opps = postgres.NewOpportunityStore(pool)
	}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.Redis = redisClient
	deps.ResultCache = redis.NewResultCache(redisClient, cfg.Scanner.CacheTTL.Duration)
	deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.Ebay.RequestsPerSec, time.Second)
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- S3 blob storage (only for modes that archive) ---
	if needsS3(cfg.Mode) {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.S3 = s3Client
		deps.Archiver = s3blob.NewScanArchiver(s3blob.NewWriter(s3Client))
	}

	// --- eBay listing source ---
	deps.Source = ebay.NewClient(ebay.Config{
		BaseURL:       cfg.Ebay.BaseURL,
		TokenURL:      cfg.Ebay.TokenURL,
		ClientID:      cfg.Ebay.ClientID,
		ClientSecret:  cfg.Ebay.ClientSecret,
		Marketplace:   cfg.Ebay.Marketplace,
		PageSize:      cfg.Ebay.PageSize,
		MaxConcurrent: cfg.Ebay.MaxConcurrent,
	}, deps.RateLimiter, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
	}

	return deps, cleanup, nil
}
