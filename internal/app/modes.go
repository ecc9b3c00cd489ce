package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fliphawk/fliphawk/internal/scanner"
	"github.com/fliphawk/fliphawk/internal/server"
	"github.com/fliphawk/fliphawk/internal/server/handler"
	"github.com/fliphawk/fliphawk/internal/server/ws"
	"github.com/fliphawk/fliphawk/internal/service"
	"github.com/fliphawk/fliphawk/internal/valuation"
)

// buildScanService assembles the scan pipeline from the wired dependencies.
func (a *App) buildScanService(deps *Dependencies) *service.ScanService {
	scannerCfg := scanner.DefaultConfig()
	scannerCfg.MinProfit = a.cfg.Scanner.MinProfit
	scannerCfg.MaxOpportunities = a.cfg.Scanner.MaxOpportunities
	scannerCfg.FeePolicy = scanner.FeePolicy(strings.ToLower(a.cfg.Fees.Policy))
	scannerCfg.RiskPolicy = scanner.RiskPolicy(strings.ToLower(a.cfg.Scanner.RiskPolicy))

	return service.NewScanService(
		service.Deps{
			Source:   deps.Source,
			Scanner:  scanner.New(scannerCfg, a.logger),
			Valuer:   valuation.NewEngine(valuation.StandardPolicy()),
			Scorer:   valuation.NewScorer(valuation.StandardConfidencePolicy()),
			Scans:    deps.Scans,
			Opps:     deps.Opps,
			Cache:    deps.ResultCache,
			Archiver: deps.Archiver,
			Bus:      deps.SignalBus,
			Notifier: deps.Notifier,
		},
		service.ScanConfig{
			MinProfit:      a.cfg.Scanner.MinProfit,
			MaxListings:    a.cfg.Scanner.MaxListings,
			PriceCeiling:   a.cfg.Scanner.PriceCeiling,
			ProfitAlertMin: a.cfg.Scanner.ProfitAlertMin,
		},
		a.logger,
	)
}

// ServeMode starts the HTTP + WebSocket API and blocks until shutdown.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps, a.buildScanService(deps))
	return g.Wait()
}

// ScanMode runs one scan per configured watch keyword and writes the
// results as JSON to stdout.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	svc := a.buildScanService(deps)
	keywords := a.cfg.Scanner.WatchKeywords
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, kw := range keywords {
		result, err := svc.Scan(ctx, scanner.Params{
			Keyword:     kw,
			Category:    a.cfg.Scanner.WatchCategory,
			Subcategory: a.cfg.Scanner.WatchSubcategory,
			MinProfit:   a.cfg.Scanner.MinProfit,
		})
		if err != nil {
			return fmt.Errorf("scan mode: %w", err)
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("scan mode: encode result: %w", err)
		}
	}
	return nil
}

// WatchMode scans the configured keywords on an interval until cancelled.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", a.cfg.Scanner.WatchInterval.Duration),
		slog.Int("keywords", len(a.cfg.Scanner.WatchKeywords)),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.runWatchLoop(ctx, a.buildScanService(deps))
	})
	return g.Wait()
}

// FullMode runs the API server and the watch loop together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	svc := a.buildScanService(deps)

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, svc)
	}
	if len(a.cfg.Scanner.WatchKeywords) > 0 {
		g.Go(func() error {
			return a.runWatchLoop(ctx, svc)
		})
	}
	return g.Wait()
}

// runWatchLoop scans every watch keyword once immediately, then again each
// interval. Individual scan failures are logged and do not stop the loop.
func (a *App) runWatchLoop(ctx context.Context, svc *service.ScanService) error {
	ticker := time.NewTicker(a.cfg.Scanner.WatchInterval.Duration)
	defer ticker.Stop()

	for {
		a.scanWatchKeywords(ctx, svc)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *App) scanWatchKeywords(ctx context.Context, svc *service.ScanService) {
	for _, kw := range a.cfg.Scanner.WatchKeywords {
		if ctx.Err() != nil {
			return
		}
		result, err := svc.Scan(ctx, scanner.Params{
			Keyword:     kw,
			Category:    a.cfg.Scanner.WatchCategory,
			Subcategory: a.cfg.Scanner.WatchSubcategory,
			MinProfit:   a.cfg.Scanner.MinProfit,
		})
		if err != nil {
			a.logger.WarnContext(ctx, "watch scan failed",
				slog.String("keyword", kw),
				slog.String("error", err.Error()),
			)
			continue
		}
		a.logger.InfoContext(ctx, "watch scan complete",
			slog.String("keyword", kw),
			slog.Int("opportunities", len(result.Opportunities)),
		)
	}
}

// startHTTPServer registers handlers, builds the middleware chain, and runs
// the server plus its WebSocket hub on the errgroup.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svc *service.ScanService) {
	pingers := map[string]handler.Pinger{
		"redis":    deps.Redis,
		"postgres": nil,
	}
	if deps.Postgres != nil {
		pingers["postgres"] = deps.Postgres
	}

	handlers := server.Handlers{
		Health:     handler.NewHealthHandler(pingers, a.logger),
		Scan:       handler.NewScanHandler(svc, a.logger),
		Categories: handler.NewCategoryHandler(a.logger),
		History:    handler.NewHistoryHandler(svc, a.logger),
	}
	if deps.Opps != nil {
		handlers.History = handlers.History.WithOpportunityStore(deps.Opps)
	}

	hub := ws.NewHub(deps.SignalBus, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimitPerMin: a.cfg.Server.RateLimitPerMin,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
