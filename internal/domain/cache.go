package domain

import (
	"context"
	"time"
)

// ResultCache stores the most recent ScanResult per query key so repeated
// scans for the same keyword/category can be served without re-searching.
type ResultCache interface {
	Set(ctx context.Context, key string, result ScanResult) error
	Get(ctx context.Context, key string) (ScanResult, error)
	Invalidate(ctx context.Context, key string) error
}

// RateLimiter provides distributed rate limiting for outbound listing-source
// requests.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}

// SignalBus provides pub/sub fan-out of scan events (WS hub, watchers).
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
