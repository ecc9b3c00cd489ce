// Package ebay implements the listing source against the eBay Browse API,
// with OAuth client-credentials token caching and keyword-variant fan-out.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fliphawk/fliphawk/internal/domain"
	"github.com/fliphawk/fliphawk/internal/keywords"
)

// tokenExpiryBuffer refreshes the OAuth token this long before it expires.
const tokenExpiryBuffer = 5 * time.Minute

// browseAPIMaxLimit is the item_summary/search page-size ceiling.
const browseAPIMaxLimit = 200

// defaultPriceCeiling caps search results when the query carries no ceiling.
const defaultPriceCeiling = 5000.0

// Config holds the Browse API connection settings.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Marketplace  string
	PageSize     int
	// MaxConcurrent bounds parallel keyword-variant searches.
	MaxConcurrent int
}

// Client is the Browse API listing source. It is safe for concurrent use;
// the cached OAuth token is shared across goroutines.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    domain.RateLimiter
	log        *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ domain.ListingSource = (*Client)(nil)

// NewClient creates a Browse API client. limiter may be nil, in which case
// requests are not rate limited locally.
func NewClient(cfg Config, limiter domain.RateLimiter, log *slog.Logger) *Client {
	if cfg.PageSize <= 0 || cfg.PageSize > browseAPIMaxLimit {
		cfg.PageSize = 50
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Client{
		cfg:     cfg,
		limiter: limiter,
		log:     log.With("component", "ebay"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name implements domain.ListingSource.
func (c *Client) Name() string { return "ebay" }

// Search runs the query against the Browse API, fanning out over keyword
// variants for coverage and deduplicating results by item ID. Variant
// failures after the first successful request degrade to partial results.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.RawListing, error) {
	variants := keywords.Expand(q.Keyword)
	if len(variants) == 0 {
		variants = keywords.Suggestions(q.Category, q.Subcategory)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("ebay: search: no keyword and no known category: %w", domain.ErrInvalidScanParams)
	}

	var (
		mu      sync.Mutex
		all     []domain.RawListing
		seen    = make(map[string]bool)
		gotAny  bool
		lastErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrent)
	for _, kw := range variants {
		g.Go(func() error {
			items, err := c.searchVariant(gctx, q, kw)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				c.log.Warn("variant search failed", "keyword", kw, "error", err)
				return nil
			}
			gotAny = true
			for _, it := range items {
				if it.ItemID == "" || seen[it.ItemID] {
					continue
				}
				seen[it.ItemID] = true
				all = append(all, it.toRawListing(q, kw))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ebay: search %q: %w", q.Keyword, err)
	}
	if !gotAny {
		return nil, fmt.Errorf("ebay: search %q: %w: %w", q.Keyword, domain.ErrSourceUnavailable, lastErr)
	}

	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	c.log.Debug("search complete", "keyword", q.Keyword, "variants", len(variants), "listings", len(all))
	return all, nil
}

func (c *Client) searchVariant(ctx context.Context, q domain.SearchQuery, keyword string) ([]itemSummary, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "ebay:search"); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	limit := c.cfg.PageSize
	if q.Limit > 0 && q.Limit < limit {
		limit = q.Limit
	}

	params := url.Values{}
	params.Set("q", keyword)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "price")
	params.Set("filter", c.searchFilter(q))

	reqURL := c.cfg.BaseURL + "/item_summary/search?" + params.Encode()
	body, status, err := c.doGet(ctx, reqURL, token)
	if status == http.StatusUnauthorized {
		// Token revoked server-side; refresh once and retry.
		c.invalidateToken()
		token, err = c.token(ctx)
		if err != nil {
			return nil, err
		}
		body, status, err = c.doGet(ctx, reqURL, token)
	}
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status, body); err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return resp.ItemSummaries, nil
}

// searchFilter builds the pipe-separated Browse API filter string: fixed
// price only, US-to-US, resellable conditions, and a price corridor.
func (c *Client) searchFilter(q domain.SearchQuery) string {
	maxPrice := q.MaxPrice
	if maxPrice <= 0 {
		maxPrice = defaultPriceCeiling
	}
	filters := []string{
		"buyingOptions:{FIXED_PRICE}",
		"itemLocationCountry:US",
		"deliveryCountry:US",
		"conditions:{NEW,LIKE_NEW,VERY_GOOD,GOOD}",
		fmt.Sprintf("price:[1..%s]", strconv.FormatFloat(maxPrice, 'f', -1, 64)),
		"priceCurrency:USD",
	}
	if id, ok := CategoryID(q.Category, q.Subcategory); ok {
		filters = append(filters, "categoryIds:{"+id+"}")
	}
	return strings.Join(filters, "|")
}

func (c *Client) doGet(ctx context.Context, reqURL, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.cfg.Marketplace)
	req.Header.Set("X-EBAY-C-ENDUSERCTX", "contextualLocation=country=US,zip=10001")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// token returns a cached OAuth access token, fetching a new one when the
// cached token is within the expiry buffer.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryBuffer)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "https://api.ebay.com/oauth/api_scope")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ebay: create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ebay: token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ebay: read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ebay: token request: HTTP %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("ebay: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("ebay: token response missing access_token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	c.log.Debug("oauth token refreshed", "expires_in", tok.ExpiresIn)
	return c.accessToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

// checkStatus maps non-2xx Browse API status codes to errors.
func checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("browse api: %w: %s", domain.ErrRateLimited, apiErr.message())
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("browse api: %w: %s", domain.ErrUnauthorized, apiErr.message())
	case http.StatusNotFound:
		return fmt.Errorf("browse api: %w: %s", domain.ErrNotFound, apiErr.message())
	default:
		return fmt.Errorf("browse api: HTTP %d: %s", status, apiErr.message())
	}
}
