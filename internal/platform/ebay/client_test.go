package ebay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fliphawk/fliphawk/internal/domain"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:       srv.URL,
		TokenURL:      srv.URL + "/oauth",
		ClientID:      "client",
		ClientSecret:  "secret",
		Marketplace:   "EBAY_US",
		PageSize:      50,
		MaxConcurrent: 2,
	}
	return NewClient(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil))), srv
}

func serveToken(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-1", ExpiresIn: 7200})
}

func TestSearchFansOutAndDeduplicates(t *testing.T) {
	var tokenCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		tokenCalls.Add(1)
		serveToken(w)
	})
	mux.HandleFunc("/item_summary/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.Header.Get("X-EBAY-C-MARKETPLACE-ID"); got != "EBAY_US" {
			t.Errorf("marketplace header = %q", got)
		}
		if filter := r.URL.Query().Get("filter"); !strings.Contains(filter, "buyingOptions:{FIXED_PRICE}") {
			t.Errorf("filter missing fixed-price clause: %q", filter)
		}
		// The same item comes back for every keyword variant.
		json.NewEncoder(w).Encode(searchResponse{ItemSummaries: []itemSummary{
			{
				ItemID:     "v1|334455667788|0",
				Title:      "Apple AirPods Pro 2nd Gen Sealed",
				Price:      money{Value: "180.00", Currency: "USD"},
				Condition:  "New",
				ItemWebURL: "https://www.ebay.com/itm/334455667788",
				Seller:     seller{FeedbackPercentage: "99.8", FeedbackScore: 12405},
				ShippingOptions: []shippingOption{
					{ShippingCost: money{Value: "0.00"}},
				},
				ItemLocation: itemLocation{City: "Austin", Country: "US"},
			},
		}})
	})

	c, _ := testClient(t, mux)
	raws, err := c.Search(context.Background(), domain.SearchQuery{Keyword: "airpods", Limit: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d listings, want variants deduplicated to 1", len(raws))
	}

	raw := raws[0]
	if raw.PriceText != "$180.00" {
		t.Errorf("PriceText = %q", raw.PriceText)
	}
	if raw.ShippingText != "Free shipping" {
		t.Errorf("ShippingText = %q, want free-shipping phrase for zero cost", raw.ShippingText)
	}
	if raw.LocationText != "Austin, United States" {
		t.Errorf("LocationText = %q", raw.LocationText)
	}
	if raw.SellerRating != "99.8" || raw.SellerFeedback != "12405" {
		t.Errorf("seller fields = %q/%q", raw.SellerRating, raw.SellerFeedback)
	}
	if tokenCalls.Load() != 1 {
		t.Errorf("token fetched %d times, want cached after the first", tokenCalls.Load())
	}
}

func TestSearchRefreshesTokenOn401(t *testing.T) {
	var tokenCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		n := tokenCalls.Add(1)
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-" + strings.Repeat("x", int(n)), ExpiresIn: 7200})
	})
	mux.HandleFunc("/item_summary/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer tok-x" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{ItemSummaries: []itemSummary{
			{ItemID: "1", Title: "Sony WH-1000XM5 Wireless Headphones", Price: money{Value: "250.00"}},
		}})
	})

	c, _ := testClient(t, mux)
	raws, err := c.Search(context.Background(), domain.SearchQuery{Keyword: "sony wh-1000xm5"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(raws) == 0 {
		t.Fatal("expected listings after token refresh")
	}
	if tokenCalls.Load() < 2 {
		t.Errorf("token fetched %d times, want a refresh after 401", tokenCalls.Load())
	}
}

func TestSearchWithoutKeywordFallsBackToCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) { serveToken(w) })
	mux.HandleFunc("/item_summary/search", func(w http.ResponseWriter, r *http.Request) {
		if filter := r.URL.Query().Get("filter"); !strings.Contains(filter, "categoryIds:{15052}") {
			t.Errorf("filter missing category clause: %q", filter)
		}
		json.NewEncoder(w).Encode(searchResponse{})
	})

	c, _ := testClient(t, mux)
	_, err := c.Search(context.Background(), domain.SearchQuery{Category: "Tech", Subcategory: "Headphones"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	c, _ := testClient(t, http.NewServeMux())
	_, err := c.Search(context.Background(), domain.SearchQuery{})
	if err == nil {
		t.Fatal("expected error for empty keyword and unknown category")
	}
}

func TestCategoryID(t *testing.T) {
	if id, ok := CategoryID("Gaming", "Consoles"); !ok || id != "139971" {
		t.Errorf("CategoryID(Gaming, Consoles) = %q/%v", id, ok)
	}
	if _, ok := CategoryID("Gaming", "Unknown"); ok {
		t.Error("unknown subcategory must not resolve")
	}
}
