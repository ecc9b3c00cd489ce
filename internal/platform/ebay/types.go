package ebay

import (
	"strconv"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// searchResponse is the Browse API item_summary/search payload.
type searchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type itemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           money            `json:"price"`
	Condition       string           `json:"condition"`
	ConditionID     string           `json:"conditionId"`
	ItemWebURL      string           `json:"itemWebUrl"`
	Image           image            `json:"image"`
	Seller          seller           `json:"seller"`
	ItemLocation    itemLocation     `json:"itemLocation"`
	ShippingOptions []shippingOption `json:"shippingOptions"`
	BuyingOptions   []string         `json:"buyingOptions"`
}

type money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type image struct {
	ImageURL string `json:"imageUrl"`
}

type seller struct {
	Username           string `json:"username"`
	FeedbackPercentage string `json:"feedbackPercentage"`
	FeedbackScore      int    `json:"feedbackScore"`
}

type itemLocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type shippingOption struct {
	ShippingCostType string `json:"shippingCostType"`
	ShippingCost     money  `json:"shippingCost"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type apiError struct {
	Errors []struct {
		ErrorID     int    `json:"errorId"`
		Message     string `json:"message"`
		LongMessage string `json:"longMessage"`
	} `json:"errors"`
}

func (e apiError) message() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if e.Errors[0].LongMessage != "" {
		return e.Errors[0].LongMessage
	}
	return e.Errors[0].Message
}

// toRawListing converts a Browse API item into the normalizer's input shape.
// All fields stay free text; parsing and validation happen downstream.
func (it itemSummary) toRawListing(q domain.SearchQuery, matchedKeyword string) domain.RawListing {
	shipping := ""
	if len(it.ShippingOptions) > 0 {
		opt := it.ShippingOptions[0]
		if opt.ShippingCost.Value != "" {
			shipping = "$" + opt.ShippingCost.Value
		}
		if v, err := strconv.ParseFloat(opt.ShippingCost.Value, 64); err == nil && v == 0 {
			shipping = "Free shipping"
		}
	}

	location := it.ItemLocation.City
	if it.ItemLocation.Country != "" {
		if location != "" {
			location += ", "
		}
		location += countryName(it.ItemLocation.Country)
	}

	return domain.RawListing{
		Title:          it.Title,
		PriceText:      "$" + it.Price.Value,
		ShippingText:   shipping,
		ConditionText:  it.Condition,
		LocationText:   location,
		SellerRating:   it.Seller.FeedbackPercentage,
		SellerFeedback: strconv.Itoa(it.Seller.FeedbackScore),
		Link:           it.ItemWebURL,
		ImageURL:       it.Image.ImageURL,
		Category:       q.Category,
		Subcategory:    q.Subcategory,
		MatchedKeyword: matchedKeyword,
	}
}

// countryName maps the two-letter codes the Browse API returns onto the
// names the valuation location table expects. Unknown codes pass through.
func countryName(code string) string {
	switch code {
	case "US":
		return "United States"
	case "JP":
		return "Japan"
	case "HK":
		return "Hong Kong"
	case "CN":
		return "China"
	case "KR":
		return "Korea"
	case "GB":
		return "United Kingdom"
	case "CA":
		return "Canada"
	case "DE":
		return "Germany"
	default:
		return code
	}
}
