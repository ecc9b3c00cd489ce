package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// FormatOpportunity renders an opportunity as a notification title and body.
func FormatOpportunity(o domain.Opportunity) (title, message string) {
	title = fmt.Sprintf("Flip found: $%.2f net (%s risk)", o.NetProfitAfterFees, o.RiskLevel)

	var b strings.Builder
	fmt.Fprintf(&b, "Buy:  %s\n", truncate(o.BuyListing.Title, 80))
	fmt.Fprintf(&b, "      $%.2f total (%s)\n", o.BuyListing.TotalCost, o.BuyListing.Link)
	fmt.Fprintf(&b, "Sell: %s\n", truncate(o.SellReference.Title, 80))
	fmt.Fprintf(&b, "      $%.2f listed\n", o.SellReference.Price)
	fmt.Fprintf(&b, "Net $%.2f after $%.2f fees | ROI %.1f%% | confidence %d/100",
		o.NetProfitAfterFees, o.EstimatedFees, o.ROIPercentage, o.ConfidenceScore)
	return title, b.String()
}

// FormatScanResult renders a completed scan as a notification.
func FormatScanResult(r domain.ScanResult) (title, message string) {
	title = fmt.Sprintf("Scan %q: %d opportunities", r.Keyword, len(r.Opportunities))

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d listings in %s\n", r.Stats.ListingsAnalyzed, r.Duration.Round(10*time.Millisecond))
	if r.Summary.TotalOpportunities > 0 {
		fmt.Fprintf(&b, "Best net $%.2f | avg net $%.2f | avg ROI %.1f%%",
			r.Summary.HighestNetProfit, r.Summary.AverageNetProfit, r.Summary.AverageROI)
	} else {
		b.WriteString("No opportunities above the profit floor")
	}
	return title, b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
