package scanner

import "github.com/fliphawk/fliphawk/internal/domain"

// FeePolicy selects one of the named fee presets. The presets reflect two
// observed marketplace fee schedules; they are alternatives, not a range to
// interpolate.
type FeePolicy string

const (
	FeePolicyStandard     FeePolicy = "standard"
	FeePolicyConservative FeePolicy = "conservative"
)

type feeRates struct {
	marketplacePct float64
	paymentPct     float64
	paymentFixed   float64
}

var feeRateTable = map[FeePolicy]feeRates{
	FeePolicyStandard:     {marketplacePct: 0.087, paymentPct: 0.029, paymentFixed: 0.30},
	FeePolicyConservative: {marketplacePct: 0.129, paymentPct: 0.0349, paymentFixed: 0.49},
}

// outboundShippingFlat is charged when the sell-side listing advertises free
// shipping, since the reseller then carries the shipping cost themselves.
const outboundShippingFlat = 5.0

// EstimateFees itemizes the cost of reselling at the sell listing's price.
// Unknown policies fall back to the standard preset.
func EstimateFees(policy FeePolicy, sell domain.Listing) domain.FeeBreakdown {
	rates, ok := feeRateTable[policy]
	if !ok {
		rates = feeRateTable[FeePolicyStandard]
	}
	fees := domain.FeeBreakdown{
		MarketplaceFee: sell.Price * rates.marketplacePct,
		PaymentFee:     sell.Price*rates.paymentPct + rates.paymentFixed,
	}
	if sell.FreeShipping {
		fees.ShippingCost = outboundShippingFlat
	}
	return fees
}
