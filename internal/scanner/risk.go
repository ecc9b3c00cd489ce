package scanner

import "github.com/fliphawk/fliphawk/internal/domain"

// RiskPolicy selects the ROI thresholds that bucket an opportunity into a
// risk tier. Higher ROI means a larger implied mispricing, which is more
// likely to hide a catch the similarity check missed.
type RiskPolicy string

const (
	// RiskPolicyStandard tiers at ROI 20% and 50%.
	RiskPolicyStandard RiskPolicy = "standard"
	// RiskPolicyStrict tiers at ROI 50% and 100%, tolerating larger
	// mispricings before flagging them.
	RiskPolicyStrict RiskPolicy = "strict"
)

// Level buckets an ROI percentage into a risk tier under this policy.
func (p RiskPolicy) Level(roi float64) domain.RiskLevel {
	low, medium := 20.0, 50.0
	if p == RiskPolicyStrict {
		low, medium = 50.0, 100.0
	}
	switch {
	case roi < low:
		return domain.RiskLow
	case roi < medium:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}
