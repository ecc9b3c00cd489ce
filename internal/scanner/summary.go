package scanner

import "github.com/fliphawk/fliphawk/internal/domain"

// Summarize reduces an opportunity list to aggregate statistics. All counts
// in the risk distribution and profit buckets sum to the total. An empty
// list yields a zero summary.
func Summarize(opps []domain.Opportunity) domain.ScanSummary {
	s := domain.ScanSummary{TotalOpportunities: len(opps)}
	if len(opps) == 0 {
		return s
	}

	var profitSum, roiSum float64
	var confidenceSum int
	for _, o := range opps {
		profitSum += o.NetProfitAfterFees
		roiSum += o.ROIPercentage
		confidenceSum += o.ConfidenceScore
		if o.NetProfitAfterFees > s.HighestNetProfit {
			s.HighestNetProfit = o.NetProfitAfterFees
		}

		switch o.RiskLevel {
		case domain.RiskLow:
			s.RiskDistribution.Low++
		case domain.RiskMedium:
			s.RiskDistribution.Medium++
		default:
			s.RiskDistribution.High++
		}

		switch p := o.NetProfitAfterFees; {
		case p < 25:
			s.ProfitBuckets.Under25++
		case p < 50:
			s.ProfitBuckets.From25To50++
		case p < 100:
			s.ProfitBuckets.From50To100++
		default:
			s.ProfitBuckets.Over100++
		}
	}

	n := float64(len(opps))
	s.AverageNetProfit = profitSum / n
	s.AverageROI = roiSum / n
	s.AverageConfidence = float64(confidenceSum) / n
	return s
}
