package scoring

// Churn risk levels.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// ChurnMaxScore is the additive maximum: 40 (inactivity) + 30
// (negative sentiment) + 20 (support tickets).
const ChurnMaxScore = 90

// ChurnInput holds the disengagement signals for one customer.
type ChurnInput struct {
	DaysSinceActivity int
	NegativeSentiment int
	SupportTickets    int
	EstimatedValue    float64
}

// ChurnResult is the risk score, its level and the revenue exposure.
type ChurnResult struct {
	Score         int     `json:"risk_score"`
	RiskLevel     string  `json:"risk_level"`
	RevenueAtRisk float64 `json:"revenue_at_risk"`
}

// ScoreChurn produces an integer risk score in [0, 90]:
// inactivity tier (>90d -> 40, >60d -> 25, >30d -> 15)
// + min(negative_sentiment*10, 30) + min(support_tickets*5, 20).
// revenue_at_risk = estimated_value * score / 100.
func ScoreChurn(in ChurnInput) ChurnResult {
	score := 0

	switch {
	case in.DaysSinceActivity > 90:
		score += 40
	case in.DaysSinceActivity > 60:
		score += 25
	case in.DaysSinceActivity > 30:
		score += 15
	}

	score += capInt(in.NegativeSentiment*10, 30)
	score += capInt(in.SupportTickets*5, 20)

	level := RiskLow
	switch {
	case score >= 70:
		level = RiskHigh
	case score >= 40:
		level = RiskMedium
	}

	return ChurnResult{
		Score:         score,
		RiskLevel:     level,
		RevenueAtRisk: in.EstimatedValue * float64(score) / 100,
	}
}

func capInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
