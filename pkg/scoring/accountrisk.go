package scoring

// Severity of a detected anomaly or compliance issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Point values per finding. High-severity anomalies carry the same
// weight as low ones in the inherited business rules; compliance
// issues dominate the score.
var (
	anomalyPoints = map[Severity]int{
		SeverityLow:    10,
		SeverityMedium: 30,
		SeverityHigh:   10,
	}
	compliancePoints = map[Severity]int{
		SeverityLow:    20,
		SeverityMedium: 50,
		SeverityHigh:   100,
	}
)

// AccountRiskMaxScore caps the summed findings.
const AccountRiskMaxScore = 100

// AccountRisk sums anomaly and compliance finding points, capped at 100.
func AccountRisk(anomalies, complianceIssues []Severity) int {
	score := 0
	for _, sev := range anomalies {
		score += anomalyPoints[sev]
	}
	for _, sev := range complianceIssues {
		score += compliancePoints[sev]
	}
	if score > AccountRiskMaxScore {
		score = AccountRiskMaxScore
	}
	return score
}
