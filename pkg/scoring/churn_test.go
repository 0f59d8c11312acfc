package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreChurnTiers(t *testing.T) {
	tests := []struct {
		name  string
		in    ChurnInput
		score int
		level string
	}{
		{"fresh customer", ChurnInput{DaysSinceActivity: 5}, 0, RiskLow},
		{"31 days idle", ChurnInput{DaysSinceActivity: 31}, 15, RiskLow},
		{"61 days idle", ChurnInput{DaysSinceActivity: 61}, 25, RiskLow},
		{"91 days idle", ChurnInput{DaysSinceActivity: 91}, 40, RiskMedium},
		{"sentiment capped at 30", ChurnInput{NegativeSentiment: 10}, 30, RiskLow},
		{"tickets capped at 20", ChurnInput{SupportTickets: 50}, 20, RiskLow},
		{"worst case", ChurnInput{DaysSinceActivity: 120, NegativeSentiment: 8, SupportTickets: 9}, 90, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreChurn(tt.in)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.RiskLevel)
		})
	}
}

// The additive formula tops out at 90 (40+30+20), not 100.
func TestScoreChurnBoundedBy90(t *testing.T) {
	for _, days := range []int{0, 30, 31, 60, 61, 90, 91, 365} {
		for _, neg := range []int{0, 1, 3, 10, 100} {
			for _, tickets := range []int{0, 1, 4, 20, 100} {
				got := ScoreChurn(ChurnInput{DaysSinceActivity: days, NegativeSentiment: neg, SupportTickets: tickets})
				assert.GreaterOrEqual(t, got.Score, 0)
				assert.LessOrEqual(t, got.Score, ChurnMaxScore)
			}
		}
	}
}

func TestScoreChurnRevenueAtRisk(t *testing.T) {
	got := ScoreChurn(ChurnInput{DaysSinceActivity: 91, EstimatedValue: 12000})
	assert.Equal(t, 40, got.Score)
	assert.InDelta(t, 12000*0.40, got.RevenueAtRisk, 1e-9)

	zero := ScoreChurn(ChurnInput{EstimatedValue: 5000})
	assert.Zero(t, zero.RevenueAtRisk)
}
