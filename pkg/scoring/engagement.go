// Package scoring implements the pure heuristics behind the suite's
// customer analytics: engagement and churn scoring, account risk,
// bank reconciliation matching, ABC inventory classification and
// reorder points. Every function is a pure function of its inputs.
package scoring

import "math"

// Engagement labels, from most to least engaged.
const (
	LabelHighlyEngaged     = "Highly Engaged"
	LabelEngaged           = "Engaged"
	LabelModeratelyEngaged = "Moderately Engaged"
	LabelLowEngagement     = "Low Engagement"
)

// EngagementMaxScore is the true maximum of the additive formula
// (30 + 25 + 20). The "Highly Engaged" label threshold of 80 is
// therefore unreachable. This mismatch is inherited from the business
// definition and deliberately not rescaled; callers should surface
// EngagementMaxScore alongside the score.
const EngagementMaxScore = 75

// EngagementInput holds the numeric signals for one contact.
type EngagementInput struct {
	ActivityCount     int     // total recorded activities, >= 0
	ResponseRate      float64 // in [0, 1]
	ContentEngagement float64 // in [0, 1]
}

// EngagementResult is the bounded score plus its categorical label.
type EngagementResult struct {
	Score            int    `json:"score"`
	Label            string `json:"label"`
	MaxPossibleScore int    `json:"max_possible_score"`
}

// ScoreEngagement produces an integer score in [10, 75]:
// activity tier (>=20 -> 30, >=10 -> 20, else 10)
// + min(response_rate*50, 25) + min(content_engagement*30, 20).
func ScoreEngagement(in EngagementInput) EngagementResult {
	base := 10
	switch {
	case in.ActivityCount >= 20:
		base = 30
	case in.ActivityCount >= 10:
		base = 20
	}

	responsePoints := math.Min(clamp01(in.ResponseRate)*50, 25)
	contentPoints := math.Min(clamp01(in.ContentEngagement)*30, 20)

	score := int(math.Round(float64(base) + responsePoints + contentPoints))

	return EngagementResult{
		Score:            score,
		Label:            engagementLabel(score),
		MaxPossibleScore: EngagementMaxScore,
	}
}

func engagementLabel(score int) string {
	switch {
	case score >= 80:
		return LabelHighlyEngaged
	case score >= 60:
		return LabelEngaged
	case score >= 40:
		return LabelModeratelyEngaged
	default:
		return LabelLowEngagement
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
