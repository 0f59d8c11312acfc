package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountRiskPointValues(t *testing.T) {
	assert.Equal(t, 0, AccountRisk(nil, nil))
	assert.Equal(t, 10, AccountRisk([]Severity{SeverityLow}, nil))
	assert.Equal(t, 30, AccountRisk([]Severity{SeverityMedium}, nil))
	// High anomalies carry the same weight as low ones in the
	// inherited rules.
	assert.Equal(t, 10, AccountRisk([]Severity{SeverityHigh}, nil))
	assert.Equal(t, 20, AccountRisk(nil, []Severity{SeverityLow}))
	assert.Equal(t, 50, AccountRisk(nil, []Severity{SeverityMedium}))
	assert.Equal(t, 100, AccountRisk(nil, []Severity{SeverityHigh}))
}

func TestAccountRiskCappedAt100(t *testing.T) {
	anomalies := []Severity{SeverityMedium, SeverityMedium, SeverityMedium}
	compliance := []Severity{SeverityHigh, SeverityMedium}
	assert.Equal(t, AccountRiskMaxScore, AccountRisk(anomalies, compliance))
}

func TestAccountRiskMixed(t *testing.T) {
	// 10 + 30 + 20 = 60
	got := AccountRisk([]Severity{SeverityLow, SeverityMedium}, []Severity{SeverityLow})
	assert.Equal(t, 60, got)
}
