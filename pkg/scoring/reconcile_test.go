package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestMatchScoreExactAmountAndDate(t *testing.T) {
	tx := BankTransaction{ID: "tx-1", Amount: 150.25, Date: day(10)}
	entry := JournalCandidate{ID: "je-1", Amount: 150.25, Date: day(10)}

	// 50 (amount) + 30 (same day) + 14 (similarity) = 94
	assert.Equal(t, 94, MatchScore(tx, entry))
}

func TestMatchScoreDistantPairScoresOnlySimilarity(t *testing.T) {
	tx := BankTransaction{ID: "tx-1", Amount: 100, Date: day(1)}
	entry := JournalCandidate{ID: "je-1", Amount: 250, Date: day(20)}

	// amount diff > 1 and date diff > 7 days leave just the fixed term
	assert.Equal(t, 14, MatchScore(tx, entry))
}

func TestMatchScoreDateTiers(t *testing.T) {
	tx := BankTransaction{Amount: 100, Date: day(10)}

	assert.Equal(t, 94, MatchScore(tx, JournalCandidate{Amount: 100, Date: day(10)}))
	assert.Equal(t, 84, MatchScore(tx, JournalCandidate{Amount: 100, Date: day(13)}))
	assert.Equal(t, 74, MatchScore(tx, JournalCandidate{Amount: 100, Date: day(17)}))
	assert.Equal(t, 64, MatchScore(tx, JournalCandidate{Amount: 100, Date: day(20)}))
}

func TestMatchTransactionsPicksIdenticalOverNearMiss(t *testing.T) {
	tx := BankTransaction{ID: "tx-1", Amount: 99.99, Date: day(5)}
	entries := []JournalCandidate{
		{ID: "je-near", Amount: 99.50, Date: day(7)},
		{ID: "je-exact", Amount: 99.99, Date: day(5)},
	}

	report := MatchTransactions([]BankTransaction{tx}, entries)

	assert.Len(t, report.Matches, 1)
	assert.Equal(t, "je-exact", report.Matches[0].JournalEntryID)
	assert.GreaterOrEqual(t, report.Matches[0].Score, 94)
	assert.Empty(t, report.UnmatchedIDs)
}

func TestMatchTransactionsRejectsBelowThreshold(t *testing.T) {
	tx := BankTransaction{ID: "tx-1", Amount: 100, Date: day(1)}
	entries := []JournalCandidate{
		{ID: "je-1", Amount: 500, Date: day(25)},
	}

	report := MatchTransactions([]BankTransaction{tx}, entries)

	assert.Empty(t, report.Matches)
	assert.Equal(t, []string{"tx-1"}, report.UnmatchedIDs)
}

// Greedy assignment does not prevent one journal entry winning for
// two transactions; the report must surface that.
func TestMatchTransactionsReportsDuplicateEntryUse(t *testing.T) {
	txns := []BankTransaction{
		{ID: "tx-1", Amount: 42.00, Date: day(3)},
		{ID: "tx-2", Amount: 42.00, Date: day(3)},
	}
	entries := []JournalCandidate{
		{ID: "je-1", Amount: 42.00, Date: day(3)},
	}

	report := MatchTransactions(txns, entries)

	assert.Len(t, report.Matches, 2)
	assert.Equal(t, []string{"je-1"}, report.DuplicateEntryIDs)
}

func TestMatchTransactionsNoCandidates(t *testing.T) {
	report := MatchTransactions([]BankTransaction{{ID: "tx-1", Amount: 10, Date: day(1)}}, nil)
	assert.Empty(t, report.Matches)
	assert.Equal(t, []string{"tx-1"}, report.UnmatchedIDs)
}
