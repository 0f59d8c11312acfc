package scoring

import (
	"math"
	"sort"
	"time"
)

// MatchAcceptThreshold is the minimum combined score (exclusive) for a
// candidate pairing to be accepted.
const MatchAcceptThreshold = 60

// descriptionSimilarityTerm stands in for a text-similarity model that
// is not wired up; every candidate pair receives it.
const descriptionSimilarityTerm = 14

// BankTransaction is the reconciliation view of a bank statement row.
type BankTransaction struct {
	ID     string
	Amount float64
	Date   time.Time
}

// JournalCandidate is the reconciliation view of a journal entry.
type JournalCandidate struct {
	ID     string
	Amount float64
	Date   time.Time
}

// Match pairs a bank transaction with its best-scoring journal entry.
type Match struct {
	TransactionID  string `json:"transaction_id"`
	JournalEntryID string `json:"journal_entry_id"`
	Score          int    `json:"score"`
}

// MatchReport is the outcome of a reconciliation run. Matching is
// greedy per transaction: the same journal entry can win for two
// different transactions, which DuplicateEntryIDs exposes instead of
// hiding.
type MatchReport struct {
	Matches           []Match  `json:"matches"`
	UnmatchedIDs      []string `json:"unmatched_transaction_ids"`
	DuplicateEntryIDs []string `json:"duplicate_journal_entry_ids"`
}

// MatchScore scores one transaction/entry pairing:
// amount diff <= 0.01 -> +50, <= 1 -> +30;
// same day -> +30, <= 3 days -> +20, <= 7 days -> +10;
// plus the fixed similarity term.
func MatchScore(tx BankTransaction, entry JournalCandidate) int {
	score := descriptionSimilarityTerm

	diff := math.Abs(tx.Amount - entry.Amount)
	switch {
	case diff <= 0.01:
		score += 50
	case diff <= 1:
		score += 30
	}

	days := daysApart(tx.Date, entry.Date)
	switch {
	case days == 0:
		score += 30
	case days <= 3:
		score += 20
	case days <= 7:
		score += 10
	}

	return score
}

// MatchTransactions runs greedy best-match assignment: for each bank
// transaction, every journal entry is scored and the highest-scoring
// candidate above the acceptance threshold is kept. O(n*m) pairwise.
func MatchTransactions(txns []BankTransaction, entries []JournalCandidate) MatchReport {
	report := MatchReport{
		Matches:           []Match{},
		UnmatchedIDs:      []string{},
		DuplicateEntryIDs: []string{},
	}

	entryUse := make(map[string]int)

	for _, tx := range txns {
		bestScore := 0
		bestEntry := ""
		for _, entry := range entries {
			if score := MatchScore(tx, entry); score > bestScore {
				bestScore = score
				bestEntry = entry.ID
			}
		}

		if bestEntry != "" && bestScore > MatchAcceptThreshold {
			report.Matches = append(report.Matches, Match{
				TransactionID:  tx.ID,
				JournalEntryID: bestEntry,
				Score:          bestScore,
			})
			entryUse[bestEntry]++
		} else {
			report.UnmatchedIDs = append(report.UnmatchedIDs, tx.ID)
		}
	}

	for id, n := range entryUse {
		if n > 1 {
			report.DuplicateEntryIDs = append(report.DuplicateEntryIDs, id)
		}
	}
	sort.Strings(report.DuplicateEntryIDs)

	return report
}

func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Abs(ad.Sub(bd).Hours()) / 24)
}
