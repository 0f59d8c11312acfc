package models

import "time"

// JournalEntry is one posted ledger line.
type JournalEntry struct {
	ID          string    `json:"id"`
	Account     string    `json:"account"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	EntryDate   time.Time `json:"entry_date"`
	Reconciled  bool      `json:"reconciled"`
	CreatedDate time.Time `json:"created_date"`
}

// BankTransaction is one imported bank statement row.
type BankTransaction struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference,omitempty"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	TxnDate     time.Time `json:"txn_date"`
	Matched     bool      `json:"matched"`
	CreatedDate time.Time `json:"created_date"`
}

// RiskFinding is one anomaly or compliance issue raised against an
// account during a risk review.
type RiskFinding struct {
	Kind     string `json:"kind"` // "anomaly" or "compliance"
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}
