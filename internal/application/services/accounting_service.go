package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/scoring"
	"github.com/atlaserp/backend/pkg/utils"
)

// AccountingService owns the ledger, bank transactions, reconciliation
// and account risk reviews.
type AccountingService struct {
	accounting *persistence.AccountingRepository
}

func NewAccountingService(accounting *persistence.AccountingRepository) *AccountingService {
	return &AccountingService{accounting: accounting}
}

type JournalEntryRequest struct {
	Account     string    `json:"account" binding:"required"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"required"`
	EntryDate   time.Time `json:"entry_date"`
}

func (s *AccountingService) PostJournalEntry(ctx context.Context, req JournalEntryRequest) (*models.JournalEntry, error) {
	if req.Amount == 0 {
		return nil, errors.NewValidationError("amount", "Must not be zero")
	}

	entryDate := req.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	entry := &models.JournalEntry{
		ID:          utils.GenerateID(),
		Account:     req.Account,
		Description: req.Description,
		Amount:      req.Amount,
		EntryDate:   entryDate,
		CreatedDate: time.Now(),
	}
	if err := s.accounting.InsertJournalEntry(ctx, entry); err != nil {
		return nil, errors.NewPersistenceError("post journal entry", err)
	}
	return entry, nil
}

func (s *AccountingService) GetJournalEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	entry, err := s.accounting.FindJournalEntryByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Journal entry", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get journal entry", err)
	}
	return entry, nil
}

// ListJournalEntries returns entries within [from, to).
func (s *AccountingService) ListJournalEntries(ctx context.Context, from, to time.Time) ([]*models.JournalEntry, error) {
	if !to.After(from) {
		return nil, errors.NewValidationError("to", "Period end must follow period start")
	}
	entries, err := s.accounting.FindJournalEntries(ctx, from, to)
	if err != nil {
		return nil, errors.NewPersistenceError("list journal entries", err)
	}
	return entries, nil
}

type BankTransactionRequest struct {
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"required"`
	TxnDate     time.Time `json:"txn_date"`
}

// ImportBankTransactions records a batch of statement rows.
func (s *AccountingService) ImportBankTransactions(ctx context.Context, reqs []BankTransactionRequest) ([]*models.BankTransaction, error) {
	if len(reqs) == 0 {
		return nil, errors.NewValidationError("transactions", "At least one transaction is required")
	}

	imported := make([]*models.BankTransaction, 0, len(reqs))
	for _, req := range reqs {
		txnDate := req.TxnDate
		if txnDate.IsZero() {
			txnDate = time.Now()
		}
		txn := &models.BankTransaction{
			ID:          utils.GenerateID(),
			Reference:   req.Reference,
			Description: req.Description,
			Amount:      req.Amount,
			TxnDate:     txnDate,
			CreatedDate: time.Now(),
		}
		if err := s.accounting.InsertBankTransaction(ctx, txn); err != nil {
			return nil, errors.NewPersistenceError("import bank transaction", err)
		}
		imported = append(imported, txn)
	}
	return imported, nil
}

// Reconcile matches unmatched bank transactions against unreconciled
// journal entries and persists accepted pairings.
func (s *AccountingService) Reconcile(ctx context.Context) (*scoring.MatchReport, error) {
	txns, err := s.accounting.FindUnmatchedTransactions(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("reconcile", err)
	}
	entries, err := s.accounting.FindUnreconciledEntries(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("reconcile", err)
	}

	candidates := make([]scoring.BankTransaction, 0, len(txns))
	for _, t := range txns {
		candidates = append(candidates, scoring.BankTransaction{ID: t.ID, Amount: t.Amount, Date: t.TxnDate})
	}
	pool := make([]scoring.JournalCandidate, 0, len(entries))
	for _, e := range entries {
		pool = append(pool, scoring.JournalCandidate{ID: e.ID, Amount: e.Amount, Date: e.EntryDate})
	}

	report := scoring.MatchTransactions(candidates, pool)

	for _, m := range report.Matches {
		if err := s.accounting.MarkMatched(ctx, m.TransactionID, m.JournalEntryID); err != nil {
			return nil, errors.NewPersistenceError("mark matched", err)
		}
	}

	log.Printf("🏦 Reconciliation: %d matched, %d unmatched, %d duplicate entries",
		len(report.Matches), len(report.UnmatchedIDs), len(report.DuplicateEntryIDs))
	return &report, nil
}

// RiskReview is the outcome of an account risk scoring pass.
type RiskReview struct {
	Score      int                  `json:"risk_score"`
	MaxScore   int                  `json:"max_score"`
	Anomalies  int                  `json:"anomaly_count"`
	Compliance int                  `json:"compliance_issue_count"`
	Findings   []models.RiskFinding `json:"findings"`
}

// AccountRiskReview scores a set of findings: anomalies and compliance
// issues weighted by severity, capped at 100.
func (s *AccountingService) AccountRiskReview(findings []models.RiskFinding) (*RiskReview, error) {
	var anomalies, compliance []scoring.Severity
	for _, f := range findings {
		sev := scoring.Severity(f.Severity)
		switch sev {
		case scoring.SeverityLow, scoring.SeverityMedium, scoring.SeverityHigh:
		default:
			return nil, errors.NewValidationError("severity", "Unknown severity: "+f.Severity)
		}
		switch f.Kind {
		case "anomaly":
			anomalies = append(anomalies, sev)
		case "compliance":
			compliance = append(compliance, sev)
		default:
			return nil, errors.NewValidationError("kind", "Unknown finding kind: "+f.Kind)
		}
	}

	return &RiskReview{
		Score:      scoring.AccountRisk(anomalies, compliance),
		MaxScore:   scoring.AccountRiskMaxScore,
		Anomalies:  len(anomalies),
		Compliance: len(compliance),
		Findings:   findings,
	}, nil
}
