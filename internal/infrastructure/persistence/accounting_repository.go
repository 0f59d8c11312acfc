package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// AccountingRepository persists journal entries and bank transactions.
type AccountingRepository struct {
	db *sql.DB
}

func NewAccountingRepository(db *sql.DB) *AccountingRepository {
	return &AccountingRepository{db: db}
}

func (r *AccountingRepository) InsertJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, account, description, amount, entry_date, reconciled, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableJournalEntry)
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Account, e.Description, e.Amount, e.EntryDate, e.Reconciled, e.CreatedDate)
	return err
}

func (r *AccountingRepository) FindJournalEntryByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, account, description, amount, entry_date, reconciled, created_date
		FROM %s WHERE %s = ?`, constants.TableJournalEntry, constants.FieldID)

	var e models.JournalEntry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Account, &e.Description, &e.Amount, &e.EntryDate, &e.Reconciled, &e.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindJournalEntries lists entries within [from, to), newest first.
func (r *AccountingRepository) FindJournalEntries(ctx context.Context, from, to time.Time) ([]*models.JournalEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, account, description, amount, entry_date, reconciled, created_date
		FROM %s WHERE entry_date >= ? AND entry_date < ?
		ORDER BY entry_date DESC`, constants.TableJournalEntry)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Account, &e.Description, &e.Amount, &e.EntryDate, &e.Reconciled, &e.CreatedDate); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *AccountingRepository) FindUnreconciledEntries(ctx context.Context) ([]*models.JournalEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, account, description, amount, entry_date, reconciled, created_date
		FROM %s WHERE reconciled = FALSE`, constants.TableJournalEntry)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Account, &e.Description, &e.Amount, &e.EntryDate, &e.Reconciled, &e.CreatedDate); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *AccountingRepository) InsertBankTransaction(ctx context.Context, t *models.BankTransaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, reference, description, amount, txn_date, matched, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableBankTransaction)
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Reference, t.Description, t.Amount, t.TxnDate, t.Matched, t.CreatedDate)
	return err
}

func (r *AccountingRepository) FindUnmatchedTransactions(ctx context.Context) ([]*models.BankTransaction, error) {
	query := fmt.Sprintf(`
		SELECT id, reference, description, amount, txn_date, matched, created_date
		FROM %s WHERE matched = FALSE`, constants.TableBankTransaction)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*models.BankTransaction, 0)
	for rows.Next() {
		var t models.BankTransaction
		if err := rows.Scan(&t.ID, &t.Reference, &t.Description, &t.Amount, &t.TxnDate, &t.Matched, &t.CreatedDate); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}

// MarkMatched flags a transaction and its journal entry as reconciled
// in one transaction.
func (r *AccountingRepository) MarkMatched(ctx context.Context, txnID, entryID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txnQuery := fmt.Sprintf("UPDATE %s SET matched = TRUE WHERE %s = ?", constants.TableBankTransaction, constants.FieldID)
	if _, err := tx.ExecContext(ctx, txnQuery, txnID); err != nil {
		return err
	}
	entryQuery := fmt.Sprintf("UPDATE %s SET reconciled = TRUE WHERE %s = ?", constants.TableJournalEntry, constants.FieldID)
	if _, err := tx.ExecContext(ctx, entryQuery, entryID); err != nil {
		return err
	}

	return tx.Commit()
}
