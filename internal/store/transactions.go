package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

const transactionColumns = `id, amount, merchant, category_id, direction, occurred_at_ms,
	raw_body, sender_address, reference_id, account_suffix, balance_after,
	bank_account_id, notes, created_at_ms`

// FindByRawBody returns the stored transaction with an identical raw body,
// or nil when none exists. Exact string match; this is the primary
// idempotence mechanism for re-synced messages.
func (s *Store) FindByRawBody(body string) (*domain.TransactionRecord, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE raw_body = ?`, body)
	rec, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transaction by raw body: %w", err)
	}
	return rec, nil
}

// InsertIgnoringDuplicates persists a record with INSERT OR IGNORE
// semantics on the raw-body uniqueness constraint. A duplicate insert is
// silently ignored, as a second line of defense behind FindByRawBody.
// Returns true when a row was actually inserted.
func (s *Store) InsertIgnoringDuplicates(rec *domain.TransactionRecord) (bool, error) {
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Amount.String(), rec.Merchant, rec.CategoryID, string(rec.Direction),
		rec.OccurredAtMs, rec.RawBody, rec.SenderAddress, rec.ReferenceID,
		rec.AccountSuffix, nullableDecimal(rec.BalanceAfter), rec.BankAccountID,
		rec.Notes, rec.CreatedAtMs)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListTransactions returns all stored transactions, newest first.
func (s *Store) ListTransactions() ([]domain.TransactionRecord, error) {
	rows, err := s.db.Query(`SELECT ` + transactionColumns + ` FROM transactions ORDER BY occurred_at_ms DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// CountTransactions returns the number of stored transactions.
func (s *Store) CountTransactions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.TransactionRecord, error) {
	var (
		rec        domain.TransactionRecord
		amount     string
		direction  string
		categoryID sql.NullInt64
		refID      sql.NullString
		suffix     sql.NullString
		balance    sql.NullString
		bankAcctID sql.NullInt64
		notes      sql.NullString
	)
	if err := row.Scan(&rec.ID, &amount, &rec.Merchant, &categoryID, &direction,
		&rec.OccurredAtMs, &rec.RawBody, &rec.SenderAddress, &refID, &suffix,
		&balance, &bankAcctID, &notes, &rec.CreatedAtMs); err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
	}
	rec.Amount = amt
	rec.Direction = domain.Direction(direction)
	if categoryID.Valid {
		rec.CategoryID = &categoryID.Int64
	}
	if refID.Valid {
		rec.ReferenceID = &refID.String
	}
	if suffix.Valid {
		rec.AccountSuffix = &suffix.String
	}
	if balance.Valid {
		bal, err := decimal.NewFromString(balance.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance %q: %w", balance.String, err)
		}
		rec.BalanceAfter = &bal
	}
	if bankAcctID.Valid {
		rec.BankAccountID = &bankAcctID.Int64
	}
	if notes.Valid {
		rec.Notes = &notes.String
	}
	return &rec, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
