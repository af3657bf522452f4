package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// UpsertBankAccount inserts a bank account or updates the existing row
// with the same bank code. Returns the account id.
func (s *Store) UpsertBankAccount(acc *domain.BankAccount) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO bank_accounts (bank_name, bank_code, account_suffix, current_balance, is_default, color_hex, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bank_code) DO UPDATE SET
			bank_name = excluded.bank_name,
			account_suffix = COALESCE(excluded.account_suffix, bank_accounts.account_suffix),
			current_balance = excluded.current_balance,
			color_hex = excluded.color_hex
	`, acc.BankName, acc.BankCode, acc.AccountSuffix, acc.CurrentBalance.String(),
		acc.IsDefault, acc.ColorHex, acc.CreatedAtMs)
	if err != nil {
		return 0, fmt.Errorf("upsert bank account: %w", err)
	}

	// LastInsertId is unreliable after ON CONFLICT UPDATE; look up by code.
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM bank_accounts WHERE bank_code = ?`, acc.BankCode).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup bank account %q: %w", acc.BankCode, err)
	}
	return id, nil
}

// SetDefaultBankAccount marks one account as the default, atomically
// clearing the previous default in the same transaction. At most one row
// may be the default.
func (s *Store) SetDefaultBankAccount(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin default-account transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE bank_accounts SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("clear previous default: %w", err)
	}
	res, err := tx.Exec(`UPDATE bank_accounts SET is_default = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("set default account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bank account %d not found", id)
	}
	return tx.Commit()
}

// ListBankAccounts returns all bank accounts in creation order.
func (s *Store) ListBankAccounts() ([]domain.BankAccount, error) {
	rows, err := s.db.Query(`
		SELECT id, bank_name, bank_code, account_suffix, current_balance, is_default, color_hex, created_at_ms
		FROM bank_accounts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bank accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.BankAccount
	for rows.Next() {
		var (
			acc     domain.BankAccount
			suffix  sql.NullString
			balance string
		)
		if err := rows.Scan(&acc.ID, &acc.BankName, &acc.BankCode, &suffix, &balance,
			&acc.IsDefault, &acc.ColorHex, &acc.CreatedAtMs); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		if suffix.Valid {
			acc.AccountSuffix = &suffix.String
		}
		bal, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance %q: %w", balance, err)
		}
		acc.CurrentBalance = bal
		out = append(out, acc)
	}
	return out, rows.Err()
}

// CountBankAccounts returns the number of bank accounts.
func (s *Store) CountBankAccounts() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM bank_accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bank accounts: %w", err)
	}
	return n, nil
}
