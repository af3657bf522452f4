package store

import (
	"database/sql"
	"fmt"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// ListActiveCategoryRules returns active rules sorted descending by
// priority, ties by insertion order. This query is the single sort
// boundary the matcher's pre-sort contract relies on.
func (s *Store) ListActiveCategoryRules() ([]domain.CategoryRule, error) {
	rows, err := s.db.Query(`
		SELECT id, keyword, category_id, is_active, priority
		FROM category_rules
		WHERE is_active = 1
		ORDER BY priority DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query category rules: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryRule
	for rows.Next() {
		var (
			r          domain.CategoryRule
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Keyword, &categoryID, &r.IsActive, &r.Priority); err != nil {
			return nil, fmt.Errorf("scan category rule: %w", err)
		}
		if categoryID.Valid {
			r.CategoryID = &categoryID.Int64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddCategoryRule inserts a user-created rule and returns its id.
func (s *Store) AddCategoryRule(rule *domain.CategoryRule) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO category_rules (keyword, category_id, is_active, priority)
		VALUES (?, ?, ?, ?)
	`, rule.Keyword, rule.CategoryID, rule.IsActive, rule.Priority)
	if err != nil {
		return 0, fmt.Errorf("insert category rule: %w", err)
	}
	return res.LastInsertId()
}

// CountCategories returns the number of categories.
func (s *Store) CountCategories() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// ListExcludedSenderAddresses returns the user's excluded-sender strings.
func (s *Store) ListExcludedSenderAddresses() ([]string, error) {
	rows, err := s.db.Query(`SELECT address FROM excluded_senders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query excluded senders: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan excluded sender: %w", err)
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

// AddExcludedSender records a sender substring to skip during ingestion.
func (s *Store) AddExcludedSender(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO excluded_senders (address) VALUES (?)`, address); err != nil {
		return fmt.Errorf("insert excluded sender: %w", err)
	}
	return nil
}
