// Package store is the local SQLite persistence layer: transactions,
// category rules, excluded senders, and bank accounts.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rumor-ml/commons.systems/smsledger/internal/rules"
)

//go:embed schema.sql
var schema string

const rulesSeededKey = "rules_seeded"

// Store wraps the SQLite handle. Amounts are persisted as decimal strings
// so parsed values round-trip exactly.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Init creates tables if they don't exist and applies the default
// category-rule seed exactly once, on first creation.
func (s *Store) Init(seed []rules.SeedRule) error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var seeded string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, rulesSeededKey).Scan(&seeded)
	if err == nil {
		return nil // already seeded
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("read seed marker: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range seed {
		var categoryID int64
		err := tx.QueryRow(`SELECT id FROM categories WHERE name = ?`, r.Category).Scan(&categoryID)
		if err == sql.ErrNoRows {
			res, err := tx.Exec(`INSERT INTO categories (name) VALUES (?)`, r.Category)
			if err != nil {
				return fmt.Errorf("insert category %q: %w", r.Category, err)
			}
			categoryID, err = res.LastInsertId()
			if err != nil {
				return fmt.Errorf("category id for %q: %w", r.Category, err)
			}
		} else if err != nil {
			return fmt.Errorf("lookup category %q: %w", r.Category, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO category_rules (keyword, category_id, is_active, priority) VALUES (?, ?, 1, ?)`,
			r.Keyword, categoryID, r.Priority,
		); err != nil {
			return fmt.Errorf("insert rule %q: %w", r.Keyword, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, '1')`, rulesSeededKey); err != nil {
		return fmt.Errorf("write seed marker: %w", err)
	}
	return tx.Commit()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
