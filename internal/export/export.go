// Package export writes stored transactions as a portable JSON document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

const formatVersion = 1

// Document is the top-level export payload. ExportedAt is epoch
// milliseconds.
type Document struct {
	ExportedAt      int64         `json:"exported_at"`
	Version         int           `json:"version"`
	Transactions    []Transaction `json:"transactions"`
	CategoriesCount int           `json:"categories_count"`
	AccountsCount   int           `json:"accounts_count"`
}

// Transaction is the exported view of a stored record. Amount is a
// string to keep exact decimal representation across tools.
type Transaction struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Merchant string `json:"merchant"`
	Date     string `json:"date"`
	Type     string `json:"type"`
}

// Storage is what the exporter reads from.
type Storage interface {
	ListTransactions() ([]domain.TransactionRecord, error)
	CountCategories() (int, error)
	CountBankAccounts() (int, error)
}

// Build assembles the export document from storage.
func Build(storage Storage, now time.Time) (*Document, error) {
	records, err := storage.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	categories, err := storage.CountCategories()
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	accounts, err := storage.CountBankAccounts()
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	doc := &Document{
		ExportedAt:      now.UnixMilli(),
		Version:         formatVersion,
		Transactions:    make([]Transaction, 0, len(records)),
		CategoriesCount: categories,
		AccountsCount:   accounts,
	}
	for _, rec := range records {
		doc.Transactions = append(doc.Transactions, Transaction{
			ID:       rec.ID,
			Amount:   rec.Amount.String(),
			Merchant: rec.Merchant,
			Date:     time.UnixMilli(rec.OccurredAtMs).UTC().Format(time.RFC3339),
			Type:     string(rec.Direction),
		})
	}
	return doc, nil
}

// Write serializes the document as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}
