package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents the money-flow direction of a transaction.
// Use ValidateDirection to ensure validity before use.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
	// DirectionTransfer marks movements between the user's own accounts.
	// The extractor never emits it; it is set by the user after ingestion
	// and excluded from income/spend totals.
	DirectionTransfer Direction = "TRANSFER"
)

var validDirections = map[Direction]struct{}{
	DirectionDebit: {}, DirectionCredit: {}, DirectionTransfer: {},
}

// ValidateDirection checks if direction is valid
func ValidateDirection(d Direction) bool {
	_, ok := validDirections[d]
	return ok
}

// RawMessage is a device SMS record as supplied by a message source.
// Immutable once read; the source owns its lifecycle.
type RawMessage struct {
	ID            string
	SenderAddress string
	Body          string
	TimestampMs   int64
	IsRead        bool
}

// ParsedTransaction holds the fields extracted from one message body.
// Every field is independently optional: extraction of one field never
// depends on success of another. A message yielding neither Amount nor
// Direction is not a transaction.
type ParsedTransaction struct {
	Amount        *decimal.Decimal
	Merchant      *string
	Direction     *Direction
	ReferenceID   *string
	AccountSuffix *string
	BalanceAfter  *decimal.Decimal
}

// IsUsable reports whether the parse produced enough to persist a record.
func (p *ParsedTransaction) IsUsable() bool {
	return p.Amount != nil && p.Direction != nil
}

// TransactionRecord is the persisted form of a successfully parsed message.
// RawBody is unique: the same physical SMS is never stored twice. The
// parser never mutates a record after creation; merchant, category, and
// notes may be edited by the user later.
type TransactionRecord struct {
	ID            string
	Amount        decimal.Decimal
	Merchant      string
	CategoryID    *int64
	Direction     Direction
	OccurredAtMs  int64
	RawBody       string
	SenderAddress string
	ReferenceID   *string
	AccountSuffix *string
	BalanceAfter  *decimal.Decimal
	BankAccountID *int64
	Notes         *string
	CreatedAtMs   int64
}

// NewTransactionRecord creates a validated transaction record.
func NewTransactionRecord(id string, amount decimal.Decimal, merchant string, direction Direction, occurredAtMs int64, rawBody, senderAddress string) (*TransactionRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}
	if strings.TrimSpace(merchant) == "" {
		return nil, fmt.Errorf("merchant cannot be empty")
	}
	if !ValidateDirection(direction) {
		return nil, fmt.Errorf("invalid direction: %s", direction)
	}
	if rawBody == "" {
		return nil, fmt.Errorf("raw body cannot be empty")
	}
	if senderAddress == "" {
		return nil, fmt.Errorf("sender address cannot be empty")
	}

	return &TransactionRecord{
		ID:            id,
		Amount:        amount,
		Merchant:      merchant,
		Direction:     direction,
		OccurredAtMs:  occurredAtMs,
		RawBody:       rawBody,
		SenderAddress: senderAddress,
		CreatedAtMs:   time.Now().UnixMilli(),
	}, nil
}

// CategoryRule maps a merchant keyword to a category. Matching is
// substring-containment, case-insensitive; ties break by highest priority
// first. Rules are pre-sorted descending by priority at the storage query
// boundary; the matcher performs no further sorting.
type CategoryRule struct {
	ID         int64
	Keyword    string
	CategoryID *int64
	IsActive   bool
	Priority   int
}

// NewCategoryRule creates a validated category rule.
func NewCategoryRule(keyword string, categoryID *int64, priority int) (*CategoryRule, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword cannot be empty")
	}
	if priority < 0 || priority > 999 {
		return nil, fmt.Errorf("priority must be in [0,999], got %d", priority)
	}
	return &CategoryRule{
		Keyword:    keyword,
		CategoryID: categoryID,
		IsActive:   true,
		Priority:   priority,
	}, nil
}

// BankAccount is a user bank account onboarded manually or from a
// recognized sender. At most one account may be the default; setting a new
// default atomically clears the previous one at the storage layer.
type BankAccount struct {
	ID             int64
	BankName       string
	BankCode       string
	AccountSuffix  *string
	CurrentBalance decimal.Decimal
	IsDefault      bool
	ColorHex       string
	CreatedAtMs    int64
}

// NewBankAccount creates a validated bank account.
func NewBankAccount(bankName, bankCode, colorHex string) (*BankAccount, error) {
	if strings.TrimSpace(bankName) == "" {
		return nil, fmt.Errorf("bank name cannot be empty")
	}
	if strings.TrimSpace(bankCode) == "" {
		return nil, fmt.Errorf("bank code cannot be empty")
	}
	if colorHex == "" || colorHex[0] != '#' {
		return nil, fmt.Errorf("invalid color %q (must be #RRGGBB)", colorHex)
	}
	return &BankAccount{
		BankName:       bankName,
		BankCode:       bankCode,
		CurrentBalance: decimal.Zero,
		ColorHex:       colorHex,
		CreatedAtMs:    time.Now().UnixMilli(),
	}, nil
}
