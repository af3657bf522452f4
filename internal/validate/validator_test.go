package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

func validTransaction(id, rawBody string) domain.TransactionRecord {
	categoryID := int64(1)
	return domain.TransactionRecord{
		ID:            id,
		Amount:        decimal.RequireFromString("350.00"),
		Merchant:      "Swiggy",
		CategoryID:    &categoryID,
		Direction:     domain.DirectionDebit,
		OccurredAtMs:  1736700000000,
		RawBody:       rawBody,
		SenderAddress: "VM-HDFCBK",
	}
}

func TestValidateLedger_CleanLedger(t *testing.T) {
	categoryID := int64(1)
	transactions := []domain.TransactionRecord{
		validTransaction("txn-1", "body one"),
		validTransaction("txn-2", "body two"),
	}
	rules := []domain.CategoryRule{
		{ID: 1, Keyword: "swiggy", CategoryID: &categoryID, IsActive: true, Priority: 100},
	}
	accounts := []domain.BankAccount{
		{ID: 1, BankName: "HDFC Bank", BankCode: "HDFC", ColorHex: "#004C8F", IsDefault: true},
	}

	result := ValidateLedger(transactions, rules, accounts)
	if result.HasErrors() {
		t.Errorf("ValidateLedger() errors = %v, want none", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("ValidateLedger() warnings = %v, want none", result.Warnings)
	}
}

func TestValidateLedger_TransactionErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TransactionRecord)
		field  string
	}{
		{"empty id", func(r *domain.TransactionRecord) { r.ID = "" }, "ID"},
		{"zero amount", func(r *domain.TransactionRecord) { r.Amount = decimal.Zero }, "Amount"},
		{"negative amount", func(r *domain.TransactionRecord) { r.Amount = decimal.RequireFromString("-5") }, "Amount"},
		{"invalid direction", func(r *domain.TransactionRecord) { r.Direction = "SIDEWAYS" }, "Direction"},
		{"empty merchant", func(r *domain.TransactionRecord) { r.Merchant = "  " }, "Merchant"},
		{"empty raw body", func(r *domain.TransactionRecord) { r.RawBody = "" }, "RawBody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validTransaction("txn-1", "body")
			tt.mutate(&rec)

			result := ValidateLedger([]domain.TransactionRecord{rec}, nil, nil)
			if !result.HasErrors() {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range result.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %s, got %v", tt.field, result.Errors)
			}
		})
	}
}

func TestValidateLedger_DuplicateRawBody(t *testing.T) {
	transactions := []domain.TransactionRecord{
		validTransaction("txn-1", "same body"),
		validTransaction("txn-2", "same body"),
	}

	result := ValidateLedger(transactions, nil, nil)
	if !result.HasErrors() {
		t.Fatal("expected duplicate raw body error")
	}
}

func TestValidateLedger_DuplicateTransactionID(t *testing.T) {
	transactions := []domain.TransactionRecord{
		validTransaction("txn-1", "body one"),
		validTransaction("txn-1", "body two"),
	}

	result := ValidateLedger(transactions, nil, nil)
	if !result.HasErrors() {
		t.Fatal("expected duplicate ID error")
	}
}

func TestValidateLedger_Warnings(t *testing.T) {
	rec := validTransaction("txn-1", "body")
	rec.CategoryID = nil
	future := validTransaction("txn-2", "body future")
	future.OccurredAtMs = time.Now().Add(24 * time.Hour).UnixMilli()

	result := ValidateLedger([]domain.TransactionRecord{rec, future}, nil, nil)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// Uncategorized txn-1 plus the future timestamp on txn-2.
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 (uncategorized + future timestamp)", result.Warnings)
	}
}

func TestValidateLedger_RuleChecks(t *testing.T) {
	categoryID := int64(1)
	rules := []domain.CategoryRule{
		{ID: 1, Keyword: "", CategoryID: &categoryID, IsActive: true, Priority: 100},
		{ID: 2, Keyword: "swiggy", CategoryID: &categoryID, IsActive: true, Priority: 2000},
		{ID: 3, Keyword: "zomato", CategoryID: nil, IsActive: true, Priority: 100},
		{ID: 4, Keyword: "amazon", CategoryID: &categoryID, IsActive: true, Priority: 50},
		{ID: 5, Keyword: "Amazon", CategoryID: &categoryID, IsActive: true, Priority: 40},
	}

	result := ValidateLedger(nil, rules, nil)

	errorFields := map[string]bool{}
	for _, e := range result.Errors {
		errorFields[e.Field] = true
	}
	if !errorFields["Keyword"] {
		t.Error("expected error for empty keyword")
	}
	if !errorFields["Priority"] {
		t.Error("expected error for out-of-range priority")
	}

	// Active rule without category + duplicate keyword (case-insensitive).
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2", result.Warnings)
	}
}

func TestValidateLedger_AccountChecks(t *testing.T) {
	accounts := []domain.BankAccount{
		{ID: 1, BankName: "HDFC Bank", BankCode: "HDFC", ColorHex: "#004C8F", IsDefault: true},
		{ID: 2, BankName: "State Bank of India", BankCode: "SBI", ColorHex: "22409A", IsDefault: true},
		{ID: 3, BankName: "", BankCode: "HDFC", ColorHex: "#004C8F"},
	}

	result := ValidateLedger(nil, nil, accounts)
	if !result.HasErrors() {
		t.Fatal("expected account validation errors")
	}

	fields := map[string]int{}
	for _, e := range result.Errors {
		fields[e.Field]++
	}
	if fields["ColorHex"] != 1 {
		t.Errorf("ColorHex errors = %d, want 1", fields["ColorHex"])
	}
	if fields["BankName"] != 1 {
		t.Errorf("BankName errors = %d, want 1", fields["BankName"])
	}
	if fields["BankCode"] != 1 {
		t.Errorf("BankCode (duplicate) errors = %d, want 1", fields["BankCode"])
	}
	if fields["IsDefault"] != 1 {
		t.Errorf("IsDefault errors = %d, want 1", fields["IsDefault"])
	}
}
