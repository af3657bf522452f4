package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// ValidationResult contains all validation errors and warnings for a ledger
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a validation error
type ValidationError struct {
	Entity  string // "transaction", "rule", "account"
	ID      string
	Field   string
	Value   string
	Message string
}

// ValidationWarning represents a non-critical validation issue
type ValidationWarning struct {
	Entity  string
	ID      string
	Field   string
	Value   string
	Message string
}

// HasErrors reports whether the result contains any hard errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidateLedger performs comprehensive validation of stored transactions,
// category rules, and bank accounts, checking individual entity constraints
// and cross-entity uniqueness. Returns ValidationResult with all errors and
// warnings found.
func ValidateLedger(transactions []domain.TransactionRecord, rules []domain.CategoryRule, accounts []domain.BankAccount) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	transactionIDs := make(map[string]bool)
	rawBodies := make(map[string]string)
	now := time.Now().UnixMilli()

	for _, txn := range transactions {
		if txn.ID == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "ID",
				Value:   "",
				Message: "transaction ID cannot be empty",
			})
		}

		if !txn.Amount.IsPositive() {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "Amount",
				Value:   txn.Amount.String(),
				Message: fmt.Sprintf("amount must be positive, got %s", txn.Amount),
			})
		}

		if !domain.ValidateDirection(txn.Direction) {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "Direction",
				Value:   string(txn.Direction),
				Message: fmt.Sprintf("invalid direction: %s (must be DEBIT, CREDIT, or TRANSFER)", txn.Direction),
			})
		}

		if strings.TrimSpace(txn.Merchant) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "Merchant",
				Value:   txn.Merchant,
				Message: "merchant cannot be empty",
			})
		}

		if txn.RawBody == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "RawBody",
				Value:   "",
				Message: "raw body cannot be empty",
			})
		} else if prevID, seen := rawBodies[txn.RawBody]; seen {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "RawBody",
				Value:   txn.RawBody,
				Message: fmt.Sprintf("duplicate raw body, already stored as %s", prevID),
			})
		} else {
			rawBodies[txn.RawBody] = txn.ID
		}

		if txn.OccurredAtMs > now {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "OccurredAtMs",
				Value:   fmt.Sprintf("%d", txn.OccurredAtMs),
				Message: "transaction timestamp is in the future",
			})
		}

		if txn.CategoryID == nil {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Entity:  "transaction",
				ID:      txn.ID,
				Field:   "CategoryID",
				Value:   "",
				Message: "transaction is uncategorized",
			})
		}

		// Check for duplicate IDs
		if txn.ID != "" {
			if transactionIDs[txn.ID] {
				result.Errors = append(result.Errors, ValidationError{
					Entity:  "transaction",
					ID:      txn.ID,
					Field:   "ID",
					Value:   txn.ID,
					Message: "duplicate transaction ID",
				})
			}
			transactionIDs[txn.ID] = true
		}
	}

	keywords := make(map[string]bool)
	for _, rule := range rules {
		if strings.TrimSpace(rule.Keyword) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "rule",
				ID:      fmt.Sprintf("%d", rule.ID),
				Field:   "Keyword",
				Value:   rule.Keyword,
				Message: "rule keyword cannot be empty",
			})
		}
		if rule.Priority < 0 || rule.Priority > 999 {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "rule",
				ID:      fmt.Sprintf("%d", rule.ID),
				Field:   "Priority",
				Value:   fmt.Sprintf("%d", rule.Priority),
				Message: fmt.Sprintf("priority must be in [0,999], got %d", rule.Priority),
			})
		}
		if rule.CategoryID == nil && rule.IsActive {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Entity:  "rule",
				ID:      fmt.Sprintf("%d", rule.ID),
				Field:   "CategoryID",
				Value:   "",
				Message: "active rule has no category and will never assign one",
			})
		}

		key := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if key != "" {
			if keywords[key] {
				result.Warnings = append(result.Warnings, ValidationWarning{
					Entity:  "rule",
					ID:      fmt.Sprintf("%d", rule.ID),
					Field:   "Keyword",
					Value:   rule.Keyword,
					Message: fmt.Sprintf("duplicate keyword: %s (only the highest-priority rule will ever match)", rule.Keyword),
				})
			}
			keywords[key] = true
		}
	}

	bankCodes := make(map[string]bool)
	defaults := 0
	for _, acc := range accounts {
		if acc.BankCode == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "account",
				ID:      fmt.Sprintf("%d", acc.ID),
				Field:   "BankCode",
				Value:   "",
				Message: "account bank code cannot be empty",
			})
		}
		if acc.BankName == "" {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "account",
				ID:      fmt.Sprintf("%d", acc.ID),
				Field:   "BankName",
				Value:   "",
				Message: "account name cannot be empty",
			})
		}
		if !strings.HasPrefix(acc.ColorHex, "#") {
			result.Errors = append(result.Errors, ValidationError{
				Entity:  "account",
				ID:      fmt.Sprintf("%d", acc.ID),
				Field:   "ColorHex",
				Value:   acc.ColorHex,
				Message: fmt.Sprintf("invalid color: %s (must start with #)", acc.ColorHex),
			})
		}
		if acc.IsDefault {
			defaults++
		}

		// Check for duplicate codes
		if acc.BankCode != "" {
			if bankCodes[acc.BankCode] {
				result.Errors = append(result.Errors, ValidationError{
					Entity:  "account",
					ID:      fmt.Sprintf("%d", acc.ID),
					Field:   "BankCode",
					Value:   acc.BankCode,
					Message: "duplicate bank code",
				})
			}
			bankCodes[acc.BankCode] = true
		}
	}
	if defaults > 1 {
		result.Errors = append(result.Errors, ValidationError{
			Entity:  "account",
			ID:      "",
			Field:   "IsDefault",
			Value:   fmt.Sprintf("%d", defaults),
			Message: fmt.Sprintf("%d accounts marked default, at most one allowed", defaults),
		})
	}

	return result
}
