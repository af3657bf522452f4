// Package rules matches merchant names against user-editable keyword
// rules to auto-categorize transactions.
package rules

import (
	"strings"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// Match returns the category of the first rule whose keyword is contained
// in the merchant name (case-insensitive). The caller must supply rules
// already sorted descending by priority; that sort happens once at the
// storage query boundary, and the matcher performs no further sorting, so
// ties break deterministically by input order. Returns nil for a nil
// merchant or when no rule matches. Pure, O(rules) per call.
func Match(merchant *string, activeRules []domain.CategoryRule) *int64 {
	if merchant == nil {
		return nil
	}
	name := strings.ToLower(*merchant)
	for _, rule := range activeRules {
		if !rule.IsActive {
			continue
		}
		if strings.Contains(name, strings.ToLower(rule.Keyword)) {
			return rule.CategoryID
		}
	}
	return nil
}
