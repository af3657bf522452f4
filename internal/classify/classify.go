// Package classify decides whether an (sender, body) pair looks like a
// bank or fintech transaction notification. It is a deliberate
// precision-over-recall filter: a missed real transaction is preferred
// over a promotional SMS miscounted as one.
package classify

import (
	"regexp"
	"strings"

	"github.com/rumor-ml/commons.systems/smsledger/internal/extract"
)

// senderShapes are the address formats transactional senders use: a DLT
// route prefix (two letters, a dash, then an alphabetic or alphanumeric
// bank code) or anything naming BANK or UPI outright.
var senderShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[A-Z]{2}-[A-Z0-9]+$`),
	regexp.MustCompile(`(?i)BANK`),
	regexp.MustCompile(`(?i)UPI`),
}

// transactionKeywords is the fixed vocabulary a transactional body is
// expected to contain at least one member of (case-insensitive substring).
var transactionKeywords = []string{
	"debited", "credited", "withdrawn", "deposited", "spent", "received",
	"paid", "transfer", "upi", "imps", "neft", "rtgs", "a/c", "acct",
	"account", "atm", "payment",
}

// IsTransactionMessage reports whether the message looks like a financial
// transaction notification. All three conditions are required: a
// bank-shaped sender, a transaction keyword, and a currency-amount-shaped
// substring. Pure function of its inputs.
func IsTransactionMessage(senderAddress, body string) bool {
	return senderLooksTransactional(senderAddress) &&
		containsTransactionKeyword(body) &&
		extract.ContainsAmount(body)
}

func senderLooksTransactional(senderAddress string) bool {
	for _, shape := range senderShapes {
		if shape.MatchString(senderAddress) {
			return true
		}
	}
	return false
}

func containsTransactionKeyword(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range transactionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
