// Package extract pulls structured transaction fields out of free-text
// bank SMS bodies. Every field runs its own ordered chain of regex
// families with first-valid-capture-wins semantics; evidence is never
// combined across families. That trades some recall for predictable,
// debuggable behavior across dozens of uncoordinated sender formats.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// Extract parses a message body into its transaction fields. It is pure,
// deterministic, and total: a field no family can resolve is simply nil.
func Extract(body string) domain.ParsedTransaction {
	var parsed domain.ParsedTransaction

	if amt, ok := extractAmount(body, amountFamilies); ok {
		parsed.Amount = &amt
	}
	if dir, ok := extractDirection(body); ok {
		parsed.Direction = &dir
	}
	if m, ok := extractMerchant(body); ok {
		parsed.Merchant = &m
	}
	if ref, ok := firstCapture(referenceFamilies, body, validReference); ok {
		parsed.ReferenceID = &ref
	}
	if sfx, ok := firstCapture(suffixFamilies, body, validSuffix); ok {
		parsed.AccountSuffix = &sfx
	}
	if bal, ok := extractAmount(body, balanceFamilies); ok {
		parsed.BalanceAfter = &bal
	}

	return parsed
}

// ContainsAmount reports whether the body holds at least one
// currency-amount-shaped substring. Used by the sender classifier.
func ContainsAmount(body string) bool {
	for _, m := range amountFamilies[0].re.FindAllStringSubmatch(body, -1) {
		if _, ok := parseAmount(m[amountFamilies[0].group]); ok {
			return true
		}
	}
	return false
}

// firstCapture evaluates families in order and returns the first capture
// the validator accepts. Within a family every match is considered, in
// body order, so an early junk capture does not mask a later valid one.
func firstCapture(families []patternFamily, body string, valid func(string) (string, bool)) (string, bool) {
	for _, f := range families {
		for _, m := range f.re.FindAllStringSubmatch(body, -1) {
			if f.group >= len(m) {
				continue
			}
			if got, ok := valid(m[f.group]); ok {
				return got, true
			}
		}
	}
	return "", false
}

func extractAmount(body string, families []patternFamily) (decimal.Decimal, bool) {
	for _, f := range families {
		for _, m := range f.re.FindAllStringSubmatch(body, -1) {
			if amt, ok := parseAmount(m[f.group]); ok {
				return amt, true
			}
		}
	}
	return decimal.Decimal{}, false
}

// parseAmount validates a raw numeric capture. Captures with more than 2
// fraction digits are rejected so the owning family yields no match and
// the chain falls through.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if dot := strings.IndexByte(cleaned, '.'); dot >= 0 && len(cleaned)-dot-1 > 2 {
		return decimal.Decimal{}, false
	}
	amt, err := decimal.NewFromString(cleaned)
	if err != nil || !amt.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amt, true
}

func extractDirection(body string) (domain.Direction, bool) {
	lower := strings.ToLower(body)
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return domain.DirectionDebit, true
		}
	}
	if debitAbbrev.MatchString(body) {
		return domain.DirectionDebit, true
	}
	for _, kw := range creditKeywords {
		if strings.Contains(lower, kw) {
			return domain.DirectionCredit, true
		}
	}
	if creditAbbrev.MatchString(body) {
		return domain.DirectionCredit, true
	}
	return "", false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func extractMerchant(body string) (string, bool) {
	return firstCapture(merchantFamilies, body, validMerchant)
}

// validMerchant normalizes a merchant candidate and rejects stoplisted or
// too-short captures. The winning capture keeps at most its first 3
// whitespace-separated tokens.
func validMerchant(raw string) (string, bool) {
	name := foldDiacritics(strings.TrimSpace(raw))
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, ",.")
	if len(name) < 2 {
		return "", false
	}

	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", false
	}
	if _, stopped := merchantStoplist[strings.ToLower(tokens[0])]; stopped {
		return "", false
	}
	if _, stopped := merchantStoplist[strings.ToLower(name)]; stopped {
		return "", false
	}
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " "), true
}

// foldDiacritics strips combining marks so accented merchant names match
// plain-ASCII keyword rules.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil || folded == "" {
		return s
	}
	return folded
}

var hasDigit = regexp.MustCompile(`[0-9]`)

// validReference accepts alphanumeric captures of length >= 6 that carry
// at least one digit (pure words like "transfer" slip past the anchor
// patterns otherwise).
func validReference(raw string) (string, bool) {
	ref := strings.TrimSpace(raw)
	if len(ref) < 6 || !hasDigit.MatchString(ref) {
		return "", false
	}
	return ref, true
}

// validSuffix accepts exactly 4 digits.
func validSuffix(raw string) (string, bool) {
	sfx := strings.TrimSpace(raw)
	if len(sfx) != 4 {
		return "", false
	}
	for _, r := range sfx {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return sfx, true
}
