package extract

import "regexp"

// patternFamily is one (pattern, capture-group) entry in an ordered
// fallback chain. Families are plain data: new bank formats are covered by
// appending entries, not by branching logic.
type patternFamily struct {
	re    *regexp.Regexp
	group int
}

// amountToken matches a numeric token with optional thousands separators
// and an optional decimal fraction. Fractions longer than 2 digits are
// rejected during validation, not by the pattern, so the family falls
// through cleanly.
const amountToken = `([0-9][0-9,]*(?:\.[0-9]+)?)`

// currencyMarker matches the currency prefixes observed across Indian bank
// senders.
const currencyMarker = `(?:rs\.?|inr|₹)`

// Symbol-prefixed amounts are tried before verb-phrase amounts: a number
// glued to a currency marker is less ambiguous than one found near a verb.
var amountFamilies = []patternFamily{
	{regexp.MustCompile(`(?i)` + currencyMarker + `\s*` + amountToken), 1},
	{regexp.MustCompile(`(?i)(?:debited|credited|withdrawn|deposited|spent|received|paid|transferred|transfer)\s+(?:by|for|with|of)?\s*` + currencyMarker + `?\s*` + amountToken), 1},
	{regexp.MustCompile(`(?i)amount\s+of\s+` + currencyMarker + `?\s*` + amountToken), 1},
}

var merchantFamilies = []patternFamily{
	// Preposition-anchored capture up to a boundary word. "@" only counts
	// when preceded by whitespace so VPA handles like name@bank are left
	// for the dedicated family below.
	{regexp.MustCompile(`(?i)(?:\b(?:at|to|from|for)\s+|(?:^|\s)@\s*)([A-Za-z][A-Za-z0-9 .&'_-]{0,29}?)(?:\s+(?:on|via|ref|upi|using|through|period)\b|[.,;:@]|$)`), 1},
	{regexp.MustCompile(`(?i)\bVPA[:\s]+([A-Za-z0-9._-]{2,})@`), 1},
	{regexp.MustCompile(`(?i)\bInfo[:\-]\s*([A-Za-z0-9][A-Za-z0-9 .&'_-]{0,39})`), 1},
	// Last resort: a word glued to the amount token.
	{regexp.MustCompile(`(?i)` + currencyMarker + `\s*[0-9][0-9,]*(?:\.[0-9]+)?[\s-]*([A-Za-z]\w{1,19})`), 1},
}

var referenceFamilies = []patternFamily{
	{regexp.MustCompile(`(?i)\b(?:upi|imps|neft|rtgs)\b[\s:/-]*(?:ref(?:erence)?\s*(?:no\.?|number|id)?\s*[:\-]?\s*)?([A-Za-z0-9]{6,})`), 1},
	{regexp.MustCompile(`(?i)\bref(?:erence)?\s*(?:no\.?|number|id)?\s*[:\-#]?\s*([A-Za-z0-9]{6,})`), 1},
	{regexp.MustCompile(`(?i)\btransaction\s*(?:id|no\.?|number|ref)?\s*[:\-#]?\s*([A-Za-z0-9]{6,})`), 1},
}

var suffixFamilies = []patternFamily{
	{regexp.MustCompile(`(?i)\b(?:account|acct|a/c|ac)\s*(?:no\.?)?\s*[*xX]*([0-9]{4})\b`), 1},
	{regexp.MustCompile(`(?i)\b(?:ending|linked)\s*(?:with|in|to)?\s*[*xX]*([0-9]{4})\b`), 1},
	{regexp.MustCompile(`\*{2,}\s*([0-9]{4})\b`), 1},
	{regexp.MustCompile(`\b[Xx]{2}([0-9]{4})\b`), 1},
}

var balanceFamilies = []patternFamily{
	{regexp.MustCompile(`(?i)(?:avl\.?\s*bal(?:ance)?|available\s*balance|bal(?:ance)?)\s*[:\-]?\s*` + currencyMarker + `?\s*` + amountToken), 1},
	{regexp.MustCompile(`(?i)` + currencyMarker + `?\s*` + amountToken + `\s*(?:is\s+)?(?:available|avl)\b`), 1},
}

// Direction keyword vocabularies. Debit is checked first: debit-type
// messages statistically outnumber credit-type ones, and a message mixing
// both vocabularies resolves to DEBIT.
var (
	debitKeywords  = []string{"debited", "debit", "spent", "paid", "withdrawn", "purchase", "transferred", "sent"}
	creditKeywords = []string{"credited", "credit", "received", "deposited", "refund", "cashback"}

	// "dr"/"cr" are too short for substring containment; they match as
	// standalone words only.
	debitAbbrev  = regexp.MustCompile(`(?i)\bdr\b`)
	creditAbbrev = regexp.MustCompile(`(?i)\bcr\b`)
)

// merchantStoplist holds common words that regularly land in the
// preposition-anchored capture without naming a counterparty. Tuned to
// observed Indian bank SMS phrasing; table-driven so other locales can
// extend it.
var merchantStoplist = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "your": {}, "with": {}, "from": {},
	"has": {}, "been": {}, "was": {}, "are": {}, "via": {}, "upi": {},
	"imps": {}, "neft": {}, "rtgs": {}, "ref": {}, "transaction": {},
	"payment": {}, "transfer": {}, "bank": {}, "account": {}, "vpa": {},
	"rs": {}, "inr": {},
	"debited": {}, "credited": {}, "debit": {}, "credit": {}, "spent": {},
	"paid": {}, "received": {}, "withdrawn": {}, "deposited": {},
	"transferred": {}, "sent": {}, "purchase": {}, "refund": {}, "cashback": {},
}
