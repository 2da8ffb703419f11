package extract

import (
	"strconv"
	"strings"
)

// Rejection reasons for quantities.
const (
	ReasonNoQuantity  = "no quantity found"
	ReasonBadQuantity = "invalid quantity"
)

// MaxQuantity caps a single line; anything above it is treated as a typo
// rather than an order.
const MaxQuantity = 10000

// QuantityResult carries the resolved quantity or an unresolved reason.
// Present distinguishes "no numeral anywhere" from "a numeral was there
// but unusable", which the assembler needs for its default policy.
type QuantityResult struct {
	Value   int
	Present bool
	Reason  string
}

// Resolved reports whether a usable quantity was found.
func (q QuantityResult) Resolved() bool { return q.Reason == "" }

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Quantity extracts the quantity from normalized segment text. Only
// whole all-digit words count as numerals, so size markers like "5l"
// never do; the rightmost numeral wins ("oil 1 litre 2 packets" means
// two). With no numerals, the rightmost spelled-out word one..ten is
// used. Zero, negative and absurdly large values are unresolved, not
// defaulted.
func Quantity(norm string) QuantityResult {
	lastNumeral := ""
	lastWord := 0
	for _, tok := range strings.Fields(norm) {
		if isDigits(tok) {
			lastNumeral = tok
		} else if v, ok := numberWords[tok]; ok {
			lastWord = v
		}
	}

	if lastNumeral != "" {
		v, err := strconv.Atoi(lastNumeral)
		if err != nil || v <= 0 || v > MaxQuantity {
			return QuantityResult{Present: true, Reason: ReasonBadQuantity}
		}
		return QuantityResult{Value: v, Present: true}
	}
	if lastWord > 0 {
		return QuantityResult{Value: lastWord, Present: true}
	}
	return QuantityResult{Reason: ReasonNoQuantity}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
